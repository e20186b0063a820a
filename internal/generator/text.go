package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cgartco6/asset-engine/internal/model"
)

// TextService is the external completion service contract.
type TextService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TextCapability generates marketing copy and captions through the text
// service.
type TextCapability struct {
	svc TextService
}

// NewText creates the text capability backed by svc.
func NewText(svc TextService) *TextCapability {
	return &TextCapability{svc: svc}
}

// Generate composes a prompt from the spec and wraps the service response as
// a text asset.
func (t *TextCapability) Generate(ctx context.Context, specs map[string]string) (model.Asset, error) {
	prompt := ComposePrompt(specs)

	text, err := t.svc.Complete(ctx, prompt)
	if err != nil {
		return model.Asset{}, fmt.Errorf("text generation failed: %w", err)
	}

	category := categoryFor(specs["type"])
	if category == "" {
		category = model.AssetText
	}

	return model.Asset{
		ID:        model.NewAssetID(category),
		Type:      model.AssetText,
		Content:   []byte(text),
		MIMEType:  "text/plain; charset=utf-8",
		Specs:     specs,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ComposePrompt builds the completion prompt from length, type, product,
// target_demo and tone parameters. Missing fields get neutral defaults.
func ComposePrompt(specs map[string]string) string {
	length := specs["length"]
	if length == "" {
		length = "medium"
	}
	kind := specs["type"]
	if kind == "" {
		kind = model.AssetText
	}
	product := specs["product"]
	if product == "" {
		product = "the product"
	}
	demo := specs["target_demo"]
	if demo == "" {
		demo = "a general audience"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s %s promoting %s to %s.", length, kind, product, demo)
	if tone := specs["tone"]; tone != "" {
		fmt.Fprintf(&b, " Use a %s tone.", tone)
	}
	if platform := specs["platform"]; platform != "" {
		fmt.Fprintf(&b, " The copy will run on %s.", platform)
	}

	return b.String()
}
