// Package generator contains the capability registry and the four content
// generation capabilities (text, image, video, audio).
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/cgartco6/asset-engine/internal/model"
)

// ErrUnsupportedType reports a create_asset request naming a type with no
// registered capability. Unlike an unknown task kind, it is reported back to
// the requester.
var ErrUnsupportedType = errors.New("unsupported asset type")

// Capability turns a specification into a finished asset. Implementations
// must be deterministic for a given spec apart from minted IDs, timestamps
// and externally-injected service responses.
type Capability interface {
	Generate(ctx context.Context, specs map[string]string) (model.Asset, error)
}

// Registry maps asset-type tags to capabilities.
type Registry struct {
	caps map[string]Capability
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]Capability)}
}

// Register binds a capability to a tag and any alias tags.
func (r *Registry) Register(tag string, c Capability, aliases ...string) {
	r.caps[tag] = c
	for _, a := range aliases {
		r.caps[a] = c
	}
}

// Lookup resolves the capability for an asset-type tag.
func (r *Registry) Lookup(tag string) (Capability, error) {
	c, ok := r.caps[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, tag)
	}
	return c, nil
}

// Default wires the standard tag set: text (with caption alias), image (with
// thumbnail alias), video and audio.
func Default(text *TextCapability, image *ImageCapability, video *VideoCapability, audio *AudioCapability) *Registry {
	r := NewRegistry()
	r.Register(model.AssetText, text, model.AssetCaption)
	r.Register(model.AssetImage, image, model.AssetThumbnail)
	r.Register(model.AssetVideo, video)
	r.Register(model.AssetAudio, audio)
	return r
}

// categoryFor normalizes alias tags to the canonical asset type used for
// Asset.Type and ID categories.
func categoryFor(tag string) string {
	switch tag {
	case model.AssetCaption:
		return model.AssetText
	case model.AssetThumbnail:
		return model.AssetImage
	default:
		return tag
	}
}
