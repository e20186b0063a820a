// Package dispatcher routes dequeued tasks to their handlers and contains
// every per-task failure so the worker loop never terminates because of one.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wb-go/wbf/zlog"

	"github.com/cgartco6/asset-engine/internal/envelope"
	"github.com/cgartco6/asset-engine/internal/generator"
	"github.com/cgartco6/asset-engine/internal/model"
)

// messenger sends result and error envelopes to collaborators.
type messenger interface {
	SendResult(ctx context.Context, recipient, msgType string, content interface{}) error
	SendError(ctx context.Context, recipient, errMsg string) error
}

// assetStore records finished assets.
type assetStore interface {
	Put(a model.Asset) error
}

// capabilityRegistry resolves asset-type tags to generation capabilities.
type capabilityRegistry interface {
	Lookup(tag string) (generator.Capability, error)
}

// campaignTables expands campaigns and reloads the static tables.
type campaignTables interface {
	Expand(c model.Campaign) []map[string]string
	Reload()
}

// Dispatcher classifies tasks by kind and invokes the matching handler.
type Dispatcher struct {
	codec     *envelope.Codec
	registry  capabilityRegistry
	store     assetStore
	messenger messenger
	tables    campaignTables
	text      generator.TextService
}

// New wires a dispatcher.
func New(
	codec *envelope.Codec,
	registry capabilityRegistry,
	store assetStore,
	m messenger,
	tables campaignTables,
	text generator.TextService,
) *Dispatcher {
	return &Dispatcher{
		codec:     codec,
		registry:  registry,
		store:     store,
		messenger: m,
		tables:    tables,
		text:      text,
	}
}

// Process handles one task. All failures are contained: they are logged,
// reported to the requester where the protocol says so, and never propagate.
func (d *Dispatcher) Process(ctx context.Context, task model.Task) {
	if task.Encrypted {
		decrypted, err := d.decryptTask(task)
		if err != nil {
			// Tampered or malformed payload: record internally, invoke no
			// handler, send no reply.
			zlog.Logger.Error().Err(err).
				Str("event", "decryption_failed").
				Msg("dropping task with undecryptable payload")
			return
		}
		task = decrypted
	}

	switch task.Kind {
	case model.KindContentPlan:
		d.handleContentPlan(ctx, task)
	case model.KindCreateAsset:
		d.handleCreateAsset(ctx, task.Specs, task.ReplyTo())
	case model.KindBatchCreate:
		d.handleBatchCreate(ctx, task)
	case model.KindUpdateTemplates:
		d.tables.Reload()
		zlog.Logger.Info().Msg("template and style tables reloaded")
	default:
		// Unknown kinds are dropped without a reply. This is deliberately
		// asymmetric with unsupported asset types, which do get an error
		// reply: the sender of a malformed kind may not even speak our
		// protocol.
		zlog.Logger.Warn().Str("kind", task.Kind).Msg("unknown task kind, dropping")
	}
}

func (d *Dispatcher) decryptTask(task model.Task) (model.Task, error) {
	plaintext, err := d.codec.Decrypt(task.Payload)
	if err != nil {
		return model.Task{}, err
	}

	var inner model.Task
	if err := json.Unmarshal(plaintext, &inner); err != nil {
		return model.Task{}, fmt.Errorf("%w: invalid task body: %v", envelope.ErrDecrypt, err)
	}

	return inner, nil
}

// handleContentPlan expands the campaign into per-platform asset specs,
// requests a strategy narrative and ships the whole package to the
// engagement agent.
func (d *Dispatcher) handleContentPlan(ctx context.Context, task model.Task) {
	if task.Campaign == nil {
		d.reportError(ctx, task.ReplyTo(), "content_plan task missing campaign")
		return
	}
	c := *task.Campaign

	specs := d.tables.Expand(c)

	strategy, err := d.text.Complete(ctx, strategyPrompt(c))
	if err != nil {
		d.reportError(ctx, task.ReplyTo(), fmt.Sprintf("strategy generation failed: %v", err))
		return
	}

	pkg := map[string]interface{}{
		"campaign_id": c.ID,
		"strategy":    strategy,
		"assets":      specs,
	}
	if err := d.messenger.SendResult(ctx, model.PlanRecipient, model.MsgContentPackage, pkg); err != nil {
		zlog.Logger.Error().Err(err).Str("campaign_id", c.ID).Msg("failed to send content package")
		return
	}

	zlog.Logger.Info().
		Str("campaign_id", c.ID).
		Int("asset_specs", len(specs)).
		Msg("content plan dispatched")
}

// handleCreateAsset resolves the capability, generates and stores the asset
// and acknowledges the requester. Any failure is reported as a
// creation_error message instead.
func (d *Dispatcher) handleCreateAsset(ctx context.Context, specs map[string]string, replyTo string) {
	capability, err := d.registry.Lookup(specs["type"])
	if err != nil {
		d.reportError(ctx, replyTo, err.Error())
		return
	}

	a, err := capability.Generate(ctx, specs)
	if err != nil {
		d.reportError(ctx, replyTo, fmt.Sprintf("generation failed for %s: %v", specs["type"], err))
		return
	}

	if err := d.store.Put(a); err != nil {
		d.reportError(ctx, replyTo, fmt.Sprintf("failed to store asset %s: %v", a.ID, err))
		return
	}

	ack := map[string]interface{}{
		"asset_id":   a.ID,
		"type":       a.Type,
		"mime_type":  a.MIMEType,
		"specs":      a.Specs,
		"created_at": a.CreatedAt,
	}
	if err := d.messenger.SendResult(ctx, replyTo, model.MsgAssetCreated, ack); err != nil {
		zlog.Logger.Error().Err(err).Str("asset_id", a.ID).Msg("failed to acknowledge asset creation")
		return
	}

	zlog.Logger.Info().
		Str("asset_id", a.ID).
		Str("type", a.Type).
		Msg("asset created")
}

// handleBatchCreate runs create_asset logic for each sub-task independently;
// one failure never aborts the rest of the batch.
func (d *Dispatcher) handleBatchCreate(ctx context.Context, task model.Task) {
	replyTo := task.ReplyTo()
	for _, specs := range task.Assets {
		d.handleCreateAsset(ctx, specs, replyTo)
	}
}

func (d *Dispatcher) reportError(ctx context.Context, replyTo, msg string) {
	zlog.Logger.Warn().Str("recipient", replyTo).Msg(msg)
	if err := d.messenger.SendError(ctx, replyTo, msg); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to send creation_error")
	}
}

func strategyPrompt(c model.Campaign) string {
	return fmt.Sprintf(
		"Draft a concise multi-platform content strategy for %s aimed at %s, covering: %s.",
		c.Product, c.TargetDemo, joinPlatforms(c.Platforms),
	)
}

func joinPlatforms(platforms []string) string {
	if len(platforms) == 0 {
		return "all platforms"
	}
	out := platforms[0]
	for _, p := range platforms[1:] {
		out += ", " + p
	}
	return out
}
