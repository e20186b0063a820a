// Package campaign holds the static platform, template and style tables and
// expands a campaign into per-platform asset specifications.
package campaign

import (
	"fmt"
	"sync"

	"github.com/cgartco6/asset-engine/internal/model"
)

// Archetype is one asset shape a platform expects, with its default
// generation parameters.
type Archetype struct {
	Type   string
	Params map[string]string
}

// Tables owns the platform, caption-template and style tables. Reload swaps
// all three atomically so concurrent readers never observe a partial update.
type Tables struct {
	mu        sync.RWMutex
	platforms map[string][]Archetype
	templates map[string]string
	styles    map[string]string
}

// NewTables builds the tables from the built-in defaults.
func NewTables() *Tables {
	t := &Tables{}
	t.Reload()
	return t
}

// Reload rebuilds every table and swaps it in under the write lock.
// Idempotent; safe to call from the update_templates handler at any time.
func (t *Tables) Reload() {
	platforms := defaultPlatforms()
	templates := defaultTemplates()
	styles := defaultStyles()

	t.mu.Lock()
	t.platforms = platforms
	t.templates = templates
	t.styles = styles
	t.mu.Unlock()
}

// Platform returns the archetype list for a platform name.
func (t *Tables) Platform(name string) ([]Archetype, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.platforms[name]
	return a, ok
}

// Template returns the caption template registered under name.
func (t *Tables) Template(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.templates[name]
	return s, ok
}

// Style returns the visual style tag registered under name.
func (t *Tables) Style(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.styles[name]
	return s, ok
}

// Expand turns a campaign into the ordered list of asset specifications to
// generate. Expansion is deterministic: the same campaign and platform set
// always produce the same list. Unknown platforms are skipped.
func (t *Tables) Expand(c model.Campaign) []map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var specs []map[string]string
	for _, platform := range c.Platforms {
		for _, arch := range t.platforms[platform] {
			spec := map[string]string{
				"platform":    platform,
				"type":        arch.Type,
				"product":     c.Product,
				"target_demo": c.TargetDemo,
				"campaign_id": c.ID,
			}
			if c.Tone != "" {
				spec["tone"] = c.Tone
			}
			for k, v := range arch.Params {
				spec[k] = v
			}
			specs = append(specs, spec)
		}
	}

	return specs
}

func defaultPlatforms() map[string][]Archetype {
	return map[string][]Archetype{
		"tiktok": {
			{Type: model.AssetVideo, Params: map[string]string{"duration": "15", "style": "fast_cut"}},
			{Type: model.AssetCaption, Params: map[string]string{"length": "short", "tone": "playful"}},
		},
		"instagram": {
			{Type: model.AssetImage, Params: map[string]string{"aspect_ratio": "1:1", "style": "aesthetic"}},
			{Type: model.AssetCaption, Params: map[string]string{"length": "medium", "tone": "aspirational"}},
		},
		"facebook": {
			{Type: model.AssetImage, Params: map[string]string{"aspect_ratio": "16:9", "style": "community"}},
			{Type: model.AssetText, Params: map[string]string{"length": "long", "tone": "conversational"}},
		},
		"youtube": {
			{Type: model.AssetVideo, Params: map[string]string{"duration": "30", "style": "tutorial"}},
			{Type: model.AssetThumbnail, Params: map[string]string{"aspect_ratio": "16:9", "style": "bold"}},
		},
	}
}

func defaultTemplates() map[string]string {
	return map[string]string{
		"product_launch": "Introducing %s, built for %s.",
		"social_proof":   "See why %s is the go-to choice for %s.",
		"call_to_action": "%s: made for %s. Try it today.",
	}
}

func defaultStyles() map[string]string {
	return map[string]string{
		"fast_cut":       "high-energy quick cuts",
		"aesthetic":      "minimal, soft palette",
		"community":      "warm, people-first",
		"tutorial":       "clear step-by-step",
		"bold":           "high contrast, large type",
		"conversational": "plain, friendly voice",
	}
}

// CaptionFor renders a named template with the campaign product and target
// demographic.
func (t *Tables) CaptionFor(template string, c model.Campaign) (string, error) {
	tmpl, ok := t.Template(template)
	if !ok {
		return "", fmt.Errorf("campaign: unknown template %q", template)
	}
	return fmt.Sprintf(tmpl, c.Product, c.TargetDemo), nil
}
