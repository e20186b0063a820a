package model

// Campaign describes a marketing campaign to be expanded into per-platform
// asset specifications. The engine never mutates it.
type Campaign struct {
	ID         string   `json:"id"`
	Product    string   `json:"product"`
	TargetDemo string   `json:"target_demo"`
	Platforms  []string `json:"platforms"`
	Tone       string   `json:"tone,omitempty"`
}
