package model

import "github.com/google/uuid"

// Task kinds understood by the dispatcher.
const (
	KindContentPlan     = "content_plan"
	KindCreateAsset     = "create_asset"
	KindBatchCreate     = "batch_create"
	KindUpdateTemplates = "update_templates"
)

// Default collaborator identifiers for reply routing.
const (
	DefaultRequester = "commander"
	PlanRecipient    = "infiltrator"
)

// Task represents a single unit of work submitted to the engine.
// When Encrypted is set, Payload carries the ciphertext of a serialized
// Task and every other field is ignored until the dispatcher decrypts it.
type Task struct {
	ID        uuid.UUID           `json:"id,omitempty"`
	Kind      string              `json:"type"`
	Encrypted bool                `json:"encrypted,omitempty"`
	Payload   []byte              `json:"payload,omitempty"`
	Specs     map[string]string   `json:"specs,omitempty"`     // create_asset parameters
	Assets    []map[string]string `json:"assets,omitempty"`    // batch_create sub-specs
	Campaign  *Campaign           `json:"campaign,omitempty"`  // content_plan input
	Requester string              `json:"requester,omitempty"` // reply recipient, defaults to DefaultRequester
}

// ReplyTo returns the collaborator that should receive results for this task.
func (t Task) ReplyTo() string {
	if t.Requester == "" {
		return DefaultRequester
	}
	return t.Requester
}
