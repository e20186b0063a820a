package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/zlog"

	"github.com/cgartco6/asset-engine/internal/model"
)

// submitter defines the interface for accepting tasks into the engine.
type submitter interface {
	Submit(task model.Task) (uuid.UUID, error)
}

// SubmitHandler handles Kafka messages carrying inbound tasks. It relies on
// the engine service for validation and enqueueing.
type SubmitHandler struct {
	service submitter
}

// NewSubmitHandler creates a new handler with the given service.
func NewSubmitHandler(s submitter) *SubmitHandler {
	return &SubmitHandler{service: s}
}

// Handle processes a Kafka message containing a task. It unmarshals the
// message, submits the task to the engine, and logs the assigned ID.
func (h *SubmitHandler) Handle(_ context.Context, msg kafka.Message) error {
	var t model.Task
	if err := json.Unmarshal(msg.Value, &t); err != nil {
		return fmt.Errorf("unmarshal task: %w", err)
	}

	id, err := h.service.Submit(t)
	if err != nil {
		return fmt.Errorf("submit task: %w", err)
	}

	zlog.Logger.Printf("task accepted: %s", id)

	return nil
}
