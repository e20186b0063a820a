package task

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/cgartco6/asset-engine/internal/api/respond"
	"github.com/cgartco6/asset-engine/internal/model"
	"github.com/cgartco6/asset-engine/internal/service/engine"
)

// service defines the interface for task submission.
type service interface {
	Submit(task model.Task) (uuid.UUID, error)
	QueueDepth() int
	AssetCount() int
}

// Handler provides HTTP handlers for task submission.
type Handler struct {
	service service
}

// NewHandler creates a new Handler with the given service.
func NewHandler(s service) *Handler {
	return &Handler{service: s}
}

// Submit accepts a task for asynchronous processing and responds with the
// assigned task ID.
func (h *Handler) Submit(c *ginext.Context) {
	var t model.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		zlog.Logger.Err(err).Msg("failed to bind task")
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("invalid task body: %v", err))
		return
	}

	id, err := h.service.Submit(t)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidTask) {
			respond.Fail(c, http.StatusBadRequest, err)
			return
		}

		zlog.Logger.Err(err).Msg("failed to submit task")
		respond.Fail(c, http.StatusInternalServerError, fmt.Errorf("failed to submit task"))
		return
	}

	respond.Accepted(c, map[string]interface{}{
		"task_id": id,
	})
}

// Health reports basic engine liveness counters.
func (h *Handler) Health(c *ginext.Context) {
	respond.OK(c, map[string]interface{}{
		"status":      "ok",
		"queue_depth": h.service.QueueDepth(),
		"assets":      h.service.AssetCount(),
	})
}
