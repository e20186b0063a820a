package asset

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/cgartco6/asset-engine/internal/api/respond"
	"github.com/cgartco6/asset-engine/internal/model"
	assetstore "github.com/cgartco6/asset-engine/internal/store/asset"
)

// service defines the interface for asset lookups.
type service interface {
	GetAsset(ctx context.Context, id string) (model.Asset, error)
}

// Handler provides HTTP handlers for asset-related endpoints.
type Handler struct {
	service service
}

// NewHandler creates a new Handler with the given service.
func NewHandler(s service) *Handler {
	return &Handler{service: s}
}

// Get returns asset metadata without the content bytes.
func (h *Handler) Get(c *ginext.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("missing id"))
		return
	}

	a, err := h.service.GetAsset(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, assetstore.ErrAssetNotFound) {
			respond.Fail(c, http.StatusNotFound, fmt.Errorf("asset not found"))
			return
		}

		zlog.Logger.Err(err).Str("asset_id", id).Msg("failed to get asset")
		respond.Fail(c, http.StatusInternalServerError, fmt.Errorf("failed to get asset"))
		return
	}

	respond.OK(c, map[string]interface{}{
		"asset_id":   a.ID,
		"type":       a.Type,
		"mime_type":  a.MIMEType,
		"specs":      a.Specs,
		"created_at": a.CreatedAt,
		"bytes":      len(a.Content),
	})
}

// GetContent serves the raw asset bytes with the stored MIME type.
func (h *Handler) GetContent(c *ginext.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("missing id"))
		return
	}

	a, err := h.service.GetAsset(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, assetstore.ErrAssetNotFound) {
			respond.Fail(c, http.StatusNotFound, fmt.Errorf("asset not found"))
			return
		}

		zlog.Logger.Err(err).Str("asset_id", id).Msg("failed to get asset content")
		respond.Fail(c, http.StatusInternalServerError, fmt.Errorf("failed to get asset content"))
		return
	}

	respond.Blob(c, http.StatusOK, a.MIMEType, a.Content)
}
