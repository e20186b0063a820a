// Package archive flushes completed assets to object storage (and metadata
// to the database when configured) as a periodic worker job. The in-memory
// store stays the authoritative copy.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/cgartco6/asset-engine/internal/model"
	"github.com/cgartco6/asset-engine/internal/store/asset"
)

// contentStorage uploads asset bytes.
type contentStorage interface {
	Save(ctx context.Context, subdir, filename, contentType string, src io.Reader, size int64) (string, error)
}

// metadataRepo records where an asset's bytes were archived.
type metadataRepo interface {
	SaveAsset(ctx context.Context, id, assetType, mimeType string, specs map[string]string, objectPath string, createdAt time.Time) error
}

// Archiver uploads assets that have not been archived yet.
type Archiver struct {
	store *asset.Store
	files contentStorage
	repo  metadataRepo // optional
}

// New creates an archiver. repo may be nil when no database is configured.
func New(store *asset.Store, files contentStorage, repo metadataRepo) *Archiver {
	return &Archiver{store: store, files: files, repo: repo}
}

// Sweep archives every pending asset. A failed upload leaves the asset
// pending so the next sweep retries it.
func (a *Archiver) Sweep(ctx context.Context) {
	pending := a.store.PendingArchive()
	for _, item := range pending {
		if ctx.Err() != nil {
			return
		}
		if err := a.archiveOne(ctx, item); err != nil {
			zlog.Logger.Warn().Err(err).Str("asset_id", item.ID).Msg("asset archive failed, will retry")
			continue
		}
		a.store.MarkArchived(item.ID)
	}

	if len(pending) > 0 {
		zlog.Logger.Info().Int("swept", len(pending)).Msg("archive sweep finished")
	}
}

func (a *Archiver) archiveOne(ctx context.Context, item model.Asset) error {
	filename := item.ID + extensionFor(item.MIMEType)

	objectPath, err := a.files.Save(ctx, item.Type, filename, item.MIMEType, bytes.NewReader(item.Content), int64(len(item.Content)))
	if err != nil {
		return fmt.Errorf("upload content: %w", err)
	}

	if a.repo == nil {
		return nil
	}
	if err := a.repo.SaveAsset(ctx, item.ID, item.Type, item.MIMEType, item.Specs, objectPath, item.CreatedAt); err != nil {
		return fmt.Errorf("record metadata: %w", err)
	}

	return nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "audio/wav":
		return ".wav"
	default:
		return ".txt"
	}
}
