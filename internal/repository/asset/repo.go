package asset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wb-go/wbf/dbpg"

	"github.com/cgartco6/asset-engine/internal/service/engine"
	assetstore "github.com/cgartco6/asset-engine/internal/store/asset"
)

// ErrAssetNotFound is the in-memory store's sentinel. Both lookup tiers
// report a miss with the same error so handlers can branch on one value.
var ErrAssetNotFound = assetstore.ErrAssetNotFound

// Repository persists archived asset metadata in PostgreSQL. Content bytes
// live in object storage; only the object path is recorded here.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new Repository with the given DB connection.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// SaveAsset inserts an archived asset record. Re-archiving the same asset is
// a no-op thanks to the primary key conflict clause.
func (r *Repository) SaveAsset(ctx context.Context, id, assetType, mimeType string, specs map[string]string, objectPath string, createdAt time.Time) error {
	query := `
		INSERT INTO assets (id, type, mime_type, specs, object_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	specsJSON, err := json.Marshal(specs)
	if err != nil {
		return fmt.Errorf("failed to marshal specs: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, id, assetType, mimeType, specsJSON, objectPath, createdAt); err != nil {
		return fmt.Errorf("save: failed to save asset: %w", err)
	}

	return nil
}

// GetAsset retrieves an archived asset record by ID.
func (r *Repository) GetAsset(ctx context.Context, id string) (engine.ArchiveRecord, error) {
	query := `
		SELECT type, mime_type, specs, object_path
		FROM assets
		WHERE id = $1
	`

	var rec engine.ArchiveRecord
	var specsBytes []byte

	err := r.db.Master.QueryRowContext(ctx, query, id).
		Scan(&rec.Type, &rec.MIMEType, &specsBytes, &rec.ObjectPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return engine.ArchiveRecord{}, ErrAssetNotFound
		}

		return engine.ArchiveRecord{}, fmt.Errorf("get: failed to get asset: %w", err)
	}

	if err := json.Unmarshal(specsBytes, &rec.Specs); err != nil {
		return engine.ArchiveRecord{}, fmt.Errorf("get: failed to unmarshal specs: %w", err)
	}

	rec.ID = id

	return rec, nil
}
