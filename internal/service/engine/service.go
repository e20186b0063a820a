// Package engine exposes the submission and query surface of the dispatch
// engine to the HTTP and Kafka ingress layers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/cgartco6/asset-engine/internal/model"
	"github.com/cgartco6/asset-engine/internal/queue"
	"github.com/cgartco6/asset-engine/internal/store/asset"
)

// ErrInvalidTask reports a submission the engine cannot accept.
var ErrInvalidTask = errors.New("invalid task")

// ArchiveRecord is the archived metadata for an asset that has been flushed
// out of memory (for example across restarts).
type ArchiveRecord struct {
	ID         string
	Type       string
	MIMEType   string
	Specs      map[string]string
	ObjectPath string
}

// archiveIndex looks up archived asset metadata.
type archiveIndex interface {
	GetAsset(ctx context.Context, id string) (ArchiveRecord, error)
}

// contentStorage loads archived asset bytes.
type contentStorage interface {
	Load(ctx context.Context, path string) (io.ReadCloser, error)
}

// Service accepts tasks on behalf of submitters and serves asset lookups.
// Reads go to the in-memory store first and fall back to the archive when
// one is configured.
type Service struct {
	queue   *queue.Queue
	store   *asset.Store
	archive archiveIndex
	content contentStorage
}

// NewService creates the engine service. archive and content may be nil when
// no archival backend is configured.
func NewService(q *queue.Queue, s *asset.Store, archive archiveIndex, content contentStorage) *Service {
	return &Service{queue: q, store: s, archive: archive, content: content}
}

// Submit validates a task, assigns its ingress ID and enqueues it. It never
// blocks the submitter.
func (s *Service) Submit(task model.Task) (uuid.UUID, error) {
	if task.Kind == "" && !task.Encrypted {
		return uuid.Nil, fmt.Errorf("%w: missing type", ErrInvalidTask)
	}
	if task.Encrypted && len(task.Payload) == 0 {
		return uuid.Nil, fmt.Errorf("%w: encrypted task without payload", ErrInvalidTask)
	}

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	s.queue.Enqueue(task)
	zlog.Logger.Debug().
		Str("task_id", task.ID.String()).
		Str("kind", task.Kind).
		Msg("task accepted")

	return task.ID, nil
}

// GetAsset returns the asset stored under id, consulting the archive when
// the in-memory store does not have it.
func (s *Service) GetAsset(ctx context.Context, id string) (model.Asset, error) {
	a, err := s.store.Get(id)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, asset.ErrAssetNotFound) || s.archive == nil || s.content == nil {
		return model.Asset{}, err
	}

	rec, err := s.archive.GetAsset(ctx, id)
	if err != nil {
		return model.Asset{}, err
	}

	reader, err := s.content.Load(ctx, rec.ObjectPath)
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to load archived content: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to read archived content: %w", err)
	}

	return model.Asset{
		ID:       rec.ID,
		Type:     rec.Type,
		Content:  content,
		MIMEType: rec.MIMEType,
		Specs:    rec.Specs,
	}, nil
}

// QueueDepth reports the number of tasks awaiting processing.
func (s *Service) QueueDepth() int {
	return s.queue.Len()
}

// AssetCount reports the number of assets held in memory.
func (s *Service) AssetCount() int {
	return s.store.Len()
}
