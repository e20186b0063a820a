// Package asset provides the concurrency-safe in-memory asset store. It is
// the only mutable state shared between the worker loop and external
// readers; every access goes through the store's lock.
package asset

import (
	"errors"
	"sort"
	"sync"

	"github.com/cgartco6/asset-engine/internal/model"
)

var (
	// ErrAssetNotFound is returned by Get for unknown identifiers.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrDuplicateID is returned by Put when an identifier is reused.
	ErrDuplicateID = errors.New("duplicate asset id")
)

// Store maps asset identifiers to immutable asset records. The store never
// evicts entries on its own; cleanup is an operational concern.
type Store struct {
	mu      sync.RWMutex
	assets  map[string]model.Asset
	pending map[string]struct{} // inserted but not yet archived
}

// New creates an empty store.
func New() *Store {
	return &Store{
		assets:  make(map[string]model.Asset),
		pending: make(map[string]struct{}),
	}
}

// Put inserts an asset under its own lock scope. Identifiers are unique for
// the process lifetime, so a duplicate indicates a bug in ID generation.
func (s *Store) Put(a model.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assets[a.ID]; exists {
		return ErrDuplicateID
	}
	s.assets[a.ID] = a
	s.pending[a.ID] = struct{}{}

	return nil
}

// Get returns the asset stored under id.
func (s *Store) Get(id string) (model.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assets[id]
	if !ok {
		return model.Asset{}, ErrAssetNotFound
	}
	return a, nil
}

// Len reports the number of stored assets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}

// PendingArchive returns assets that have not been archived yet, oldest
// first, for the periodic archival job.
func (s *Store) PendingArchive() []model.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Asset, 0, len(s.pending))
	for id := range s.pending {
		out = append(out, s.assets[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out
}

// MarkArchived clears the pending flag for id after a successful upload.
func (s *Store) MarkArchived(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}
