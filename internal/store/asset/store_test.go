package asset

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cgartco6/asset-engine/internal/model"
)

func TestPutGet(t *testing.T) {
	s := New()

	a := model.Asset{
		ID:        model.NewAssetID(model.AssetImage),
		Type:      model.AssetImage,
		Content:   []byte{0xff, 0xd8},
		MIMEType:  "image/jpeg",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Put(a); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.MIMEType != a.MIMEType || got.Type != a.Type {
		t.Fatalf("stored asset mismatch: %+v", got)
	}
}

func TestGetUnknown(t *testing.T) {
	s := New()
	if _, err := s.Get("image_0_0"); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestPutDuplicate(t *testing.T) {
	s := New()
	a := model.Asset{ID: "audio_1_1", Type: model.AssetAudio}

	if err := s.Put(a); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(a); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

// Asset IDs must stay pairwise distinct even when many assets of the same
// category are minted concurrently within the same second.
func TestConcurrentIDUniqueness(t *testing.T) {
	s := New()

	const workers = 16
	const perWorker = 100

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				a := model.Asset{
					ID:        model.NewAssetID(model.AssetVideo),
					Type:      model.AssetVideo,
					CreatedAt: time.Now().UTC(),
				}
				if err := s.Put(a); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent Put: %v", err)
	}
	if s.Len() != workers*perWorker {
		t.Fatalf("expected %d assets, got %d", workers*perWorker, s.Len())
	}
}

func TestPendingArchive(t *testing.T) {
	s := New()

	first := model.Asset{ID: "text_1_1", CreatedAt: time.Now().Add(-time.Minute)}
	second := model.Asset{ID: "text_2_2", CreatedAt: time.Now()}
	if err := s.Put(second); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(first); err != nil {
		t.Fatalf("Put: %v", err)
	}

	pending := s.PendingArchive()
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].ID != first.ID {
		t.Fatalf("pending not oldest-first: %s", pending[0].ID)
	}

	s.MarkArchived(first.ID)
	if pending = s.PendingArchive(); len(pending) != 1 || pending[0].ID != second.ID {
		t.Fatalf("unexpected pending set after archive: %+v", pending)
	}
}
