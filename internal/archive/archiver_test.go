package archive

import (
	"context"
	"errors"
	"io"
	"path"
	"testing"
	"time"

	"github.com/cgartco6/asset-engine/internal/model"
	"github.com/cgartco6/asset-engine/internal/store/asset"
)

type fakeStorage struct {
	saved map[string][]byte
	fail  bool
}

func (f *fakeStorage) Save(_ context.Context, subdir, filename, _ string, src io.Reader, _ int64) (string, error) {
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	objectPath := path.Join(subdir, filename)
	f.saved[objectPath] = b
	return objectPath, nil
}

type fakeRepo struct {
	records map[string]string // id -> object path
}

func (f *fakeRepo) SaveAsset(_ context.Context, id, _, _ string, _ map[string]string, objectPath string, _ time.Time) error {
	f.records[id] = objectPath
	return nil
}

func TestSweepArchivesPending(t *testing.T) {
	s := asset.New()
	a := model.Asset{
		ID:        "image_5_5",
		Type:      model.AssetImage,
		Content:   []byte{0xff, 0xd8},
		MIMEType:  "image/jpeg",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Put(a); err != nil {
		t.Fatalf("Put: %v", err)
	}

	storage := &fakeStorage{saved: make(map[string][]byte)}
	repo := &fakeRepo{records: make(map[string]string)}

	New(s, storage, repo).Sweep(context.Background())

	wantPath := "image/image_5_5.jpg"
	if _, ok := storage.saved[wantPath]; !ok {
		t.Fatalf("content not uploaded at %s: %v", wantPath, storage.saved)
	}
	if repo.records[a.ID] != wantPath {
		t.Fatalf("metadata not recorded: %v", repo.records)
	}
	if pending := s.PendingArchive(); len(pending) != 0 {
		t.Fatalf("asset should be marked archived, pending=%d", len(pending))
	}
}

func TestSweepRetriesOnFailure(t *testing.T) {
	s := asset.New()
	if err := s.Put(model.Asset{ID: "audio_7_7", Type: model.AssetAudio, MIMEType: "audio/wav"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	storage := &fakeStorage{saved: make(map[string][]byte), fail: true}
	arch := New(s, storage, nil)

	arch.Sweep(context.Background())
	if pending := s.PendingArchive(); len(pending) != 1 {
		t.Fatal("failed upload should leave asset pending")
	}

	storage.fail = false
	arch.Sweep(context.Background())
	if pending := s.PendingArchive(); len(pending) != 0 {
		t.Fatal("retry sweep should archive the asset")
	}
}

func TestSweepWithoutRepo(t *testing.T) {
	s := asset.New()
	if err := s.Put(model.Asset{ID: "text_3_3", Type: model.AssetText, MIMEType: "text/plain; charset=utf-8"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	storage := &fakeStorage{saved: make(map[string][]byte)}
	New(s, storage, nil).Sweep(context.Background())

	if _, ok := storage.saved["text/text_3_3.txt"]; !ok {
		t.Fatalf("content not uploaded: %v", storage.saved)
	}
}
