package asset

import (
	"errors"
	"testing"

	assetstore "github.com/cgartco6/asset-engine/internal/store/asset"
)

// Handlers check a single not-found sentinel for both the in-memory store
// and the archive tier; a miss reported here must match it.
func TestNotFoundMatchesStoreSentinel(t *testing.T) {
	if !errors.Is(ErrAssetNotFound, assetstore.ErrAssetNotFound) {
		t.Fatal("repository not-found must satisfy errors.Is against the store sentinel")
	}
}
