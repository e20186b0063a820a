package model

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Asset type tags accepted by the capability registry. Caption and thumbnail
// are aliases handled by the text and image capabilities respectively.
const (
	AssetText      = "text"
	AssetCaption   = "caption"
	AssetImage     = "image"
	AssetThumbnail = "thumbnail"
	AssetVideo     = "video"
	AssetAudio     = "audio"
)

// Asset is a generated content artifact. Instances are immutable once
// inserted into the store.
type Asset struct {
	ID        string            `json:"asset_id"`
	Type      string            `json:"type"`
	Content   []byte            `json:"content"` // base64 on the wire
	MIMEType  string            `json:"mime_type"`
	Specs     map[string]string `json:"specs,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

var assetSeq uint64

// NewAssetID mints a process-unique asset identifier. The category prefix
// distinguishes concurrent asset types and the sequence component keeps IDs
// distinct even when many assets are created within the same nanosecond.
func NewAssetID(category string) string {
	seq := atomic.AddUint64(&assetSeq, 1)
	return fmt.Sprintf("%s_%d_%d", category, time.Now().UnixNano(), seq)
}
