package model

// Envelope is the wire unit exchanged with collaborating agents. Payload is
// the base64 encoding of the encrypted, serialized Message body. Outbound
// envelopes are always encrypted.
type Envelope struct {
	To        string `json:"to"`
	Payload   string `json:"payload"`
	Encrypted bool   `json:"encrypted"`
}

// Message is the inner envelope body before encryption.
type Message struct {
	Type      string      `json:"type"`
	Content   interface{} `json:"content"`
	Timestamp string      `json:"timestamp"` // RFC 3339
	Origin    string      `json:"origin"`
}

// Message types emitted by the engine.
const (
	MsgContentPackage = "content_package"
	MsgAssetCreated   = "asset_created"
	MsgCreationError  = "creation_error"
)
