// Package messenger builds, encrypts and dispatches result and error
// envelopes addressed to collaborating agents.
package messenger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/cgartco6/asset-engine/internal/envelope"
	"github.com/cgartco6/asset-engine/internal/model"
)

// Transport delivers a finished envelope to other agents. The engine only
// specifies the send side; delivery guarantees belong to the transport.
type Transport interface {
	Deliver(ctx context.Context, env model.Envelope) error
}

// Messenger assembles and encrypts outbound envelopes. Every outbound
// payload is encrypted; there is no plaintext mode.
type Messenger struct {
	codec     *envelope.Codec
	transport Transport
	origin    string
}

// New creates a messenger sending envelopes as origin.
func New(codec *envelope.Codec, transport Transport, origin string) *Messenger {
	return &Messenger{codec: codec, transport: transport, origin: origin}
}

// SendResult sends a typed result message to recipient.
func (m *Messenger) SendResult(ctx context.Context, recipient, msgType string, content interface{}) error {
	return m.send(ctx, recipient, msgType, content)
}

// SendError reports a failure description to recipient as a creation_error
// message.
func (m *Messenger) SendError(ctx context.Context, recipient, errMsg string) error {
	return m.send(ctx, recipient, model.MsgCreationError, map[string]string{"error": errMsg})
}

func (m *Messenger) send(ctx context.Context, recipient, msgType string, content interface{}) error {
	body := model.Message{
		Type:      msgType,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Origin:    m.origin,
	}

	plaintext, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("messenger: marshal body: %w", err)
	}

	sealed, err := m.codec.Encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("messenger: encrypt body: %w", err)
	}

	env := model.Envelope{
		To:        recipient,
		Payload:   base64.StdEncoding.EncodeToString(sealed),
		Encrypted: true,
	}

	if err := m.transport.Deliver(ctx, env); err != nil {
		return fmt.Errorf("messenger: deliver to %s: %w", recipient, err)
	}

	return nil
}

// LogTransport is the stub delivery used when no real transport is
// configured: envelopes are logged and dropped.
type LogTransport struct{}

// Deliver logs the envelope headers.
func (LogTransport) Deliver(_ context.Context, env model.Envelope) error {
	zlog.Logger.Info().
		Str("to", env.To).
		Int("payload_bytes", len(env.Payload)).
		Msg("envelope dispatched (log transport)")
	return nil
}
