package producer

import (
	"context"
	"encoding/json"
	"fmt"

	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"

	"github.com/cgartco6/asset-engine/internal/config"
	"github.com/cgartco6/asset-engine/internal/model"
)

// Producer publishes outbound envelopes to Kafka. It implements the
// messenger transport contract.
type Producer struct {
	Client   *wbfkafka.Producer
	strategy retry.Strategy
	cfg      *config.Kafka
}

// New creates a new Producer.
// - cfg: Kafka configuration struct
// - s: retry strategy
func New(
	cfg *config.Kafka,
	s retry.Strategy,
) *Producer {
	producer := wbfkafka.NewProducer(cfg.Brokers, cfg.EnvelopeTopic)

	return &Producer{
		Client:   producer,
		cfg:      cfg,
		strategy: s,
	}
}

// Deliver serializes the envelope to JSON and sends it to Kafka. The
// recipient is the message key so each recipient's envelopes keep their
// relative order.
func (p *Producer) Deliver(ctx context.Context, env model.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %v", err)
	}

	key := []byte(env.To)

	if err = p.Client.SendWithRetry(ctx, p.strategy, key, data); err != nil {
		return fmt.Errorf("failed to send envelope: %v", err)
	}

	return nil
}
