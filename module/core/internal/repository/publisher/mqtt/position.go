package mqtt

import (
	"context"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"

	"github.com/egebilir/ship-display/module/core/domain"
	"github.com/egebilir/ship-display/module/core/internal/repository/publisher"
)

var _ publisher.PositionPublisher = (*PositionPublisher)(nil)

const DefaultTopic = "ship/position"

type PositionPublisher struct {
	client paho.Client
	topic  string
}

func NewPositionPublisher(client paho.Client, topic string) *PositionPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &PositionPublisher{client: client, topic: topic}
}

// PublishPosition sends rec as a retained QoS 1 message so a subscriber that
// connects late still gets the last known position.
func (p *PositionPublisher) PublishPosition(ctx context.Context, rec *domain.PositionRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal position: %w", err)
	}

	token := p.client.Publish(p.topic, 1, true, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", p.topic, err)
	}
	return nil
}
