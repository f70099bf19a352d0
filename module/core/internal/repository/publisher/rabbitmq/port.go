package rabbitmq

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/egebilir/ship-display/module/core/domain"
	"github.com/egebilir/ship-display/module/core/internal/repository/publisher"
)

var _ publisher.PortAlertPublisher = (*PortAlertPublisher)(nil)

const (
	ExchangeName = domain.PortAlertExchange
	QueueName    = domain.PortAlertQueue
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type PortAlertPublisher struct {
	ch channel
}

func NewPortAlertPublisher(conn *amqp.Connection) (*PortAlertPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := Declare(ch); err != nil {
		return nil, err
	}

	return &PortAlertPublisher{ch: ch}, nil
}

// Declare sets up the fanout exchange and the alert queue bound to it.
func Declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

type alertMessage struct {
	Port      string               `json:"port"`
	Country   string               `json:"country,omitempty"`
	Event     domain.PortEventType `json:"event"`
	Location  alertLocation        `json:"location"`
	Timestamp int64                `json:"timestamp"`
}

type alertLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
}

func (p *PortAlertPublisher) PublishAlert(ctx context.Context, alert *domain.PortAlert) error {
	msg := alertMessage{
		Port:    alert.Port,
		Country: alert.Country,
		Event:   alert.Event,
		Location: alertLocation{
			Latitude:  alert.Position.Latitude,
			Longitude: alert.Position.Longitude,
			Speed:     alert.Position.Speed,
		},
		Timestamp: alert.Timestamp,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	return p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   uuid.NewString(),
		Type:        string(alert.Event),
		Body:        body,
	})
}
