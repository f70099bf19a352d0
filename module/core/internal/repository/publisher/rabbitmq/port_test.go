package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/egebilir/ship-display/module/core/domain"
)

type fakeChannel struct {
	exchange string
	msgs     []amqp.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, _ string, _, _ bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.msgs = append(f.msgs, msg)
	return f.err
}

func TestPublishAlert(t *testing.T) {
	ch := &fakeChannel{}
	p := &PortAlertPublisher{ch: ch}

	ts := time.Unix(1715003456, 0)
	err := p.PublishAlert(context.Background(), &domain.PortAlert{
		Port:      "Busan",
		Country:   "KR",
		Event:     domain.PortArrival,
		Position:  domain.PositionRecord{Latitude: 35.1, Longitude: 129.0, Speed: 3},
		Timestamp: ts.Unix(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.exchange != domain.PortAlertExchange {
		t.Errorf("expected exchange %s, got %s", domain.PortAlertExchange, ch.exchange)
	}
	if len(ch.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(ch.msgs))
	}

	msg := ch.msgs[0]
	if msg.MessageId == "" {
		t.Error("expected message id")
	}
	if msg.Type != string(domain.PortArrival) {
		t.Errorf("expected type port_arrival, got %s", msg.Type)
	}

	var got alertMessage
	if err := json.Unmarshal(msg.Body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Port != "Busan" || got.Event != domain.PortArrival {
		t.Errorf("unexpected alert %+v", got)
	}
	if got.Location.Latitude != 35.1 {
		t.Errorf("expected 35.1, got %f", got.Location.Latitude)
	}
	if got.Timestamp != 1715003456 {
		t.Errorf("expected 1715003456, got %d", got.Timestamp)
	}
}

func TestPublishAlert_Error(t *testing.T) {
	p := &PortAlertPublisher{ch: &fakeChannel{err: errors.New("channel closed")}}

	err := p.PublishAlert(context.Background(), &domain.PortAlert{Port: "Busan", Event: domain.PortDeparture})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDeclaredNamesMatchListener(t *testing.T) {
	if ExchangeName != "ship.events" {
		t.Errorf("unexpected exchange %s", ExchangeName)
	}
	if ExchangeName != domain.PortAlertExchange {
		t.Errorf("unexpected exchange %s", ExchangeName)
	}
	if QueueName != "port_alerts" {
		t.Errorf("unexpected queue %s", QueueName)
	}
	if QueueName != domain.PortAlertQueue {
		t.Errorf("unexpected queue %s", QueueName)
	}
}
