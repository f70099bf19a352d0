package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/egebilir/ship-display/config"
	"github.com/egebilir/ship-display/module/core/domain"
)

const (
	exchangeName = domain.PortAlertExchange
	queueName    = domain.PortAlertQueue
)

type portAlert struct {
	Port     string `json:"port"`
	Country  string `json:"country"`
	Event    string `json:"event"`
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Speed     float64 `json:"speed"`
	} `json:"location"`
	Timestamp int64 `json:"timestamp"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	config.InitLogger(cfg.Logging)

	conn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbitmq")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("rabbitmq channel")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		log.Fatal().Err(err).Msg("declare exchange")
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Fatal().Err(err).Msg("declare queue")
	}
	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		log.Fatal().Err(err).Msg("bind queue")
	}

	msgs, err := ch.Consume(queueName, "", true, false, false, false, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", queueName).Msg("waiting for port alerts")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Warn().Msg("delivery channel closed")
				return
			}
			var alert portAlert
			if err := json.Unmarshal(msg.Body, &alert); err != nil {
				log.Warn().Err(err).Str("message_id", msg.MessageId).Msg("invalid alert")
				continue
			}
			log.Info().
				Str("message_id", msg.MessageId).
				Str("event", alert.Event).
				Str("port", alert.Port).
				Str("country", alert.Country).
				Float64("latitude", alert.Location.Latitude).
				Float64("longitude", alert.Location.Longitude).
				Int64("timestamp", alert.Timestamp).
				Msg("port alert")
		}
	}
}
