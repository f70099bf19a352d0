package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/egebilir/ship-display/module/core/domain"
	"github.com/egebilir/ship-display/module/core/internal/device"
	handler "github.com/egebilir/ship-display/module/core/internal/handler/http"
	"github.com/egebilir/ship-display/module/core/internal/handler/poller"
	"github.com/egebilir/ship-display/module/core/internal/repository/database/postgres"
	"github.com/egebilir/ship-display/module/core/internal/repository/publisher/mqtt"
	"github.com/egebilir/ship-display/module/core/internal/repository/publisher/rabbitmq"
	"github.com/egebilir/ship-display/module/core/service"
)

// DeviceCredentials re-exports the gateway address and login for callers
// outside module/core.
type DeviceCredentials = device.Credentials

type Options struct {
	DeviceTimeout time.Duration
	PollInterval  time.Duration
	MQTTTopic     string
	Ports         []domain.Port
}

type Module struct {
	PositionSvc *service.PositionService
	PortSvc     *service.PortService
	repo        *postgres.PositionRepo
	session     *device.Session
	live        *handler.LiveHub
	handler     *handler.ShipHandler
	poller      *poller.Poller
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient paho.Client, creds DeviceCredentials, opts Options) (*Module, error) {
	positionRepo := postgres.NewPositionRepo(db)

	alertPub, err := rabbitmq.NewPortAlertPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("port alert publisher: %w", err)
	}
	positionPub := mqtt.NewPositionPublisher(mqttClient, opts.MQTTTopic)

	tracker, session := device.New(creds, opts.DeviceTimeout)
	live := handler.NewLiveHub()

	portSvc := service.NewPortService(alertPub, opts.Ports)
	positionSvc := service.NewPositionService(tracker, positionRepo, positionPub, portSvc, live)

	return &Module{
		PositionSvc: positionSvc,
		PortSvc:     portSvc,
		repo:        positionRepo,
		session:     session,
		live:        live,
		handler:     handler.NewShipHandler(positionSvc, portSvc, live),
		poller:      poller.NewPoller(positionSvc, opts.PollInterval),
	}, nil
}

func (m *Module) EnsureSchema(ctx context.Context) error {
	return m.repo.EnsureSchema(ctx)
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

// RunPoller blocks until ctx is done.
func (m *Module) RunPoller(ctx context.Context) {
	m.poller.Run(ctx)
}

// SessionState reports whether the gateway session holds a token and whether
// that token is the offline sentinel.
func (m *Module) SessionState() (authenticated, degraded bool) {
	_, authenticated = m.session.Token()
	return authenticated, m.session.Degraded()
}

func (m *Module) Close() {
	m.live.Close()
}
