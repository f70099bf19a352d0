package config

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeMQTT struct {
	mqtt.Client
	connected bool
}

func (f *fakeMQTT) IsConnected() bool { return f.connected }

type fakeSession struct {
	authenticated bool
	degraded      bool
}

func (f *fakeSession) SessionState() (bool, bool) { return f.authenticated, f.degraded }

type healthResponse struct {
	Status       string                       `json:"status"`
	Dependencies map[string]map[string]string `json:"dependencies"`
}

func runHealth(t *testing.T, pingErr error, mqttUp bool, session *fakeSession) (int, healthResponse) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer func() { _ = db.Close() }()
	mock.ExpectPing().WillReturnError(pingErr)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHealthChecker(db, &amqp.Connection{}, &fakeMQTT{connected: mqttUp}, session).Register(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	r.ServeHTTP(w, req)

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return w.Code, resp
}

func TestHealth_Healthy(t *testing.T) {
	code, resp := runHealth(t, nil, true, &fakeSession{authenticated: true})

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
	if resp.Dependencies["device"]["status"] != "up" {
		t.Errorf("expected device up, got %s", resp.Dependencies["device"]["status"])
	}
}

func TestHealth_DegradedDeviceStaysHealthy(t *testing.T) {
	code, resp := runHealth(t, nil, true, &fakeSession{authenticated: true, degraded: true})

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Dependencies["device"]["status"] != "degraded" {
		t.Errorf("expected device degraded, got %s", resp.Dependencies["device"]["status"])
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	code, resp := runHealth(t, errors.New("connection refused"), false, &fakeSession{})

	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	if resp.Dependencies["postgres"]["status"] != "down" {
		t.Errorf("expected postgres down, got %s", resp.Dependencies["postgres"]["status"])
	}
	if resp.Dependencies["mqtt"]["status"] != "down" {
		t.Errorf("expected mqtt down, got %s", resp.Dependencies["mqtt"]["status"])
	}
	if resp.Dependencies["device"]["status"] != "pending" {
		t.Errorf("expected device pending, got %s", resp.Dependencies["device"]["status"])
	}
}
