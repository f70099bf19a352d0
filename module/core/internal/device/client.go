// Package device talks to the vessel's GPS gateway: it keeps a session token,
// reads the current position and turns the gateway's payload into a
// domain.PositionRecord. When the gateway cannot be reached it serves a fixed
// fallback position instead of failing.
package device

import (
	"crypto/tls"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTimeout = 15 * time.Second

	loginPath    = "/api/login"
	positionPath = "/api/gps/position/status"

	maxBodyBytes = 1 << 20
)

// Credentials identify the gateway and the account used to log in to it.
// They are loaded once at startup and never change.
type Credentials struct {
	Address  string
	Username string
	Password string
}

func (c Credentials) url(path string) string {
	return "https://" + c.Address + path
}

// NewHTTPClient returns the client used for every gateway call. The gateway
// serves a self-signed certificate, so verification is off.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // self-signed gateway certificate

	return &http.Client{
		Timeout:   timeout,
		Transport: tr,
	}
}

func setJSONHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func readBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
