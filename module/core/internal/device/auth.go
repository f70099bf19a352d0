package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/egebilir/ship-display/module/core/internal/metrics"
)

type AuthKind int

const (
	AuthFailure AuthKind = iota
	AuthSuccess
	AuthDegraded
)

func (k AuthKind) String() string {
	switch k {
	case AuthSuccess:
		return "success"
	case AuthDegraded:
		return "degraded"
	default:
		return "failure"
	}
}

// AuthOutcome is the result of one login attempt. Token is set for Success
// and Degraded; Err explains Failure and, for Degraded, why the gateway was
// considered unreachable.
type AuthOutcome struct {
	Kind  AuthKind
	Token string
	Err   error
}

// OK reports whether the outcome left the session with a usable token.
func (o AuthOutcome) OK() bool {
	return o.Kind != AuthFailure
}

type Authenticator struct {
	client  *http.Client
	creds   Credentials
	session *Session
}

func NewAuthenticator(client *http.Client, creds Credentials, session *Session) *Authenticator {
	return &Authenticator{
		client:  client,
		creds:   creds,
		session: session,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authenticate logs in to the gateway and, on Success or Degraded, replaces
// the session token. A Failure leaves the previous token in place.
func (a *Authenticator) Authenticate(ctx context.Context) AuthOutcome {
	out := a.login(ctx)

	switch out.Kind {
	case AuthSuccess:
		a.session.replace(out.Token, false)
		log.Info().Str("address", a.creds.Address).Msg("device login successful")
	case AuthDegraded:
		a.session.replace(out.Token, true)
		log.Warn().Err(out.Err).Str("address", a.creds.Address).
			Msg("device unreachable, continuing in mock data mode")
	default:
		log.Error().Err(out.Err).Str("address", a.creds.Address).Msg("device login failed")
	}

	metrics.DeviceAuth.WithLabelValues(out.Kind.String()).Inc()
	return out
}

func (a *Authenticator) login(ctx context.Context) AuthOutcome {
	payload, err := json.Marshal(loginRequest{
		Username: a.creds.Username,
		Password: a.creds.Password,
	})
	if err != nil {
		return failed(fmt.Errorf("marshal login: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.creds.url(loginPath), bytes.NewReader(payload))
	if err != nil {
		return failed(fmt.Errorf("login request: %w", err))
	}
	setJSONHeaders(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return classify(fmt.Errorf("login request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := readBody(resp)
	if err != nil {
		return classify(fmt.Errorf("read login response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failed(&StatusError{Op: "login", Status: resp.StatusCode, Body: string(body)})
	}

	token, err := extractToken(body)
	if err != nil {
		return failed(err)
	}
	return AuthOutcome{Kind: AuthSuccess, Token: token}
}

func classify(err error) AuthOutcome {
	if IsUnreachable(err) {
		return AuthOutcome{Kind: AuthDegraded, Token: SentinelToken, Err: err}
	}
	return failed(err)
}

func failed(err error) AuthOutcome {
	return AuthOutcome{Kind: AuthFailure, Err: err}
}

// extractToken looks for the token under data first, then at the top level.
func extractToken(body []byte) (string, error) {
	var resp map[string]any
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}

	if data, ok := resp["data"].(map[string]any); ok {
		if token := firstString(data, "token", "session_token"); token != "" {
			return token, nil
		}
	}
	if token := firstString(resp, "token", "session_token"); token != "" {
		return token, nil
	}
	return "", errors.New("no token in login response")
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
