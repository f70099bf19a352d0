package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/egebilir/ship-display/module/core/internal/metrics"
)

// maxAuthRetries bounds how many times a 401 triggers re-authentication
// within one FetchPosition call.
const maxAuthRetries = 1

// RawPayload is a decoded gateway response before normalization.
type RawPayload map[string]any

type authenticator interface {
	Authenticate(ctx context.Context) AuthOutcome
}

type Fetcher struct {
	// mu serializes fetches so a re-authentication and its retry are never
	// interleaved with another read using the stale token.
	mu sync.Mutex

	client  *http.Client
	creds   Credentials
	session *Session
	auth    authenticator
	now     func() time.Time
}

func NewFetcher(client *http.Client, creds Credentials, session *Session, auth authenticator) *Fetcher {
	return &Fetcher{
		client:  client,
		creds:   creds,
		session: session,
		auth:    auth,
		now:     time.Now,
	}
}

// FetchPosition reads the current position from the gateway. An unreachable
// gateway yields the Fallback payload and no error.
func (f *Fetcher) FetchPosition(ctx context.Context) (RawPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := time.Now()
	payload, outcome, err := f.fetch(ctx)
	metrics.DeviceFetch.WithLabelValues(outcome).Inc()
	metrics.DeviceFetchDuration.Observe(time.Since(start).Seconds())

	return payload, err
}

func (f *Fetcher) fetch(ctx context.Context) (RawPayload, string, error) {
	token, ok := f.session.Token()
	if !ok {
		out := f.auth.Authenticate(ctx)
		if !out.OK() {
			return nil, "auth_failed", fmt.Errorf("%w: %w", ErrAuthenticationFailed, out.Err)
		}
		token = out.Token
	}

	for retries := 0; ; retries++ {
		payload, err := f.get(ctx, token)
		switch {
		case err == nil:
			return payload, "ok", nil

		case IsUnreachable(err):
			log.Warn().Err(err).Str("address", f.creds.Address).Msg("device unreachable, serving fallback position")
			return Fallback(f.now()), "fallback", nil

		case isUnauthorized(err):
			if retries >= maxAuthRetries {
				return nil, "retry_exhausted", fmt.Errorf("%w: %w", ErrRetryExhausted, err)
			}
			log.Info().Str("address", f.creds.Address).Msg("device token expired, re-authenticating")
			out := f.auth.Authenticate(ctx)
			if !out.OK() {
				return nil, "auth_failed", fmt.Errorf("%w: %w", ErrAuthenticationFailed, out.Err)
			}
			token = out.Token

		case errors.Is(err, ErrValidationFailed):
			return nil, "invalid", err

		default:
			return nil, "failed", err
		}
	}
}

func (f *Fetcher) get(ctx context.Context, token string) (RawPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.creds.url(positionPath), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: position request: %w", ErrFetchFailed, err)
	}
	setJSONHeaders(req)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("position request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read position response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &StatusError{Op: "position", Status: resp.StatusCode, Body: string(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed,
			&StatusError{Op: "position", Status: resp.StatusCode, Body: string(body)})
	}

	return decodePayload(body)
}

func decodePayload(body []byte) (RawPayload, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty response from device", ErrValidationFailed)
	}

	var payload RawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode position response: %w", ErrValidationFailed, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: empty response from device", ErrValidationFailed)
	}

	if _, err := unwrapEnvelope(payload); err != nil {
		return nil, err
	}
	return payload, nil
}
