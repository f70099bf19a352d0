package device

import (
	"context"
	"time"

	"github.com/egebilir/ship-display/module/core/domain"
)

type positionFetcher interface {
	FetchPosition(ctx context.Context) (RawPayload, error)
}

// Tracker is the only exit from this package: every payload it returns has
// been fetched and normalized.
type Tracker struct {
	fetcher positionFetcher
	now     func() time.Time
}

func NewTracker(fetcher positionFetcher) *Tracker {
	return &Tracker{fetcher: fetcher, now: time.Now}
}

// New wires a Session, Authenticator, Fetcher and Tracker for one gateway.
func New(creds Credentials, timeout time.Duration) (*Tracker, *Session) {
	client := NewHTTPClient(timeout)
	session := NewSession()
	auth := NewAuthenticator(client, creds, session)
	return NewTracker(NewFetcher(client, creds, session, auth)), session
}

func (t *Tracker) Position(ctx context.Context) (*domain.PositionRecord, error) {
	raw, err := t.fetcher.FetchPosition(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(raw, t.now())
}
