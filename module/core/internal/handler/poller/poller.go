package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/egebilir/ship-display/module/core/domain"
)

type positionService interface {
	Current(ctx context.Context) (*domain.PositionRecord, error)
}

// Poller drives the position service on a fixed interval. Polls run one at a
// time; a poll that overruns the interval delays the next tick.
type Poller struct {
	svc      positionService
	interval time.Duration
}

func NewPoller(svc positionService, interval time.Duration) *Poller {
	return &Poller{svc: svc, interval: interval}
}

// Run polls immediately, then every interval, until ctx is done.
// A non-positive interval disables polling and returns at once.
func (p *Poller) Run(ctx context.Context) {
	if p.interval <= 0 {
		log.Info().Msg("position polling disabled")
		return
	}

	log.Info().Dur("interval", p.interval).Msg("position poller started")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.poll(ctx)

		select {
		case <-ctx.Done():
			log.Info().Msg("position poller stopped")
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	rec, err := p.svc.Current(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn().Err(err).Msg("poll position")
		}
		return
	}
	log.Debug().
		Float64("latitude", rec.Latitude).
		Float64("longitude", rec.Longitude).
		Float64("display_heading", rec.DisplayHeading).
		Msg("position polled")
}
