package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/egebilir/ship-display/module/core/domain"
	"github.com/egebilir/ship-display/module/core/internal/metrics"
	"github.com/egebilir/ship-display/module/core/internal/repository/publisher"
)

const earthRadiusMeters = 6371000

// PortService raises an alert when the vessel enters or leaves a port's
// radius. Staying inside (or outside) raises nothing.
type PortService struct {
	publisher publisher.PortAlertPublisher
	ports     []domain.Port

	mu     sync.Mutex
	inside map[string]bool
}

func NewPortService(pub publisher.PortAlertPublisher, ports []domain.Port) *PortService {
	return &PortService{
		publisher: pub,
		ports:     ports,
		inside:    make(map[string]bool, len(ports)),
	}
}

func (s *PortService) CheckAndAlert(ctx context.Context, rec *domain.PositionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, p := range s.ports {
		dist := haversine(rec.Latitude, rec.Longitude, p.Lat, p.Lon)
		in := dist <= p.Radius
		if in == s.inside[p.Name] {
			continue
		}

		event := domain.PortDeparture
		if in {
			event = domain.PortArrival
		}
		alert := &domain.PortAlert{
			Port:      p.Name,
			Country:   p.Country,
			Event:     event,
			Position:  *rec,
			Timestamp: rec.Timestamp.Unix(),
		}
		// A failed publish leaves the state as it was so the transition is
		// raised again on the next check.
		if err := s.publisher.PublishAlert(ctx, alert); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", event, p.Name, err))
			continue
		}
		s.inside[p.Name] = in
		metrics.PortAlerts.WithLabelValues(string(event)).Inc()
	}
	return errors.Join(errs...)
}

// NearestPort returns the closest configured port and its distance in meters.
func (s *PortService) NearestPort(lat, lon float64) (domain.Port, float64, bool) {
	var (
		best  domain.Port
		bestD = math.Inf(1)
	)
	for _, p := range s.ports {
		if d := haversine(lat, lon, p.Lat, p.Lon); d < bestD {
			best, bestD = p, d
		}
	}
	return best, bestD, len(s.ports) > 0
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
