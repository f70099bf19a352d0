package device

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/egebilir/ship-display/module/core/domain"
)

const (
	// The gateway and any proxy in front of it may each wrap the reading in
	// a {"data": ...} envelope.
	maxEnvelopeDepth = 2

	// The map marker icon points 45° clockwise of north.
	iconHeadingOffset = 45.0

	unknownSatellites = "N/A"
)

// Normalize turns a gateway payload into a PositionRecord. capturedAt is used
// when the payload carries no parseable timestamp.
func Normalize(raw RawPayload, capturedAt time.Time) (*domain.PositionRecord, error) {
	fields, err := unwrapEnvelope(raw)
	if err != nil {
		return nil, err
	}

	lat, err := parseCoordinate(fields["latitude"])
	if err != nil {
		return nil, fmt.Errorf("%w: latitude: %w", ErrValidationFailed, err)
	}
	lon, err := parseCoordinate(fields["longitude"])
	if err != nil {
		return nil, fmt.Errorf("%w: longitude: %w", ErrValidationFailed, err)
	}

	heading := wrapDegrees(floatOrZero(fields["angle"]))

	return &domain.PositionRecord{
		Latitude:       lat,
		Longitude:      lon,
		Heading:        heading,
		DisplayHeading: DisplayHeading(heading),
		Speed:          floatOrZero(fields["speed"]),
		Satellites:     satellites(fields["satellites"]),
		Timestamp:      timestamp(fields["timestamp"], capturedAt),
	}, nil
}

// DisplayHeading rotates a true heading into the marker icon's frame, in [0,360).
func DisplayHeading(angle float64) float64 {
	return wrapDegrees(angle - iconHeadingOffset)
}

func wrapDegrees(deg float64) float64 {
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// unwrapEnvelope returns the innermost object, at most maxEnvelopeDepth
// "data" levels down, that carries both coordinates. Coordinates repeated on
// an outer envelope are ignored when a deeper level has its own.
func unwrapEnvelope(raw map[string]any) (map[string]any, error) {
	var found map[string]any
	obj := raw
	for depth := 0; obj != nil && depth <= maxEnvelopeDepth; depth++ {
		if present(obj["latitude"]) && present(obj["longitude"]) {
			found = obj
		}
		obj, _ = obj["data"].(map[string]any)
	}
	if found == nil {
		return nil, fmt.Errorf("%w: missing latitude/longitude", ErrValidationFailed)
	}
	return found, nil
}

func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func parseFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func parseCoordinate(v any) (float64, error) {
	f, err := parseFloat(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %v", v)
	}
	return f, nil
}

func floatOrZero(v any) float64 {
	f, err := parseFloat(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func satellites(v any) string {
	switch n := v.(type) {
	case nil:
		return unknownSatellites
	case string:
		if strings.TrimSpace(n) == "" {
			return unknownSatellites
		}
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprint(n)
	}
}

func timestamp(v any, fallback time.Time) time.Time {
	if s, ok := v.(string); ok {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts
		}
	}
	return fallback
}
