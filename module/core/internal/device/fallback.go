package device

import "time"

const (
	FallbackLatitude  = "37.5665"
	FallbackLongitude = "126.9780"
)

// Fallback returns the fixed reading served while the gateway is unreachable.
// It has the same shape as a gateway reading and carries no marker.
func Fallback(now time.Time) RawPayload {
	return RawPayload{
		"latitude":   FallbackLatitude,
		"longitude":  FallbackLongitude,
		"angle":      "0",
		"speed":      "0",
		"satellites": "0",
		"timestamp":  now.UTC().Format(time.RFC3339),
	}
}
