package device

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrValidationFailed     = errors.New("invalid position data")
	ErrRetryExhausted       = errors.New("still unauthorized after re-authentication")
	ErrFetchFailed          = errors.New("position fetch failed")
)

// StatusError carries a non-2xx gateway response.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Op, e.Status, e.Body)
}

// IsUnreachable reports whether err means the gateway could not be reached at
// all: connection refused, connection aborted or a timeout.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == 401
}
