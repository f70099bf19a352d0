package device

import "sync"

// SentinelToken stands in for a real session token while the gateway is
// unreachable.
const SentinelToken = "mock-token"

// Session is the process's single gateway session. Only the Authenticator
// writes it; everything else reads.
type Session struct {
	mu       sync.RWMutex
	token    string
	degraded bool
}

func NewSession() *Session {
	return &Session{}
}

// Token returns the current token and whether one is set.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Degraded reports whether the current token is the sentinel.
func (s *Session) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

func (s *Session) replace(token string, degraded bool) {
	s.mu.Lock()
	s.token = token
	s.degraded = degraded
	s.mu.Unlock()
}
