package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/ports"
)

// SessionState is the explicit tri-state of the current-user tracker. A
// consumer must treat StateUnknown as "not resolved yet", never as "signed
// out".
type SessionState int

const (
	StateUnknown SessionState = iota
	StateAuthenticated
	StateAnonymous
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session tracks the process-wide current user. It holds a snapshot copy of
// a store record; store mutations after a Refetch do not show through until
// the next Refetch.
//
// Overlapping Refetch calls are not sequenced against each other beyond the
// mutex: the last write wins. Calls are operator-triggered and infrequent,
// so no de-duplication is attempted.
type Session struct {
	mu     sync.Mutex
	state  SessionState
	user   *domain.User
	lookup ports.CurrentUserLookup
	logger zerolog.Logger
}

func NewSession(lookup ports.CurrentUserLookup, logger zerolog.Logger) *Session {
	return &Session{state: StateUnknown, lookup: lookup, logger: logger}
}

// Refetch resolves the current user from the repository. Lookup failures are
// logged and downgrade the session to anonymous; they are never returned, so
// the session always ends a Refetch in a resolved state.
func (s *Session) Refetch(ctx context.Context) {
	s.mu.Lock()
	s.state = StateUnknown
	s.mu.Unlock()

	user, err := s.lookup.GetCurrent(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || user == nil {
		if err != nil {
			s.logger.Warn().Err(err).Msg("current user lookup failed")
		}
		s.state = StateAnonymous
		s.user = nil
		return
	}
	s.state = StateAuthenticated
	s.user = user.Clone()
}

// Logout clears the tracked user. It does not touch any token; revocation is
// the auth service's job.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.user = nil
}

// Current returns the session state and, when authenticated, a snapshot copy
// of the current user.
func (s *Session) Current() (SessionState, *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.user.Clone()
}
