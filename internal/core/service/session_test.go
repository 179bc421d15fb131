package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/c-library/catalog-admin/internal/core/domain"
)

type stubLookup struct {
	user *domain.User
	err  error
}

func (l *stubLookup) GetCurrent(_ context.Context) (*domain.User, error) {
	return l.user, l.err
}

func TestSession_InitialStateUnknown(t *testing.T) {
	s := NewSession(&stubLookup{}, zerolog.Nop())
	state, user := s.Current()
	if state != StateUnknown {
		t.Fatalf("initial state = %v, want unknown", state)
	}
	if user != nil {
		t.Fatalf("initial user should be nil")
	}
}

func TestSession_Refetch_Authenticated(t *testing.T) {
	lookup := &stubLookup{user: &domain.User{ID: 1, Username: "omar", Role: domain.RoleAdmin}}
	s := NewSession(lookup, zerolog.Nop())

	s.Refetch(context.Background())

	state, user := s.Current()
	if state != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", state)
	}
	if user == nil || user.Username != "omar" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

// A lookup failure must still leave the session resolved: anonymous, never
// stuck in unknown.
func TestSession_Refetch_FailureResolvesAnonymous(t *testing.T) {
	lookup := &stubLookup{err: errors.New("backend down")}
	s := NewSession(lookup, zerolog.Nop())

	s.Refetch(context.Background())

	state, user := s.Current()
	if state != StateAnonymous {
		t.Fatalf("state = %v, want anonymous", state)
	}
	if user != nil {
		t.Fatalf("failed lookup left a user behind: %+v", user)
	}
}

func TestSession_Refetch_NilUserResolvesAnonymous(t *testing.T) {
	s := NewSession(&stubLookup{}, zerolog.Nop())
	s.Refetch(context.Background())
	if state, _ := s.Current(); state != StateAnonymous {
		t.Fatalf("state = %v, want anonymous", state)
	}
}

func TestSession_Logout_Clears(t *testing.T) {
	lookup := &stubLookup{user: &domain.User{ID: 1, Username: "omar"}}
	s := NewSession(lookup, zerolog.Nop())
	s.Refetch(context.Background())

	s.Logout()

	state, user := s.Current()
	if state != StateAnonymous || user != nil {
		t.Fatalf("logout did not clear session: %v %+v", state, user)
	}
}

// The session hands out snapshots: a store change only shows after the next
// Refetch, and mutating a returned snapshot never touches session state.
func TestSession_SnapshotSemantics(t *testing.T) {
	lookup := &stubLookup{user: &domain.User{ID: 1, Username: "omar", Permissions: []domain.Permission{domain.PermViewDashboard}}}
	s := NewSession(lookup, zerolog.Nop())
	s.Refetch(context.Background())

	lookup.user = &domain.User{ID: 2, Username: "sara"}
	if _, user := s.Current(); user.Username != "omar" {
		t.Fatalf("store change leaked into session before refetch")
	}

	_, snapshot := s.Current()
	snapshot.Username = "mutated"
	if _, user := s.Current(); user.Username != "omar" {
		t.Fatalf("snapshot mutation leaked into session")
	}

	s.Refetch(context.Background())
	if _, user := s.Current(); user.Username != "sara" {
		t.Fatalf("refetch did not pick up store change")
	}
}

func TestSessionState_String(t *testing.T) {
	cases := map[SessionState]string{
		StateUnknown:       "unknown",
		StateAuthenticated: "authenticated",
		StateAnonymous:     "anonymous",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("String(%d) = %q, want %q", state, got, want)
		}
	}
}
