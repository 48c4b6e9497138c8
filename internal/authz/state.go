package authz

import (
	"sync"

	"github.com/abira1/Toi-Task/internal/models"
)

// State is the authorization classification of a session. Modeled as
// a tagged variant rather than boolean flags so that combinations like
// "authenticated but neither authorized nor errored" cannot be
// represented.
type State int

const (
	// StateUnresolved is the initial and post-sign-out state.
	StateUnresolved State = iota

	// StateLoading covers both asynchronous phases: waiting on the
	// identity provider, and waiting on the roster lookup.
	StateLoading

	// StateAdmin: email matched the admin allow-list.
	StateAdmin

	// StateAuthorizedMember: roster entry matched by email.
	StateAuthorizedMember

	// StateUnauthorized: signed in, no allow-list or roster match.
	StateUnauthorized

	// StateError: the roster lookup (or identity confirmation) failed
	// in transit. Distinct from StateUnauthorized.
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateLoading:
		return "loading"
	case StateAdmin:
		return "admin"
	case StateAuthorizedMember:
		return "authorized_member"
	case StateUnauthorized:
		return "unauthorized"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is a final classification.
func (s State) Terminal() bool {
	switch s {
	case StateAdmin, StateAuthorizedMember, StateUnauthorized, StateError:
		return true
	default:
		return false
	}
}

// Authorized reports whether the state grants entry to the app.
func (s State) Authorized() bool {
	return s == StateAdmin || s == StateAuthorizedMember
}

// Resolution is the outcome of running the resolver: the state plus,
// for authorized states, the resolved user projection.
type Resolution struct {
	State State
	User  *models.TeamMember
	Err   error
}

// Session tracks the authorization state machine for one sign-in:
// Unresolved -> Loading -> terminal -> Unresolved (on sign-out).
// Current never reports a terminal classification while resolution is
// still outstanding, so callers cannot observe a flicker into
// Unauthorized between the two asynchronous phases.
type Session struct {
	mu  sync.Mutex
	res Resolution
}

func NewSession() *Session {
	return &Session{res: Resolution{State: StateUnresolved}}
}

// Begin marks the start of resolution.
func (s *Session) Begin() {
	s.mu.Lock()
	s.res = Resolution{State: StateLoading}
	s.mu.Unlock()
}

// Complete records a terminal resolution. A completion that arrives
// after sign-out is dropped: sign-out always wins.
func (s *Session) Complete(res Resolution) {
	s.mu.Lock()
	if s.res.State == StateLoading && res.State.Terminal() {
		s.res = res
	}
	s.mu.Unlock()
}

// SignOut resets to the unauthenticated initial state regardless of
// the prior classification.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.res = Resolution{State: StateUnresolved}
	s.mu.Unlock()
}

// Current returns the present resolution.
func (s *Session) Current() Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.res
}
