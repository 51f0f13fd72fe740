package chatsync

import (
	"strings"
	"sync"
)

// SessionState tracks the login handshake progress.
type SessionState int

const (
	// SessionAnonymous is the initial state, no username submitted.
	SessionAnonymous SessionState = iota

	// SessionSubmitting means a username was sent and the client is
	// waiting for the server's loggedin event. The protocol has no
	// rejection event, so a rejected submission stays here.
	SessionSubmitting

	// SessionAuthenticated means the server accepted the login. This
	// state is terminal for the connection's lifetime.
	SessionAuthenticated
)

// String returns the string representation of a SessionState.
func (s SessionState) String() string {
	switch s {
	case SessionAnonymous:
		return "anonymous"
	case SessionSubmitting:
		return "submitting"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is a point-in-time snapshot of the login handshake.
type Session struct {
	Username      string
	State         SessionState
	Authenticated bool
}

// session is the state machine behind Session snapshots. The username
// is recorded optimistically on submit; Authenticated flips only on the
// server's loggedin event.
type session struct {
	mu       sync.Mutex
	state    SessionState
	username string
}

// submit validates and records the username, moving Anonymous to
// Submitting. Re-submission is locked out once a submission is in
// flight or accepted.
func (s *session) submit(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return NewError(ErrorInvalidUsername, "username is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionAnonymous {
		return NewError(ErrorUsernameLocked, "username already submitted")
	}
	s.state = SessionSubmitting
	s.username = username
	return nil
}

// loggedIn moves Submitting to Authenticated. It reports whether the
// transition happened; a loggedin event observed in any other state is
// inert.
func (s *session) loggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionSubmitting {
		return false
	}
	s.state = SessionAuthenticated
	return true
}

func (s *session) authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == SessionAuthenticated
}

// reset returns the machine to Anonymous. Only a full client teardown
// does this; a passive transport drop leaves the session as-is.
func (s *session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SessionAnonymous
	s.username = ""
}

func (s *session) snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Session{
		Username:      s.username,
		State:         s.state,
		Authenticated: s.state == SessionAuthenticated,
	}
}
