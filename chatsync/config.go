package chatsync

import "time"

// Config controls how the SDK connects.
type Config struct {
	// Address is the chat server endpoint as host:port. The websocket
	// URL and the roster HTTP base URL are both derived from it.
	Address string

	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration

	// RosterTimeout bounds a single roster fetch. Zero falls back to
	// the HTTP client default.
	RosterTimeout time.Duration

	// LoginTimeout bounds the wait for the server's loggedin event
	// after a username submission. The protocol has no failure event,
	// so zero means wait forever; when set, expiry surfaces a
	// timeout-coded error through OnError and the session stays in
	// Submitting.
	LoginTimeout time.Duration

	// FilterOwnMessages drops incoming message events that originate
	// from this connection. Enable it only when the server echoes
	// broadcasts back to the sender; the local copy is already in the
	// transcript at send time.
	FilterOwnMessages bool
}

// DefaultConfig returns sensible defaults.
// ReadTimeout is zero because the server may legitimately stay silent
// for long stretches between pushes.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		RosterTimeout:    15 * time.Second,
	}
}

func (c Config) wsURL() string {
	return "ws://" + c.Address + "/ws"
}

func (c Config) httpBaseURL() string {
	return "http://" + c.Address
}
