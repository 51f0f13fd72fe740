package chatsync

// ConnectionState represents the current state of the server connection.
type ConnectionState int

const (
	// StateDisconnected means the client is not connected.
	StateDisconnected ConnectionState = iota

	// StateConnecting means the client is establishing a connection.
	StateConnecting

	// StateConnected means the connection is up and events flow.
	StateConnected
)

// String returns the string representation of a ConnectionState.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// StateEvent represents a connection state change.
type StateEvent struct {
	OldState ConnectionState
	NewState ConnectionState
	Error    error // Optional error that caused the state change
}
