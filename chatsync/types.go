package chatsync

import "encoding/json"

const (
	emitSetUsername = "setUsername"
	emitSendMessage = "sendmessage"

	eventLoggedIn         = "loggedin"
	eventNewConnection    = "newConnection"
	eventConnectionClosed = "connectionClosed"
	eventMessage          = "message"
)

// Emit is the envelope client -> server.
type Emit struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Push is the envelope server -> client.
type Push struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SetUsernamePayload carries the login attempt.
type SetUsernamePayload struct {
	Username string `json:"username"`
}

// UnmarshalData decodes RawMessage into target.
func UnmarshalData(data json.RawMessage, v any) error {
	return json.Unmarshal(data, v)
}
