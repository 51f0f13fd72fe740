package chatsync

// Message is a single chat message as it appears in the transcript.
// Timestamp is epoch milliseconds assigned by the sender's clock at
// composition time, so cross-client ordering follows arrival order,
// not timestamps.
type Message struct {
	ID           string `json:"id,omitempty"`
	Text         string `json:"text"`
	Sender       string `json:"sender"`
	ConnectionID string `json:"connectionId"`
	Timestamp    int64  `json:"timestamp"`
}

// User is one online participant as reported by the roster endpoint.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
