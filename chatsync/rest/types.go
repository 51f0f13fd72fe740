package rest

// User is one online participant as returned by the roster endpoint.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// OnlineUsersResponse is the body of GET /online-users.
type OnlineUsersResponse struct {
	OnlineUsers []User `json:"onlineUsers"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
