package chatsync

import "sync"

// roster holds the last fetched snapshot of online users. Every
// successful fetch replaces the whole set; overlapping fetches resolve
// last-write-wins because each response is a full snapshot, never a
// delta. A failed fetch leaves the previous snapshot in place.
type roster struct {
	mu    sync.Mutex
	users []User
}

// replace installs a new snapshot wholesale.
func (r *roster) replace(users []User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append([]User(nil), users...)
}

// snapshot returns a copy of the current roster.
func (r *roster) snapshot() []User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]User(nil), r.users...)
}
