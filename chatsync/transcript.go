package chatsync

import "sync"

// transcript is the ordered, append-only message history. Insertion
// order is arrival order at this client; entries are never removed or
// mutated after insertion.
type transcript struct {
	mu   sync.Mutex
	msgs []Message

	// ids of locally authored messages, used to drop server echoes
	// when own-message filtering is on.
	localIDs map[string]struct{}
}

// appendLocal records a locally authored message (optimistic echo).
func (t *transcript) appendLocal(m Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.localIDs == nil {
		t.localIDs = make(map[string]struct{})
	}
	if m.ID != "" {
		t.localIDs[m.ID] = struct{}{}
	}
	t.msgs = append(t.msgs, m)
}

// appendRemote records a broadcast message. With filterOwn set, a
// message carrying a locally authored id or this client's connection
// id is a server echo of something already in the transcript and is
// dropped. Reports whether the message was appended.
func (t *transcript) appendRemote(m Message, filterOwn bool, selfConnID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if filterOwn {
		if _, ok := t.localIDs[m.ID]; ok && m.ID != "" {
			return false
		}
		if selfConnID != "" && m.ConnectionID == selfConnID {
			return false
		}
	}
	t.msgs = append(t.msgs, m)
	return true
}

// snapshot returns a copy of the transcript in arrival order.
func (t *transcript) snapshot() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Message(nil), t.msgs...)
}

func (t *transcript) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.msgs)
}
