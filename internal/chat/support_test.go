package chat

import (
	"context"
	"errors"
	"sync"
)

// recorder is a send capability that captures outbound messages, optionally
// failing every delivery.
type recorder struct {
	mu   sync.Mutex
	msgs []any
	fail bool
}

func (r *recorder) send(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("transport gone")
	}
	r.msgs = append(r.msgs, v)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func (r *recorder) last() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return nil
	}
	return r.msgs[len(r.msgs)-1]
}

func (r *recorder) contains(v any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m == v {
			return true
		}
	}
	return false
}

// stubJokes is a canned JokeSource.
type stubJokes struct {
	joke string
	err  error
}

func (s stubJokes) Fetch(context.Context) (string, error) { return s.joke, s.err }

// joinedSession creates a session in reg's room and joins it under name via
// the regular dispatch path.
func joinedSession(reg *Registry, room, name string, rec *recorder) *Session {
	s := NewSession(reg, room, rec.send, stubJokes{})
	s.dispatch(Message{Kind: "join", Name: name})
	return s
}
