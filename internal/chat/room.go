package chat

import (
	"sync"

	"github.com/samber/lo"
)

// Room is a named set of sessions that receive each other's broadcasts.
// Membership is keyed by session identity, not by display name.
type Room struct {
	name string

	mu      sync.RWMutex
	members map[*Session]struct{}
}

func newRoom(name string) *Room {
	return &Room{name: name, members: map[*Session]struct{}{}}
}

func (r *Room) Name() string { return r.name }

// Join adds s to the member set. Callers join a given session at most once.
func (r *Room) Join(s *Session) {
	r.mu.Lock()
	r.members[s] = struct{}{}
	r.mu.Unlock()
}

// Leave removes s from the member set; removing an absent session is a no-op.
func (r *Room) Leave(s *Session) {
	r.mu.Lock()
	delete(r.members, s)
	r.mu.Unlock()
}

// Broadcast delivers v to every current member. Delivery is best-effort per
// member; one dead transport must not starve the others.
func (r *Room) Broadcast(v any) {
	for _, s := range r.snapshot() {
		s.send(v)
	}
}

// SendToOne delivers v to the first member whose display name equals
// targetName. Names are not unique; with duplicates the first match wins.
// No match drops the message silently.
func (r *Room) SendToOne(targetName string, v any) {
	for _, s := range r.snapshot() {
		if s.Name() == targetName {
			s.send(v)
			return
		}
	}
}

// MemberNames lists the display names of the members at call time.
func (r *Room) MemberNames() []string {
	return lo.Map(r.snapshot(), func(s *Session, _ int) string { return s.Name() })
}

// Len reports the current member count.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// snapshot copies the member set so delivery runs outside the lock; a member
// leaving mid-broadcast must not corrupt iteration.
func (r *Room) snapshot() []*Session {
	r.mu.RLock()
	members := make([]*Session, 0, len(r.members))
	for s := range r.members {
		members = append(members, s)
	}
	r.mu.RUnlock()
	return members
}
