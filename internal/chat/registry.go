package chat

import "sync"

// Registry keeps one Room per distinct name. One instance per serving
// process, created in main and handed to whatever accepts connections.
type Registry struct {
	rooms sync.Map // room name -> *Room
}

func NewRegistry() *Registry { return &Registry{} }

// GetOrCreate returns the Room for name, creating an empty one on first
// reference. Repeated calls with the same name return the same instance.
// Room names are accepted as-is.
func (reg *Registry) GetOrCreate(name string) *Room {
	r, _ := reg.rooms.LoadOrStore(name, newRoom(name))
	return r.(*Room)
}

// Lookup returns the Room for name without creating one.
func (reg *Registry) Lookup(name string) (*Room, bool) {
	v, ok := reg.rooms.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*Room), true
}

// Snapshot lists every room created so far. Rooms are never evicted, so
// empty ones show up too.
func (reg *Registry) Snapshot() []*Room {
	var rooms []*Room
	reg.rooms.Range(func(_, v any) bool {
		rooms = append(rooms, v.(*Room))
		return true
	})
	return rooms
}
