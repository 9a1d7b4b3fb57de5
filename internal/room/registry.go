// internal/room/registry.go
//
// Registry owning the roomId → Room mapping. Rooms are created on first
// reference and live for the process lifetime; there is no eviction policy,
// so long-lived deployments accumulate idle rooms; accepted for now since
// room state is small and bounded.

package room

import "sync"

// Registry is the only structure shared across rooms. Creation is atomic:
// check-then-create happens under the registry lock, so two racing events
// for the same new room id resolve to one Room.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room for id, creating it with default settings and
// empty membership if absent.
func (reg *Registry) GetOrCreate(id string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[id]
	if !ok {
		r = newRoom(id)
		reg.rooms[id] = r
	}
	return r
}

// Get returns the room for id, or false if it was never created.
func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// All returns a snapshot of every room, for connection-wide sweeps
// (disconnect handling).
func (reg *Registry) All() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

// Len reports the number of rooms ever created.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
