package presence

import (
	"sort"
	"sync"
	"time"

	"talent_realtime_service/internal/realtime/domain"
)

// Handle a live connection of an actor
type Handle interface {
	ID() string
	Actor() domain.ActorRef
	// Send enqueue event, false when the handle is closed or its queue is full
	Send(evt domain.WSResponse) bool
}

type entry struct {
	handles  map[string]Handle
	lastSeen time.Time
}

// Registry which actors are online on this node, keyed by ActorRef.Key()
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// NewRegistry create empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		now:     domain.Now,
	}
}

// Register add handle, true when it is the actor's first handle
func (r *Registry) Register(h Handle) bool {
	key := h.Actor().Key()

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		e = &entry{handles: make(map[string]Handle)}
		r.entries[key] = e
	}
	first := len(e.handles) == 0
	e.handles[h.ID()] = h
	return first
}

// Unregister remove handle, when it was the last one records and returns last seen
func (r *Registry) Unregister(h Handle) (bool, time.Time) {
	key := h.Actor().Key()

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return false, time.Time{}
	}
	if _, ok := e.handles[h.ID()]; !ok {
		return false, e.lastSeen
	}
	delete(e.handles, h.ID())
	if len(e.handles) > 0 {
		return false, time.Time{}
	}
	e.lastSeen = r.now()
	return true, e.lastSeen
}

// IsOnline at least one handle
func (r *Registry) IsOnline(actor domain.ActorRef) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[actor.Key()]
	return ok && len(e.handles) > 0
}

// HandlesFor snapshot of actor's handles
func (r *Registry) HandlesFor(actor domain.ActorRef) []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[actor.Key()]
	if !ok {
		return nil
	}
	handles := make([]Handle, 0, len(e.handles))
	for _, h := range e.handles {
		handles = append(handles, h)
	}
	return handles
}

// OnlineActors snapshot of online actors, sorted by key
func (r *Registry) OnlineActors() []domain.ActorRef {
	r.mu.RLock()
	actors := make([]domain.ActorRef, 0, len(r.entries))
	for _, e := range r.entries {
		for _, h := range e.handles {
			actors = append(actors, h.Actor())
			break
		}
	}
	r.mu.RUnlock()

	sort.Slice(actors, func(i, j int) bool { return actors[i].Key() < actors[j].Key() })
	return actors
}

// AllHandles snapshot of every handle
func (r *Registry) AllHandles() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var handles []Handle
	for _, e := range r.entries {
		for _, h := range e.handles {
			handles = append(handles, h)
		}
	}
	return handles
}

// LastSeen last time the actor went offline on this node
func (r *Registry) LastSeen(actor domain.ActorRef) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[actor.Key()]
	if !ok || e.lastSeen.IsZero() {
		return time.Time{}, false
	}
	return e.lastSeen, true
}
