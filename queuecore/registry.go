package queuecore

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Registry is the process-wide directory mapping queue-id to Queue. It
// is constructed explicitly (no package-level global) so tests can work
// with a fresh, isolated Registry; the lifecycle behavior the original
// design described for a global singleton (load-at-startup, periodic
// snapshot, shutdown save) is composed on top of a Registry by the
// snapshot package instead of being baked in here — see
// snapshot.Engine.
type Registry struct {
	mu     sync.RWMutex
	queues map[uuid.UUID]*Queue
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{queues: make(map[uuid.UUID]*Queue)}
}

// Create allocates a fresh queue-id, constructs a Queue with the
// trimmed name, inserts it into the directory and returns it. Never
// rejects a name for content — name validation belongs to the facade.
func (r *Registry) Create(name string) *Queue {
	q := newQueue(uuid.New(), strings.TrimSpace(name))
	r.mu.Lock()
	r.queues[q.id] = q
	r.mu.Unlock()
	return q
}

// RestoreQueue installs a Queue carrying a caller-supplied identifier
// and name, for use by the snapshot load path. If id already exists in
// the registry, the existing Queue is replaced.
func (r *Registry) RestoreQueue(id uuid.UUID, name string) *Queue {
	q := newQueue(id, name)
	r.mu.Lock()
	r.queues[id] = q
	r.mu.Unlock()
	return q
}

// Get returns the Queue for id, or nil if none exists.
func (r *Registry) Get(id uuid.UUID) *Queue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.queues[id]
}

// Remove deletes the queue for id. Returns true if a queue was removed.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.queues[id]; !ok {
		return false
	}
	delete(r.queues, id)
	return true
}

// Clear empties the directory and returns the number of queues removed.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.queues)
	r.queues = make(map[uuid.UUID]*Queue)
	return n
}

// All returns a shallow copy of the id->Queue directory, suitable for
// enumeration by the snapshot engine. The returned map is a snapshot of
// the directory at the time of the call; mutating it has no effect on
// the Registry. The Queue values themselves remain live and must not be
// mutated by callers other than through Queue's own thread-safe methods.
func (r *Registry) All() map[uuid.UUID]*Queue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uuid.UUID]*Queue, len(r.queues))
	for id, q := range r.queues {
		out[id] = q
	}
	return out
}

// Len returns the number of queues currently in the directory.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queues)
}
