package lifecycle

import (
	"sync"

	"github.com/cuemby/opcuad/pkg/ids"
)

// Constructor is invoked with the NodeId of a newly-materialized
// instance of the type it is registered against. It returns an opaque
// handle, stored by the registry and handed back to the matching
// Destructor, or nil if the type needs none.
type Constructor func(instanceId ids.NodeId) (handle any, err error)

// Destructor is invoked with the NodeId of an instance being deleted
// and the handle its Constructor returned (nil if there was none or no
// Constructor was ever invoked for this instance).
type Destructor func(instanceId ids.NodeId, handle any)

// Hooks is the pair of lifecycle callbacks a type may register.
// Either field may be nil.
type Hooks struct {
	Constructor Constructor
	Destructor  Destructor
}

// handleEntry remembers not just the opaque handle a Constructor
// returned but which type's Hooks produced it, so the matching
// Destructor (not some other ancestor's) fires symmetrically.
type handleEntry struct {
	typeId ids.NodeId
	handle any
}

// Registry maps typeId -> Hooks and, separately, instanceId -> the
// handle a Constructor returned for that instance plus the type whose
// hooks own it. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	hooks   map[ids.NodeId]Hooks
	handles map[ids.NodeId]handleEntry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks:   make(map[ids.NodeId]Hooks),
		handles: make(map[ids.NodeId]handleEntry),
	}
}

// Register installs hooks for typeId, replacing any previously
// registered hooks for that type.
func (r *Registry) Register(typeId ids.NodeId, hooks Hooks) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[typeId] = hooks
}

// Unregister removes any hooks registered for typeId.
func (r *Registry) Unregister(typeId ids.NodeId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hooks, typeId)
}

// HooksFor returns the hooks registered for typeId, if any.
func (r *Registry) HooksFor(typeId ids.NodeId) (Hooks, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hooks[typeId]
	return h, ok
}

// PutHandle stores the opaque handle typeId's Constructor returned for
// instanceId, for later retrieval by TakeHandle.
func (r *Registry) PutHandle(instanceId, typeId ids.NodeId, handle any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[instanceId] = handleEntry{typeId: typeId, handle: handle}
}

// TakeHandle removes and returns the handle and owning typeId stored
// for instanceId, if any. Called once, when the instance is destroyed,
// so the caller can look up that type's Destructor and invoke it
// symmetrically with the Constructor that produced the handle.
func (r *Registry) TakeHandle(instanceId ids.NodeId) (handle any, typeId ids.NodeId, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.handles[instanceId]
	delete(r.handles, instanceId)
	return e.handle, e.typeId, ok
}
