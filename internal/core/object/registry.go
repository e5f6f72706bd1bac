package object

import (
	"sync"

	"go.uber.org/zap"
)

// ID identifies an object in the Registry. IDs start at 1 and are never
// reused; 0 means "no object" and is used for empty slots in sprite and
// map-object lists.
type ID = int32

// None is the reserved empty id.
const None ID = 0

// Object is anything that can be held by the Registry. Concrete kinds
// (sprites, map objects) are resolved by callers through Get.
type Object interface {
	ObjectID() ID
	SetObjectID(ID)
}

// Registry is the shared identity space for every renderable entity. It is
// the sole owner of the objects it holds; every other holder of an id keeps a
// non-owning back-reference and must re-resolve through the registry before
// use, tolerating "not found".
//
// A single mutex guards id allocation and all map access, so the registry is
// safe to use from the scripting side as well as the frame loop.
type Registry struct {
	mu      sync.Mutex
	nextID  ID // next unallocated id; valid ids are 0 < id < nextID
	objects map[ID]Object
	log     *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		nextID:  1,
		objects: make(map[ID]Object, 64),
		log:     log,
	}
}

// AllocateID assigns obj the next unused id, stores it on the object and
// returns it. No two callers ever receive the same id.
func (r *Registry) AllocateID(obj Object) ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	obj.SetObjectID(id)
	return id
}

// Add stores obj under its id with shared ownership. It fails, without
// mutating the registry, if obj is nil, if its id was never allocated here,
// or if a different object is already stored under that id. All failures are
// recoverable and only logged.
func (r *Registry) Add(obj Object) bool {
	if obj == nil {
		r.log.Error("registry: add: object cannot be nil")
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := obj.ObjectID()
	if !r.validLocked(id) {
		r.log.Error("registry: add: invalid object id", zap.Int32("id", id))
		return false
	}
	if existing, ok := r.objects[id]; ok && existing != obj {
		r.log.Error("registry: add: id already in use", zap.Int32("id", id))
		return false
	}
	r.objects[id] = obj
	return true
}

// Remove erases the entry for id. Removal invalidates every outstanding copy
// of the id immediately. Removing an absent id is logged and ignored.
func (r *Registry) Remove(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.objects[id]; !ok {
		r.log.Warn("registry: remove: no such object", zap.Int32("id", id))
		return
	}
	delete(r.objects, id)
}

// IsValid reports whether id was allocated by this registry and still
// resolves to a stored object. Removal invalidates an id immediately.
func (r *Registry) IsValid(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.validLocked(id) {
		return false
	}
	_, ok := r.objects[id]
	return ok
}

func (r *Registry) validLocked(id ID) bool {
	return 0 < id && id < r.nextID
}

// Lookup returns the object stored under id. A missing entry is a normal
// outcome: the object may have been removed after the id was cached
// elsewhere.
func (r *Registry) Lookup(id ID) (Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.objects[id]
	return obj, ok
}

// Len returns the number of stored objects.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.objects)
}

// Get resolves id to a concrete object kind. It returns the zero value and
// false when the id is absent or the stored object is of a different kind;
// callers must treat both as expected.
func Get[T Object](r *Registry, id ID) (T, bool) {
	var zero T
	obj, ok := r.Lookup(id)
	if !ok {
		return zero, false
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
