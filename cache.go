package stencil

import (
	"runtime"
	"sync"
	"weak"
)

// weakCache associates computed results with container identity without
// keeping the container alive. Keys are weak pointers to the underlying
// Record or Sequence; a runtime cleanup removes the entry once the
// container becomes unreachable.
//
// The cache carries its own lock because cleanups run on the runtime's
// cleanup goroutine, outside the owning engine's mutex.
type weakCache[V any] struct {
	mu sync.Mutex
	m  map[any]V
}

func newWeakCache[V any]() *weakCache[V] {
	return &weakCache[V]{m: make(map[any]V)}
}

// get returns the entry for v's container identity.
func (c *weakCache[V]) get(v Value) (V, bool) {
	switch v.kind {
	case KindRecord:
		return cacheLookup(c, v.rec)
	case KindSequence:
		return cacheLookup(c, v.seq)
	}
	var zero V
	return zero, false
}

// put stores val under v's container identity. Scalars are ignored.
func (c *weakCache[V]) put(v Value, val V) {
	switch v.kind {
	case KindRecord:
		cacheStore(c, v.rec, val)
	case KindSequence:
		cacheStore(c, v.seq, val)
	}
}

// drop removes the entry for v's container identity.
func (c *weakCache[V]) drop(v Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v.kind {
	case KindRecord:
		delete(c.m, weak.Make(v.rec))
	case KindSequence:
		delete(c.m, weak.Make(v.seq))
	}
}

// reset discards all entries. Pending cleanups registered against the
// old map resolve to no-op deletes on the new one.
func (c *weakCache[V]) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[any]V)
}

func (c *weakCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

func cacheLookup[V any, T any](c *weakCache[V], p *T) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.m[weak.Make(p)]
	return val, ok
}

func cacheStore[V any, T any](c *weakCache[V], p *T, val V) {
	key := weak.Make(p)
	c.mu.Lock()
	_, existed := c.m[key]
	c.m[key] = val
	c.mu.Unlock()
	if !existed {
		// The cleanup must not capture p itself or the entry would
		// keep its key alive; the weak key rides along as the argument.
		runtime.AddCleanup(p, func(k weak.Pointer[T]) {
			c.mu.Lock()
			delete(c.m, k)
			c.mu.Unlock()
		}, key)
	}
}
