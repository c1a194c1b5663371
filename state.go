package stencil

import (
	"math"
	"math/big"
	"strconv"
)

// Snapshot is the serializable form of an engine's naming state: the
// key bit map (bits as decimal strings, since they exceed what every
// interchange format can carry as a native integer) and the collision
// counters. A snapshot round-trips exactly through Export and Import.
type Snapshot struct {
	KeyMap            map[string]string `json:"keyMap" yaml:"keyMap" msgpack:"keyMap"`
	CollisionCounters map[string]int64  `json:"collisionCounters" yaml:"collisionCounters" msgpack:"collisionCounters"`
}

// Export snapshots the key bit map and the collision counters. The
// identity caches are derived state and are not exported.
func (e *Engine) Export() Snapshot {
	e.mu.Lock()
	snap := Snapshot{
		KeyMap:            make(map[string]string, len(e.bits)),
		CollisionCounters: make(map[string]int64, len(e.counters)),
	}
	for k, b := range e.bits {
		snap.KeyMap[k] = b.String()
	}
	for sig, n := range e.counters {
		// Counters past the snapshot's integer range must still
		// round-trip; clamp rather than export a negative value that
		// Import would reject.
		if n > math.MaxInt64 {
			n = math.MaxInt64
		}
		snap.CollisionCounters[sig] = int64(n)
	}
	e.mu.Unlock()

	emitStateExported(len(snap.KeyMap), len(snap.CollisionCounters))
	return snap
}

// Import replaces the engine's naming state with the snapshot's.
// The whole engine is reset first, identity caches included, so
// identifiers computed afterwards match those of the exporting process
// for any shape whose keys the snapshot covers.
//
// The snapshot is validated in full before anything is committed: a
// non-numeric or negative key bit, or a negative collision counter,
// rejects the import with a MalformedStateError and leaves the engine
// untouched.
func (e *Engine) Import(snap Snapshot) error {
	bits := make(map[string]*big.Int, len(snap.KeyMap))
	for k, raw := range snap.KeyMap {
		b, ok := new(big.Int).SetString(raw, 10)
		if !ok || b.Sign() < 0 {
			err := &MalformedStateError{Section: "keyMap", Key: k, Value: raw}
			emitStateImported(0, 0, err)
			return err
		}
		bits[k] = b
	}

	counters := make(map[string]uint64, len(snap.CollisionCounters))
	for sig, n := range snap.CollisionCounters {
		if n < 0 {
			err := &MalformedStateError{Section: "collisionCounters", Key: sig, Value: strconv.FormatInt(n, 10)}
			emitStateImported(0, 0, err)
			return err
		}
		counters[sig] = uint64(n)
	}

	e.mu.Lock()
	e.resetLocked()
	e.bits = bits
	e.counters = counters
	e.mu.Unlock()

	emitStateImported(len(bits), len(counters), nil)
	return nil
}
