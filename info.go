package stencil

import "strconv"

// Info bundles an identifier with its depth count and the current
// collision counter for the value's signature.
type Info struct {
	// ID is the structure identifier.
	ID string

	// Levels is the number of depth segments in ID.
	Levels int

	// Collisions is the collision counter currently registered for the
	// value's signature, zero if the signature was never registered.
	Collisions uint64
}

// Info assembles the info bundle for v. Unlike ID in disambiguating
// mode, Info never increments a collision counter; in that mode the
// depth-0 segment is synthesized from the counter's current value
// without a full recompute. The bundle is cached by container identity
// until the value's identifier is recomputed directly.
func (e *Engine) Info(v Value, opts ...Option) Info {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := e.resolve(opts)

	if in, ok := e.infos.get(v); ok {
		return in
	}

	sig := e.signatureLocked(v)
	count := e.counters[sig]

	var id string
	switch {
	case !v.container():
		id, _ = literalID(v)
	case v.kind == KindRecord && v.rec.Len() == 0,
		v.kind == KindSequence && v.seq.Len() == 0:
		id, _ = literalID(v)
	case cfg.Disambiguate:
		id = "L0:" + strconv.FormatUint(count, 10) + "-" + sig
	default:
		id = e.idLocked(v, Config{})
	}

	in := Info{ID: id, Levels: levelCount(id), Collisions: count}
	e.infos.put(v, in)
	return in
}

// CompactInfo returns the info bundle with ID replaced by its digest.
func (e *Engine) CompactInfo(v Value, opts ...Option) (Info, error) {
	in := e.Info(v, opts...)
	compact, err := e.digest.Digest([]byte(in.ID))
	if err != nil {
		return Info{}, err
	}
	in.ID = compact
	return in, nil
}

// Register sets the collision counter for v's signature directly,
// bypassing traversal-driven counting. Used to pre-seed state.
func (e *Engine) Register(v Value, count uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counters[e.signatureLocked(v)] = count
}

// SignatureCount pairs a structural signature with a counter value.
type SignatureCount struct {
	Signature string `json:"signature" yaml:"signature" msgpack:"signature"`
	Count     uint64 `json:"count" yaml:"count" msgpack:"count"`
}

// RegisterSignatures sets collision counters for already-known
// signatures, for pre-seeding from persisted state.
func (e *Engine) RegisterSignatures(entries []SignatureCount) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, entry := range entries {
		e.counters[entry.Signature] = entry.Count
	}
}
