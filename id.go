package stencil

import (
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Identifiers for the two empty containers. Every other input produces
// the segmented L<depth>:<value> form.
const (
	emptyRecordID   = "{}"
	emptySequenceID = "[]"
)

// callState is the working set of one top-level traversal: per-depth
// accumulators plus the cycle tracker. Discarded on return.
type callState struct {
	levels   map[int]*big.Int
	maxDepth int
	seen     map[any]string
}

func newCallState() *callState {
	return &callState{
		levels: make(map[int]*big.Int),
		seen:   make(map[any]string),
	}
}

// level returns the accumulator for depth d, seeding it with 1<<d on
// first touch so every contributing level has a nonzero base that
// distinguishes it from every other depth.
func (st *callState) level(d int) *big.Int {
	if acc, ok := st.levels[d]; ok {
		return acc
	}
	acc := new(big.Int).Lsh(big.NewInt(1), uint(d))
	st.levels[d] = acc
	if d > st.maxDepth {
		st.maxDepth = d
	}
	return acc
}

// segments renders the accumulators in ascending depth order.
func (st *callState) segments() []string {
	segs := make([]string, 0, st.maxDepth+1)
	for d := 0; d <= st.maxDepth; d++ {
		if acc, ok := st.levels[d]; ok {
			segs = append(segs, "L"+strconv.Itoa(d)+":"+acc.String())
		}
	}
	return segs
}

// ID computes the structure identifier for v.
//
// The identifier captures shape, not data: property names, element
// counts, and type composition at every depth. Two values with the
// same shape produce the same identifier against the same naming
// state. See the package documentation for the text format.
func (e *Engine) ID(v Value, opts ...Option) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.idLocked(v, e.resolve(opts))
}

func (e *Engine) idLocked(v Value, cfg Config) string {
	if id, done := literalID(v); done {
		return id
	}
	if !cfg.Disambiguate {
		if id, ok := e.ids.get(v); ok {
			return id
		}
	}

	start := time.Now()
	st := newCallState()
	e.walk(v, 0, nil, st)
	segs := st.segments()
	sig := strings.Join(segs[1:], "-")

	var id string
	if cfg.Disambiguate {
		n := e.counters[sig]
		e.counters[sig] = n + 1
		id = "L0:" + strconv.FormatUint(n, 10) + "-" + sig
	} else {
		id = strings.Join(segs, "-")
		e.ids.put(v, id)
	}
	e.sigs.put(v, sig)

	// A direct recompute invalidates the cached bundle so the next
	// Info call observes the current counter.
	e.infos.drop(v)

	emitIDComputed(id, sig, len(segs), time.Since(start))
	return id
}

// literalID handles the inputs that never traverse: empty containers
// and scalar roots.
func literalID(v Value) (string, bool) {
	switch v.kind {
	case KindRecord:
		if v.rec.Len() == 0 {
			return emptyRecordID, true
		}
		return "", false
	case KindSequence:
		if v.seq.Len() == 0 {
			return emptySequenceID, true
		}
		return "", false
	default:
		// Bare scalars produce two identical segments built from the
		// discriminant alone, zero for unrecognized categories.
		b := strconv.FormatUint(v.kind.discriminant(), 10)
		return "L0:" + b + "-L1:" + b, true
	}
}

// walk is the recursive level hash accumulation. Every visited value
// adds its discriminant at its own depth; containers additionally add
// their type bit, ordinal-weighted key and child-type bits, and, for
// sequences, a length bit. The cycle tracker spans the whole top-level
// call, so a container reached twice anywhere in the graph contributes
// a circular bit instead of recursing.
func (e *Engine) walk(v Value, depth int, path []string, st *callState) {
	acc := st.level(depth)
	acc.Add(acc, new(big.Int).SetUint64(v.kind.discriminant()))
	if !v.container() {
		return
	}

	var label string
	var keys []string
	if v.kind == KindRecord {
		keys = v.rec.Keys()
		label = strings.Join(path, ".") + "{" + strings.Join(keys, ",") + "}"
	} else {
		label = strings.Join(path, ".") + "[" + strconv.Itoa(v.seq.Len()) + "]"
	}

	id := v.identity()
	if prev, ok := st.seen[id]; ok {
		acc.Add(acc, e.keyBit("circular:"+prev))
		return
	}
	st.seen[id] = label

	if v.kind == KindRecord {
		acc.Add(acc, e.keyBit("type:record"))
	} else {
		acc.Add(acc, e.keyBit("type:sequence"))
	}

	// Root emptiness is short-circuited before traversal; this guards
	// the invariant anyway.
	if depth == 0 && (v.kind == KindRecord && v.rec.Len() == 0 || v.kind == KindSequence && v.seq.Len() == 0) {
		return
	}

	if v.kind == KindRecord {
		for i, k := range keys {
			m := int64(i + 1)
			c, _ := v.rec.Get(k)
			acc.Add(acc, new(big.Int).Mul(e.keyBit(k), big.NewInt(m)))
			acc.Add(acc, new(big.Int).Mul(new(big.Int).SetUint64(c.kind.discriminant()), big.NewInt(m)))
			e.walk(c, depth+1, append(path, k), st)
		}
		return
	}

	n := v.seq.Len()
	acc.Add(acc, e.keyBit("length:"+strconv.Itoa(n)))
	for i := 0; i < n; i++ {
		m := int64(i + 1)
		c := v.seq.At(i)
		idx := "[" + strconv.Itoa(i) + "]"
		acc.Add(acc, new(big.Int).Mul(e.keyBit(idx), big.NewInt(m)))
		acc.Add(acc, new(big.Int).Mul(new(big.Int).SetUint64(c.kind.discriminant()), big.NewInt(m)))
		e.walk(c, depth+1, append(path, idx), st)
	}
}

// Signature returns the structural signature of v: the identifier with
// its depth-0 segment removed. Scalars yield "type:<kind>" without
// traversal; containers reuse the cached signature when one exists.
func (e *Engine) Signature(v Value) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.signatureLocked(v)
}

func (e *Engine) signatureLocked(v Value) string {
	if !v.container() {
		return "type:" + v.kind.String()
	}
	if sig, ok := e.sigs.get(v); ok {
		return sig
	}
	return stripRoot(e.idLocked(v, Config{}))
}

// stripRoot removes the depth-0 segment from an identifier.
func stripRoot(id string) string {
	if i := strings.Index(id, "-"); i >= 0 {
		return id[i+1:]
	}
	return ""
}

// levelCount returns the number of segments in an identifier.
func levelCount(id string) int {
	return strings.Count(id, "-") + 1
}

// CompactID computes the structure identifier for v and compacts it
// with the engine's digest, yielding a fixed-width fingerprint.
func (e *Engine) CompactID(v Value, opts ...Option) (string, error) {
	return e.digest.Digest([]byte(e.ID(v, opts...)))
}
