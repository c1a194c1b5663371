// Package stencil computes deterministic, collision-aware structure
// identifiers for value trees.
//
// An identifier captures the shape of a value - property names, element
// counts, and type composition at every depth - never its data. Two
// values with identical shape always produce the same identifier,
// across process restarts too, provided the exported naming state is
// carried forward. Downstream systems (serialization protocols,
// schema registries) use the identifier to answer "has the shape of
// this payload changed?" without comparing payloads.
//
// # Identifier Format
//
// An identifier is an ASCII string of segments L<depth>:<integer>
// joined by "-", ordered by ascending depth:
//
//	L0:5559411988-L1:7840968886-L2:10189501523
//
// Each segment is a per-depth accumulator built from type
// discriminants, hashed key bits, and ordinal positions. The two empty
// containers short-circuit to the literals "{}" and "[]". The
// structural signature is the identifier with its depth-0 segment
// removed; values sharing a signature have the same shape below the
// root.
//
// # Basic Usage
//
//	v := stencil.FromAny(map[string]any{
//	    "user":  "alice",
//	    "roles": []any{"admin", "ops"},
//	})
//
//	id := stencil.ID(v)
//	sig := stencil.Signature(v)
//	info := stencil.GetInfo(v)   // {ID, Levels, Collisions}
//
// Shape, not data: FromAny trees that differ only in scalar values
// produce identical identifiers, and record key order never matters.
//
// # Collision Modes
//
// In stable mode (the default) identical shapes yield identical
// identifiers and results are cached by container identity. With
// disambiguation enabled, each computation rewrites the depth-0
// segment to a per-signature occurrence counter, so structurally
// identical but distinct values stay distinguishable:
//
//	stencil.SetConfig(stencil.Config{Disambiguate: true})
//	// or per call:
//	id := stencil.ID(v, stencil.WithDisambiguation(true))
//
// # Engines
//
// All naming state (the key bit map, the collision counters, the
// identity caches) lives in an Engine. The package-level functions
// delegate to a process-wide default engine; construct engines with
// New for independent sessions that must not share state:
//
//	eng := stencil.New(stencil.WithConfig(stencil.Config{Disambiguate: true}))
//	id := eng.ID(v)
//
// # State Export / Import
//
// Identifiers are only stable across processes when both sides agree
// on the key bit assignments. Export snapshots the naming state;
// Import atomically replaces it, rejecting malformed snapshots with a
// MalformedStateError:
//
//	data, _ := stencil.EncodeSnapshot(stencil.JSON(), stencil.Export())
//	// ... later, elsewhere ...
//	snap, _ := stencil.DecodeSnapshot(stencil.JSON(), data)
//	if err := stencil.Import(snap); err != nil { ... }
//
// Snapshot codecs: JSON, MessagePack, YAML.
//
// # Compaction
//
// Identifier length grows with shape depth. CompactID and CompactInfo
// collapse an identifier to a fixed-width digest (SHA-256 by default;
// SHA-512/256 and BLAKE2b-256 are available via WithDigester).
//
// # Typed Shapes
//
// TypeValue, TypeID, and TypeSignature fingerprint the static shape of
// a Go struct type from its field metadata, without an instance.
//
// # Observability
//
// Computation, export, import, and reset emit capitan signals
// (SignalIDComputed, SignalStateExported, SignalStateImported,
// SignalStateReset) carrying typed fields.
package stencil

// defaultEngine backs the package-level API.
var defaultEngine = New()

// ID computes the structure identifier for v using the default engine.
func ID(v Value, opts ...Option) string {
	return defaultEngine.ID(v, opts...)
}

// Signature returns the structural signature of v using the default engine.
func Signature(v Value) string {
	return defaultEngine.Signature(v)
}

// GetInfo assembles the info bundle for v using the default engine.
func GetInfo(v Value, opts ...Option) Info {
	return defaultEngine.Info(v, opts...)
}

// CompactID computes and compacts the identifier for v using the
// default engine.
func CompactID(v Value, opts ...Option) (string, error) {
	return defaultEngine.CompactID(v, opts...)
}

// CompactInfo returns the compacted info bundle for v using the
// default engine.
func CompactInfo(v Value, opts ...Option) (Info, error) {
	return defaultEngine.CompactInfo(v, opts...)
}

// Register sets the collision counter for v's signature on the default engine.
func Register(v Value, count uint64) {
	defaultEngine.Register(v, count)
}

// RegisterSignatures sets collision counters on the default engine.
func RegisterSignatures(entries []SignatureCount) {
	defaultEngine.RegisterSignatures(entries)
}

// Reset clears the default engine's naming state unconditionally.
func Reset() {
	defaultEngine.Reset()
}

// Export snapshots the default engine's naming state.
func Export() Snapshot {
	return defaultEngine.Export()
}

// Import replaces the default engine's naming state with the snapshot's.
func Import(snap Snapshot) error {
	return defaultEngine.Import(snap)
}

// SetConfig replaces the default engine's configuration.
func SetConfig(cfg Config) {
	defaultEngine.SetConfig(cfg)
}

// GetConfig returns the default engine's configuration.
func GetConfig() Config {
	return defaultEngine.Config()
}
