package stencil

import (
	"math/big"
	"sync"
)

// Config controls identifier computation.
type Config struct {
	// Disambiguate replaces the depth-0 segment with a per-signature
	// occurrence counter, making otherwise-identical shapes
	// distinguishable. Each call increments the counter, so repeated
	// calls against one shape yield a strictly increasing sequence.
	Disambiguate bool
}

// Option adjusts configuration for a single call.
type Option func(*Config)

// WithDisambiguation overrides the engine's collision mode for one call.
func WithDisambiguation(on bool) Option {
	return func(c *Config) {
		c.Disambiguate = on
	}
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithHash32 replaces the key bit hash primitive. The primitive must be
// stable across processes; state exported under one primitive cannot be
// meaningfully imported under another.
func WithHash32(fn Hash32) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.hash32 = fn
		}
	}
}

// WithDigester replaces the identifier compaction digest.
func WithDigester(d Digester) EngineOption {
	return func(e *Engine) {
		if d != nil {
			e.digest = d
		}
	}
}

// WithDigestAlgo selects a built-in compaction digest by name.
// An unknown algorithm leaves the default digest in place.
func WithDigestAlgo(algo DigestAlgo) EngineOption {
	return func(e *Engine) {
		if d, err := DigesterFor(algo); err == nil {
			e.digest = d
		}
	}
}

// WithConfig sets the engine's default configuration.
func WithConfig(cfg Config) EngineOption {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// Engine computes structure identifiers and owns all naming state: the
// key bit map, the collision counters, and the three identity caches.
// Independent engines never share state, so separate fingerprinting
// sessions (per tenant, per protocol) cannot contaminate each other.
//
// Engines are safe for concurrent use. Identifier computation is a pure
// function of the engine's current naming state plus its argument.
type Engine struct {
	hash32 Hash32
	digest Digester

	mu       sync.Mutex
	cfg      Config
	bits     map[string]*big.Int
	counters map[string]uint64

	ids   *weakCache[string]
	sigs  *weakCache[string]
	infos *weakCache[Info]
}

// New returns an engine with empty naming state. The default hash
// primitive is XXHash32 and the default compaction digest is SHA-256.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		hash32:   XXHash32,
		digest:   SHA256Digester(),
		bits:     make(map[string]*big.Int),
		counters: make(map[string]uint64),
		ids:      newWeakCache[string](),
		sigs:     newWeakCache[string](),
		infos:    newWeakCache[Info](),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetConfig replaces the engine's default configuration.
func (e *Engine) SetConfig(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
}

// Config returns the engine's default configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Reset unconditionally clears the key bit map, the collision counters,
// and all three identity caches. Identifiers computed after a reset are
// only comparable to earlier ones if every key hashes to the same bit,
// which holds for the deterministic default primitive.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.resetLocked()
	e.mu.Unlock()
	emitStateReset()
}

func (e *Engine) resetLocked() {
	e.bits = make(map[string]*big.Int)
	e.counters = make(map[string]uint64)
	e.ids.reset()
	e.sigs.reset()
	e.infos.reset()
}

// resolve derives the effective configuration for one call.
// Callers must hold e.mu.
func (e *Engine) resolve(opts []Option) Config {
	cfg := e.cfg
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// keyBit returns the deterministic bit for s, deriving and memoizing it
// on first use. Derivation hashes s with the 32-bit primitive and reads
// the hex output as a base-16 integer. Callers must hold e.mu.
func (e *Engine) keyBit(s string) *big.Int {
	if b, ok := e.bits[s]; ok {
		return b
	}
	b, ok := new(big.Int).SetString(e.hash32(s), 16)
	if !ok || b.Sign() < 0 {
		// A custom primitive returning non-hex output still must not
		// fail the caller; an empty bit keeps derivation total.
		b = new(big.Int)
	}
	e.bits[s] = b
	return b
}
