package stencil_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zoobzio/stencil"
)

func TestExportImport_RoundTrip(t *testing.T) {
	source := stencil.New()

	values := []stencil.Value{
		stencil.FromAny(map[string]any{"a": 1, "b": []any{true, "s"}}),
		stencil.FromAny([]any{1, map[string]any{"deep": []any{nil}}}),
	}
	want := make([]string, len(values))
	for i, v := range values {
		want[i] = source.ID(v)
	}

	dest := stencil.New()
	if err := dest.Import(source.Export()); err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	for i, v := range values {
		if got := dest.ID(v); got != want[i] {
			t.Errorf("imported engine ID %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestExportImport_SelfRoundTripKeepsIDs(t *testing.T) {
	eng := stencil.New()
	v := stencil.FromAny(map[string]any{"x": []any{1, 2}})

	before := eng.ID(v)
	if err := eng.Import(eng.Export()); err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if after := eng.ID(v); after != before {
		t.Errorf("ID changed across self round trip: %q != %q", after, before)
	}
}

func TestExportImport_CollisionCounters(t *testing.T) {
	source := stencil.New(stencil.WithConfig(stencil.Config{Disambiguate: true}))

	// Advance one signature's counter to 3.
	for i := 0; i < 3; i++ {
		source.ID(stencil.FromAny(map[string]any{"n": i}))
	}

	dest := stencil.New(stencil.WithConfig(stencil.Config{Disambiguate: true}))
	if err := dest.Import(source.Export()); err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	id := dest.ID(stencil.FromAny(map[string]any{"n": 99}))
	if got, want := id[:5], "L0:3-"; got != want {
		t.Errorf("ID after import starts %q, want %q", got, want)
	}
}

func TestExport_Snapshot(t *testing.T) {
	eng := stencil.New()
	eng.ID(stencil.FromAny(map[string]any{"a": 1}))

	snap := eng.Export()
	if len(snap.KeyMap) == 0 {
		t.Fatal("Export().KeyMap is empty after a computation")
	}
	for k, v := range snap.KeyMap {
		for _, c := range v {
			if c < '0' || c > '9' {
				t.Errorf("KeyMap[%q] = %q is not a decimal string", k, v)
			}
		}
	}
}

func TestExport_ClampsOversizedCounter(t *testing.T) {
	eng := stencil.New()
	eng.RegisterSignatures([]stencil.SignatureCount{
		{Signature: "L1:9", Count: math.MaxUint64},
	})

	snap := eng.Export()
	if got := snap.CollisionCounters["L1:9"]; got != math.MaxInt64 {
		t.Errorf("exported counter = %d, want MaxInt64", got)
	}

	// An engine's own export always round-trips through Import.
	if err := stencil.New().Import(snap); err != nil {
		t.Fatalf("Import() of own export failed: %v", err)
	}
}

func TestImport_MalformedKeyBit(t *testing.T) {
	eng := stencil.New()
	marker := eng.ID(stencil.FromAny(map[string]any{"keep": 1}))

	err := eng.Import(stencil.Snapshot{
		KeyMap: map[string]string{"bad": "not-a-number"},
	})
	if err == nil {
		t.Fatal("Import() accepted a non-numeric key bit")
	}
	if !errors.Is(err, stencil.ErrMalformedState) {
		t.Errorf("Import() error = %v, want ErrMalformedState", err)
	}

	var malformed *stencil.MalformedStateError
	if !errors.As(err, &malformed) {
		t.Fatalf("Import() error type = %T, want *MalformedStateError", err)
	}
	if malformed.Section != "keyMap" || malformed.Key != "bad" {
		t.Errorf("error context = %+v, want section keyMap key bad", malformed)
	}

	// Nothing committed: existing state still produces the same ID.
	if got := eng.ID(stencil.FromAny(map[string]any{"keep": 2})); got != marker {
		t.Errorf("ID after rejected import = %q, want %q", got, marker)
	}
}

func TestImport_NegativeKeyBit(t *testing.T) {
	eng := stencil.New()
	err := eng.Import(stencil.Snapshot{
		KeyMap: map[string]string{"neg": "-12"},
	})
	if !errors.Is(err, stencil.ErrMalformedState) {
		t.Errorf("Import() error = %v, want ErrMalformedState", err)
	}
}

func TestImport_NegativeCounter(t *testing.T) {
	eng := stencil.New()
	err := eng.Import(stencil.Snapshot{
		CollisionCounters: map[string]int64{"L1:5": -1},
	})
	if !errors.Is(err, stencil.ErrMalformedState) {
		t.Fatalf("Import() error = %v, want ErrMalformedState", err)
	}

	var malformed *stencil.MalformedStateError
	if !errors.As(err, &malformed) {
		t.Fatalf("Import() error type = %T, want *MalformedStateError", err)
	}
	if malformed.Section != "collisionCounters" {
		t.Errorf("error section = %q, want collisionCounters", malformed.Section)
	}
}

func TestImport_ClearsPreviousState(t *testing.T) {
	eng := stencil.New(stencil.WithConfig(stencil.Config{Disambiguate: true}))

	// Advance a counter, then import an empty snapshot.
	eng.ID(stencil.FromAny(map[string]any{"a": 1}))
	eng.ID(stencil.FromAny(map[string]any{"a": 2}))
	if err := eng.Import(stencil.Snapshot{}); err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	id := eng.ID(stencil.FromAny(map[string]any{"a": 3}))
	if got, want := id[:5], "L0:0-"; got != want {
		t.Errorf("counter survived import: depth-0 = %q, want %q", got, want)
	}
}

func TestReset_ClearsState(t *testing.T) {
	eng := stencil.New(stencil.WithConfig(stencil.Config{Disambiguate: true}))

	eng.ID(stencil.FromAny(map[string]any{"a": 1}))
	eng.ID(stencil.FromAny(map[string]any{"a": 2}))
	eng.Reset()

	id := eng.ID(stencil.FromAny(map[string]any{"a": 3}))
	if got, want := id[:5], "L0:0-"; got != want {
		t.Errorf("counter survived reset: depth-0 = %q, want %q", got, want)
	}

	if snap := eng.Export(); len(snap.CollisionCounters) != 1 {
		// Only the post-reset computation's signature remains.
		t.Errorf("Export().CollisionCounters has %d entries, want 1", len(snap.CollisionCounters))
	}
}

func TestReset_KeepsDeterminism(t *testing.T) {
	eng := stencil.New()
	v := stencil.FromAny(map[string]any{"a": []any{1}})

	before := eng.ID(v)
	eng.Reset()
	if after := eng.ID(v); after != before {
		t.Errorf("ID changed across reset with the default primitive: %q != %q", after, before)
	}
}
