package stencil

import "testing"

func TestWeakCache_PutGet(t *testing.T) {
	c := newWeakCache[string]()
	rec := NewRecord().Set("a", Int(1))
	v := RecordValue(rec)

	if _, ok := c.get(v); ok {
		t.Fatal("get() hit on empty cache")
	}

	c.put(v, "id-1")
	got, ok := c.get(v)
	if !ok || got != "id-1" {
		t.Errorf("get() = %q, %v, want %q, true", got, ok, "id-1")
	}

	// Distinct container, same shape: identity keying must miss.
	other := RecordValue(NewRecord().Set("a", Int(1)))
	if _, ok := c.get(other); ok {
		t.Error("get() hit for a different container instance")
	}
}

func TestWeakCache_Sequences(t *testing.T) {
	c := newWeakCache[string]()
	v := SequenceValue(NewSequence(Int(1)))

	c.put(v, "seq")
	if got, ok := c.get(v); !ok || got != "seq" {
		t.Errorf("get() = %q, %v, want %q, true", got, ok, "seq")
	}
}

func TestWeakCache_ScalarsIgnored(t *testing.T) {
	c := newWeakCache[string]()
	c.put(Number(1), "x")

	if c.len() != 0 {
		t.Errorf("cache holds %d entries after scalar put, want 0", c.len())
	}
	if _, ok := c.get(Number(1)); ok {
		t.Error("get() hit for a scalar")
	}
}

func TestWeakCache_Drop(t *testing.T) {
	c := newWeakCache[string]()
	v := RecordValue(NewRecord().Set("a", Int(1)))

	c.put(v, "id")
	c.drop(v)
	if _, ok := c.get(v); ok {
		t.Error("get() hit after drop")
	}
}

func TestWeakCache_Reset(t *testing.T) {
	c := newWeakCache[string]()
	a := RecordValue(NewRecord())
	b := SequenceValue(NewSequence())

	c.put(a, "a")
	c.put(b, "b")
	c.reset()

	if c.len() != 0 {
		t.Errorf("cache holds %d entries after reset, want 0", c.len())
	}
}

func TestWeakCache_Overwrite(t *testing.T) {
	c := newWeakCache[string]()
	v := RecordValue(NewRecord())

	c.put(v, "first")
	c.put(v, "second")

	if got, _ := c.get(v); got != "second" {
		t.Errorf("get() = %q, want %q", got, "second")
	}
	if c.len() != 1 {
		t.Errorf("cache holds %d entries after overwrite, want 1", c.len())
	}
}
