package stencil

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMalformedState indicates a snapshot that cannot be imported.
	ErrMalformedState = errors.New("malformed state")

	// ErrMissingDigester indicates an unknown digest algorithm was requested.
	ErrMissingDigester = errors.New("missing digester")

	// ErrMarshal indicates the codec failed to marshal a snapshot.
	ErrMarshal = errors.New("marshal failed")

	// ErrUnmarshal indicates the codec failed to unmarshal a snapshot.
	ErrUnmarshal = errors.New("unmarshal failed")
)

// MalformedStateError reports the snapshot entry that made an import
// fail. No part of a rejected snapshot is committed.
type MalformedStateError struct {
	Section string // "keyMap" or "collisionCounters"
	Key     string // entry key within the section
	Value   string // offending entry value
}

func (e *MalformedStateError) Error() string {
	return fmt.Sprintf("%s: %s entry %q has invalid value %q", ErrMalformedState.Error(), e.Section, e.Key, e.Value)
}

// Unwrap returns ErrMalformedState for errors.Is checks.
func (e *MalformedStateError) Unwrap() error {
	return ErrMalformedState
}
