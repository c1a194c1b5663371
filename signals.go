package stencil

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for fingerprinting events.
var (
	SignalIDComputed    = capitan.NewSignal("stencil.id.computed", "Structure identifier computed")
	SignalStateExported = capitan.NewSignal("stencil.state.exported", "Naming state exported")
	SignalStateImported = capitan.NewSignal("stencil.state.imported", "Naming state imported")
	SignalStateReset    = capitan.NewSignal("stencil.state.reset", "Naming state cleared")
)

// Keys for typed event data.
var (
	KeyID           = capitan.NewStringKey("id")
	KeySignature    = capitan.NewStringKey("signature")
	KeyLevels       = capitan.NewIntKey("levels")
	KeyKeyBits      = capitan.NewIntKey("key_bits")
	KeyCounterCount = capitan.NewIntKey("counters")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
)

// emitIDComputed emits an event after a full traversal.
func emitIDComputed(id, sig string, levels int, duration time.Duration) {
	capitan.Emit(context.Background(), SignalIDComputed,
		KeyID.Field(id),
		KeySignature.Field(sig),
		KeyLevels.Field(levels),
		KeyDuration.Field(duration),
	)
}

// emitStateExported emits an event when naming state is snapshotted.
func emitStateExported(keyBits, counters int) {
	capitan.Emit(context.Background(), SignalStateExported,
		KeyKeyBits.Field(keyBits),
		KeyCounterCount.Field(counters),
	)
}

// emitStateImported emits an event when a snapshot is imported or rejected.
func emitStateImported(keyBits, counters int, err error) {
	fields := []capitan.Field{
		KeyKeyBits.Field(keyBits),
		KeyCounterCount.Field(counters),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(context.Background(), SignalStateImported, fields...)
		return
	}
	capitan.Emit(context.Background(), SignalStateImported, fields...)
}

// emitStateReset emits an event when naming state is cleared.
func emitStateReset() {
	capitan.Emit(context.Background(), SignalStateReset)
}
