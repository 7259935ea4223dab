// FILE: lixenwraith/dataobject/signals.go
package dataobject

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Signals for dataobject events.
var (
	SignalShapeRejected    = capitan.NewSignal("dataobject.shape.rejected", "Constructor input was list-shaped")
	SignalTransformSkipped = capitan.NewSignal("dataobject.transform.skipped", "Transform target could not be resolved")
	SignalPatchApplied     = capitan.NewSignal("dataobject.patch.applied", "Patch applied to store")
	SignalBuildComplete    = capitan.NewSignal("dataobject.build.complete", "Builder finished")
)

// Keys for typed event data.
var (
	KeyTarget = capitan.NewStringKey("target")
	KeyKind   = capitan.NewStringKey("kind")
	KeyCount  = capitan.NewIntKey("count")
	KeyError  = capitan.NewErrorKey("error")
)

func emitShapeRejected(count int) {
	capitan.Error(context.Background(), SignalShapeRejected,
		KeyCount.Field(count),
		KeyError.Field(ErrInvalidShape),
	)
}

func emitTransformSkipped(target string) {
	capitan.Emit(context.Background(), SignalTransformSkipped,
		KeyTarget.Field(target),
	)
}

func emitPatchApplied(kind string, count int, err error) {
	fields := []capitan.Field{
		KeyKind.Field(kind),
		KeyCount.Field(count),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(context.Background(), SignalPatchApplied, fields...)
	} else {
		capitan.Emit(context.Background(), SignalPatchApplied, fields...)
	}
}

func emitBuildComplete(count int, err error) {
	fields := []capitan.Field{KeyCount.Field(count)}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(context.Background(), SignalBuildComplete, fields...)
	} else {
		capitan.Emit(context.Background(), SignalBuildComplete, fields...)
	}
}
