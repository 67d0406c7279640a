// Package tracer provides a github.com/rs/zerolog-backed implementation of
// pkg/lra.Tracer, for hosts (principally cmd/lra) that want structured logs
// of assertions, pivots, and infeasibility without pkg/lra or internal/engine
// themselves importing a logging library. The core only exposes read-only
// views for outside collaborators like this one to log.
package tracer

import (
	"github.com/rs/zerolog"

	"github.com/lra-engine/solver/pkg/lra"
)

// ZeroLog logs every Solver event to an underlying zerolog.Logger:
// assertions and pivots at debug level, infeasibility at info level.
type ZeroLog struct {
	Log zerolog.Logger
}

// New returns a ZeroLog tracer writing through log.
func New(log zerolog.Logger) ZeroLog {
	return ZeroLog{Log: log}
}

// Assert implements lra.Tracer.
func (z ZeroLog) Assert(kind string, reason lra.Reason, ok bool) {
	z.Log.Debug().
		Str("kind", kind).
		Uint64("reason", uint64(reason)).
		Bool("ok", ok).
		Msg("assert")
}

// Pivot implements lra.Tracer.
func (z ZeroLog) Pivot(basic, nonBasic lra.VarID) {
	z.Log.Debug().
		Uint32("basic", uint32(basic)).
		Uint32("non_basic", uint32(nonBasic)).
		Msg("pivot")
}

// Infeasible implements lra.Tracer.
func (z ZeroLog) Infeasible(conflict lra.Conflict) {
	reasons := make([]uint64, len(conflict))
	for i, r := range conflict {
		reasons[i] = uint64(r)
	}
	z.Log.Info().
		Uints64("conflict", reasons).
		Msg("infeasible")
}

var _ lra.Tracer = ZeroLog{}
