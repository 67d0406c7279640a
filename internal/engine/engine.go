// Package engine implements the incremental, backtrackable linear
// arithmetic feasibility core: the variable registry, tableau, assertion
// front-end, and feasibility engine, combined into one Engine object.
// pkg/lra wraps this package with the caller-facing Reason/Solver API;
// engine itself knows nothing about hosts.
package engine

import (
	"github.com/lra-engine/solver/internal/linexpr"
	"github.com/lra-engine/solver/internal/rational"
)

// Tracer receives notification of Engine activity: a narrow set of
// read-only callbacks rather than the Engine itself, so a Tracer cannot
// mutate solver state from inside a callback.
type Tracer interface {
	Pivot(basic, nonBasic linexpr.VarID)
	Infeasible(conflict []Reason)
}

// DefaultTracer discards every event.
type DefaultTracer struct{}

// Pivot implements Tracer.
func (DefaultTracer) Pivot(linexpr.VarID, linexpr.VarID) {}

// Infeasible implements Tracer.
func (DefaultTracer) Infeasible([]Reason) {}

// Engine combines the registry, tableau, and slack memo into a single
// mutable object that is strictly single-threaded: no method here may be
// called concurrently with any other on the same instance.
type Engine struct {
	reg       *Registry
	tab       *Tableau
	slackMemo map[string]linexpr.VarID
	conflict  []Reason
	tracer    Tracer
}

// New returns an empty Engine. tracer may be nil, in which case a
// DefaultTracer is used.
func New(tracer Tracer) *Engine {
	if tracer == nil {
		tracer = DefaultTracer{}
	}
	return &Engine{
		reg:       NewRegistry(),
		tab:       NewTableau(),
		slackMemo: make(map[string]linexpr.VarID),
		tracer:    tracer,
	}
}

// Fresh allocates a new original (non-slack) variable with the given
// initial bounds. Pass rational.NegInf()/rational.PosInf() for an
// unbounded side.
func (e *Engine) Fresh(lb, ub rational.Delta) linexpr.VarID {
	return e.reg.Fresh(lb, ub)
}

// LB, UB, and Value expose the registry's read accessors.
func (e *Engine) LB(id linexpr.VarID) rational.Delta    { return e.reg.LB(id) }
func (e *Engine) UB(id linexpr.VarID) rational.Delta    { return e.reg.UB(id) }
func (e *Engine) Value(id linexpr.VarID) rational.Delta { return e.reg.Value(id) }

// NumVars reports how many variables (original and slack) currently exist.
func (e *Engine) NumVars() int { return e.reg.Len() }

// NewLT asserts lhs < rhs (strict=true) or lhs <= rhs (strict=false) under
// reason, returning false with e.Conflict() populated on rejection.
func (e *Engine) NewLT(lhs, rhs linexpr.Expr, strict bool, reason Reason) bool {
	return e.assertLE(lhs, rhs, strict, reason)
}

// NewGT asserts lhs > rhs (strict=true) or lhs >= rhs (strict=false),
// defined as new_lt(rhs, lhs, strict, reason).
func (e *Engine) NewGT(lhs, rhs linexpr.Expr, strict bool, reason Reason) bool {
	return e.assertLE(rhs, lhs, strict, reason)
}

// NewEq asserts lhs = rhs under reason.
func (e *Engine) NewEq(lhs, rhs linexpr.Expr, reason Reason) bool {
	return e.assertEq(lhs, rhs, reason)
}

// Retract removes every bound-stack entry justified by reason, across every
// variable, restoring effective bounds to what they would have been had
// reason never been asserted. It
// does not re-run Check(); a caller should call Check() again afterward to
// obtain a fresh model, since a non-basic value pushed up while reason was
// asserted is not itself rolled back.
func (e *Engine) Retract(reason Reason) {
	n := e.reg.Len()
	for id := linexpr.VarID(1); int(id) <= n; id++ {
		e.reg.Pop(id, reason)
	}
}

// Check restores feasibility, returning true
// with a model available via Value, or false with Conflict() populated.
func (e *Engine) Check() bool {
	ok := e.checkLoop()
	if !ok {
		e.tracer.Infeasible(e.conflict)
	}
	return ok
}

// Conflict returns the reason set assembled by the most recent failing
// assertion or Check() call. Valid until the next mutating operation.
func (e *Engine) Conflict() []Reason {
	return e.conflict
}
