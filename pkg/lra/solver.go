// Package lra is the host-facing API for an incremental, backtrackable
// linear-arithmetic feasibility solver: a Simplex engine over the
// rationals extended with infinitesimals, supporting assert/retract of
// constraints and conflict extraction. It wraps internal/engine with the
// caller-facing Reason/Conflict/Tracer vocabulary; callers never import
// internal/engine directly.
package lra

import (
	"github.com/lra-engine/solver/internal/engine"
	"github.com/lra-engine/solver/internal/linexpr"
	"github.com/lra-engine/solver/internal/rational"
)

// VarID identifies a variable, original or slack, known to a Solver.
type VarID = linexpr.VarID

// Expr is a linear expression over VarIDs: sum(c_i * x_i) + k. Construct
// one with Var, Const, and its Add/Sub/Scale methods.
type Expr = linexpr.Expr

// Var returns the single-variable expression 1*v.
func Var(v VarID) Expr { return linexpr.Term(v, rational.One()) }

// Const returns the constant expression q.
func Const(q rational.Rational) Expr { return linexpr.Const(q) }

// Rat is a convenience constructor for an exact rational num/den, re-
// exported so callers building Exprs do not need to import internal/rational.
func Rat(num, den int64) rational.Rational { return rational.New(num, den) }

// options configures a Solver built by New, following a plain
// Option-function construction pattern.
type options struct {
	tracer Tracer
}

// Option configures a Solver at construction time.
type Option func(*options)

// WithTracer installs t as the Solver's activity tracer. Without this
// option, a Solver uses DefaultTracer and reports nothing.
func WithTracer(t Tracer) Option {
	return func(o *options) { o.tracer = t }
}

func defaultOptions() *options {
	return &options{tracer: DefaultTracer{}}
}

// Solver is the host-facing object offering variable creation, assertion
// of relations, incremental retraction, and feasibility checking. A Solver
// is not safe for concurrent use: one instance belongs to one logical
// caller, and no two methods may run concurrently against the same
// instance.
type Solver struct {
	eng    *engine.Engine
	tracer Tracer
}

// New returns an empty Solver.
func New(opts ...Option) *Solver {
	o := defaultOptions()
	for _, apply := range opts {
		apply(o)
	}
	return &Solver{
		eng:    engine.New(tracerAdapter{o.tracer}),
		tracer: o.tracer,
	}
}

// tracerAdapter satisfies internal/engine.Tracer by forwarding to pkg/lra's
// richer Tracer interface, translating engine.Reason back to Reason.
type tracerAdapter struct{ t Tracer }

func (a tracerAdapter) Pivot(basic, nonBasic VarID) {
	a.t.Pivot(basic, nonBasic)
}

func (a tracerAdapter) Infeasible(reasons []engine.Reason) {
	out := make(Conflict, len(reasons))
	for i, r := range reasons {
		out[i] = Reason(r)
	}
	a.t.Infeasible(out)
}

// Fresh allocates a new variable with initial bounds [lb, ub]. Use
// NegInf/PosInf for an unbounded side.
func (s *Solver) Fresh(lb, ub rational.Rational) VarID {
	return s.eng.Fresh(rational.FromRational(lb), rational.FromRational(ub))
}

// NegInf is the unbounded-below sentinel, for use with Fresh.
func NegInf() rational.Rational { return rational.InfNeg() }

// PosInf is the unbounded-above sentinel, for use with Fresh.
func PosInf() rational.Rational { return rational.InfPos() }

// NewVar returns the slack variable representing expr, memoized by its
// canonical form.
func (s *Solver) NewVar(expr Expr) VarID {
	return s.eng.NewVar(expr)
}

// NewLT asserts lhs < rhs (strict) or lhs <= rhs (non-strict) under reason.
// Returns false, with Conflict() populated, if the assertion is rejected
// outright (a self-contradictory constant, or a bound conflict).
func (s *Solver) NewLT(lhs, rhs Expr, strict bool, reason Reason) bool {
	ok := s.eng.NewLT(lhs, rhs, strict, engine.Reason(reason))
	s.tracer.Assert("lt", reason, ok)
	return ok
}

// NewGT asserts lhs > rhs (strict) or lhs >= rhs (non-strict) under reason.
func (s *Solver) NewGT(lhs, rhs Expr, strict bool, reason Reason) bool {
	ok := s.eng.NewGT(lhs, rhs, strict, engine.Reason(reason))
	s.tracer.Assert("gt", reason, ok)
	return ok
}

// NewEq asserts lhs = rhs under reason.
func (s *Solver) NewEq(lhs, rhs Expr, reason Reason) bool {
	ok := s.eng.NewEq(lhs, rhs, engine.Reason(reason))
	s.tracer.Assert("eq", reason, ok)
	return ok
}

// Retract removes every bound justified by reason, restoring effective
// bounds to what they would have been had reason never been asserted. Call
// Check again afterward for a fresh model.
func (s *Solver) Retract(reason Reason) {
	s.eng.Retract(engine.Reason(reason))
}

// Check restores feasibility and returns true with a model available via
// Model/Value, or false with ConflictReasons populated.
func (s *Solver) Check() bool {
	return s.eng.Check()
}

// Conflict returns the most recent failure's reason set as a Conflict
// error, or nil if there is none. A successful Check clears it; a
// successful assertion leaves it unchanged.
func (s *Solver) Conflict() error {
	reasons := s.eng.Conflict()
	if len(reasons) == 0 {
		return nil
	}
	out := make(Conflict, len(reasons))
	for i, r := range reasons {
		out[i] = Reason(r)
	}
	return out
}

// ConflictReasons returns the same information as Conflict, as a plain
// slice, for hosts that want to inspect reasons without an error value.
func (s *Solver) ConflictReasons() []Reason {
	reasons := s.eng.Conflict()
	out := make([]Reason, len(reasons))
	for i, r := range reasons {
		out[i] = Reason(r)
	}
	return out
}

// LB, UB, and Value expose a variable's current effective bounds and value
// as plain rationals, discarding the infinitesimal component: a bound at
// c - eps reads as c. Solver has no accessor for the infinitesimal part.
func (s *Solver) LB(id VarID) rational.Rational    { return s.eng.LB(id).Q }
func (s *Solver) UB(id VarID) rational.Rational    { return s.eng.UB(id).Q }
func (s *Solver) Value(id VarID) rational.Rational { return s.eng.Value(id).Q }

// Model returns a snapshot of every variable's current value, valid after a
// successful Check. This core never serializes it itself — textual/JSON
// rendering is left to the caller.
func (s *Solver) Model() map[VarID]rational.Rational {
	n := s.eng.NumVars()
	out := make(map[VarID]rational.Rational, n)
	for id := VarID(1); int(id) <= n; id++ {
		out[id] = s.eng.Value(id).Q
	}
	return out
}
