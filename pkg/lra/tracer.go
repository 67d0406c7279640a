package lra

// Tracer receives notification of Solver activity: assertions, pivots, and
// infeasibility. It has no bearing on feasibility semantics — a Tracer
// cannot reject an assertion or influence a pivot choice — and exists only
// as an ambient instrumentation hook.
type Tracer interface {
	// Assert is called after every NewLT/NewGT/NewEq call (not NewVar),
	// reporting which kind of
	// relation was asserted and under which reason, and whether it
	// succeeded.
	Assert(kind string, reason Reason, ok bool)
	// Pivot is called once per pivot performed inside Check.
	Pivot(basic, nonBasic VarID)
	// Infeasible is called when Check returns false, with the conflict
	// it computed.
	Infeasible(conflict Conflict)
}

// DefaultTracer discards every event.
type DefaultTracer struct{}

// Assert implements Tracer.
func (DefaultTracer) Assert(string, Reason, bool) {}

// Pivot implements Tracer.
func (DefaultTracer) Pivot(VarID, VarID) {}

// Infeasible implements Tracer.
func (DefaultTracer) Infeasible(Conflict) {}
