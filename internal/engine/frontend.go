package engine

import (
	"github.com/lra-engine/solver/internal/linexpr"
	"github.com/lra-engine/solver/internal/rational"
)

// substituteBasics rewrites e by repeatedly substituting any basic variable
// in its support with its tableau row, until only non-basic variables
// remain in the support. Tableau rows never have a constant term and never
// mention a variable that is itself still basic after a completed pivot,
// so this terminates.
func (e *Engine) substituteBasics(expr linexpr.Expr) linexpr.Expr {
	for {
		basic := linexpr.VarID(0)
		for _, v := range expr.Support() {
			if e.tab.IsBasic(v) {
				basic = v
				break
			}
		}
		if basic == 0 {
			return expr
		}
		expr = expr.Substitute(basic, e.tab.RowOf(basic))
	}
}

// boundsOf computes the interval [L, U] a composite expression is
// guaranteed to lie within given its variables' current bounds: positive
// coefficients contribute their variable's lb/ub, negative coefficients
// contribute the swapped bound.
func (e *Engine) boundsOf(expr linexpr.Expr) (lo, hi rational.Delta) {
	lo = rational.FromRational(expr.Constant())
	hi = rational.FromRational(expr.Constant())
	for _, term := range expr.Terms() {
		var lTerm, hTerm rational.Delta
		if term.Coeff.IsPositive() {
			lTerm = e.reg.LB(term.Var).Scale(term.Coeff)
			hTerm = e.reg.UB(term.Var).Scale(term.Coeff)
		} else {
			lTerm = e.reg.UB(term.Var).Scale(term.Coeff)
			hTerm = e.reg.LB(term.Var).Scale(term.Coeff)
		}
		lo = lo.Add(lTerm)
		hi = hi.Add(hTerm)
	}
	return lo, hi
}

// valueOf evaluates expr against the registry's current variable values.
func (e *Engine) valueOf(expr linexpr.Expr) rational.Delta {
	v := rational.FromRational(expr.Constant())
	for _, term := range expr.Terms() {
		v = v.Add(e.reg.Value(term.Var).Scale(term.Coeff))
	}
	return v
}

// NewVar returns the slack variable representing expr, memoized by expr's
// canonical form. Repeated calls with syntactically identical expressions
// return the same variable.
func (e *Engine) NewVar(expr linexpr.Expr) linexpr.VarID {
	key := expr.Canonical()
	if s, ok := e.slackMemo[key]; ok {
		return s
	}
	// The slack starts unbounded: the bounds its row implies are not copied
	// onto it, so every bound s carries comes from a retractable push.
	s := e.reg.Fresh(rational.NegInf(), rational.PosInf())
	e.reg.SetValue(s, e.valueOf(expr))
	// Callers normalize away any constant term before reaching NewVar (a
	// row never carries a nonzero constant), so this is a defensive no-op
	// in the common case rather than load-bearing logic.
	row := expr.Clone()
	row.SetConstant(rational.Zero())
	e.tab.InstallRow(s, row)
	e.slackMemo[key] = s
	return s
}

// assertLE normalizes lhs <= rhs (or lhs < rhs when strict) and pushes the
// resulting bound.
func (e *Engine) assertLE(lhs, rhs linexpr.Expr, strict bool, reason Reason) bool {
	diff := lhs.Sub(rhs)
	expr := e.substituteBasics(diff)
	terms := expr.Terms()
	k := expr.Constant()

	switch len(terms) {
	case 0:
		// e <=(strict?<) 0 trivially; "0 < 0" fails, "0 <= 0" succeeds.
		if k.IsNegative() || (!strict && k.IsZero()) {
			return true
		}
		e.conflict = []Reason{reason}
		return false
	case 1:
		c := terms[0].Coeff
		x := terms[0].Var
		bound := rational.FromRational(k.Neg())
		if strict {
			bound = bound.SubEpsilon()
		}
		target := bound.Scale(rational.One().Div(c))
		if c.IsPositive() {
			return e.pushUB(x, target, reason)
		}
		return e.pushLB(x, target, reason)
	default:
		residual := expr.Clone()
		residual.SetConstant(rational.Zero())
		s := e.NewVar(residual)
		bound := rational.FromRational(k.Neg())
		if strict {
			bound = bound.SubEpsilon()
		}
		return e.pushUB(s, bound, reason)
	}
}

// assertEq normalizes lhs = rhs into a pair of non-strict bound pushes:
// both push_lb and push_ub on the same residual, which collapses to the
// single value's lb/ub when the residual has zero or one term.
func (e *Engine) assertEq(lhs, rhs linexpr.Expr, reason Reason) bool {
	diff := lhs.Sub(rhs)
	expr := e.substituteBasics(diff)
	terms := expr.Terms()
	k := expr.Constant()

	switch len(terms) {
	case 0:
		if k.IsZero() {
			return true
		}
		e.conflict = []Reason{reason}
		return false
	case 1:
		c := terms[0].Coeff
		x := terms[0].Var
		target := rational.FromRational(k.Neg()).Scale(rational.One().Div(c))
		if !e.pushLB(x, target, reason) {
			return false
		}
		return e.pushUB(x, target, reason)
	default:
		residual := expr.Clone()
		residual.SetConstant(rational.Zero())
		s := e.NewVar(residual)
		target := rational.FromRational(k.Neg())
		if !e.pushLB(s, target, reason) {
			return false
		}
		return e.pushUB(s, target, reason)
	}
}

// pushLB pushes a lower bound and performs the non-basic value propagation
// step when the push raises the effective bound above the variable's
// current value.
func (e *Engine) pushLB(x linexpr.VarID, v rational.Delta, reason Reason) bool {
	raised, err := e.reg.PushLB(x, v, reason)
	if err != nil {
		e.conflict = err.(*BoundConflictError).Reasons
		return false
	}
	if raised && !e.tab.IsBasic(x) && e.reg.Value(x).Cmp(v) < 0 {
		e.update(x, v)
	}
	return true
}

// pushUB is the symmetric counterpart of pushLB.
func (e *Engine) pushUB(x linexpr.VarID, v rational.Delta, reason Reason) bool {
	lowered, err := e.reg.PushUB(x, v, reason)
	if err != nil {
		e.conflict = err.(*BoundConflictError).Reasons
		return false
	}
	if lowered && !e.tab.IsBasic(x) && e.reg.Value(x).Cmp(v) > 0 {
		e.update(x, v)
	}
	return true
}

// update sets non-basic x's value to v and propagates the delta into every
// basic row watching x — the same delta-propagation step pivotAndUpdate
// performs, shared by both call sites.
func (e *Engine) update(x linexpr.VarID, v rational.Delta) {
	old := e.reg.Value(x)
	delta := v.Sub(old)
	for _, b := range e.tab.Watchers(x) {
		coef := e.tab.RowOf(b).Coefficient(x)
		e.reg.SetValue(b, e.reg.Value(b).Add(delta.Scale(coef)))
	}
	e.reg.SetValue(x, v)
}
