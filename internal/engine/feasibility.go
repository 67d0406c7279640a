package engine

import (
	"github.com/lra-engine/solver/internal/linexpr"
	"github.com/lra-engine/solver/internal/rational"
)

// direction is which way a violating basic variable needs to move to reach
// its bound.
type direction int8

const (
	increase direction = 1
	decrease direction = -1
)

// checkLoop restores full feasibility (every basic variable's computed
// value lies within its bounds, given that every non-basic's already
// does) by repeatedly pivoting a violating basic into bounds. Returns
// true with the tableau left in a model-bearing state, or false with
// e.conflict populated with a bound-following certificate. Check wraps
// this with tracing.
func (e *Engine) checkLoop() bool {
	for {
		b, dir, ok := e.findViolatingBasic()
		if !ok {
			e.conflict = nil
			return true
		}
		row := e.tab.RowOf(b)
		n, coefN, found := e.findPivotPartner(row, dir)
		if !found {
			e.conflict = e.buildConflict(b, row, dir)
			return false
		}
		var target rational.Delta
		if dir == increase {
			target = e.reg.LB(b)
		} else {
			target = e.reg.UB(b)
		}
		e.pivotAndUpdate(b, n, coefN, target)
		e.tracer.Pivot(b, n)
	}
}

// findViolatingBasic scans basic variables in ascending VarID order (Bland's
// rule's row-selection half) for the first whose value violates its bounds.
func (e *Engine) findViolatingBasic() (b linexpr.VarID, dir direction, ok bool) {
	n := e.reg.Len()
	for id := linexpr.VarID(1); int(id) <= n; id++ {
		if !e.tab.IsBasic(id) {
			continue
		}
		v := e.reg.Value(id)
		if v.Cmp(e.reg.LB(id)) < 0 {
			return id, increase, true
		}
		if v.Cmp(e.reg.UB(id)) > 0 {
			return id, decrease, true
		}
	}
	return 0, 0, false
}

// findPivotPartner scans row's terms in ascending VarID order (Bland's
// rule's column-selection half) for a non-basic that admits motion in dir
// for the basic variable the row defines.
func (e *Engine) findPivotPartner(row linexpr.Expr, dir direction) (linexpr.VarID, rational.Rational, bool) {
	for _, term := range row.Terms() {
		x := term.Var
		c := term.Coeff
		admits := false
		if dir == increase {
			admits = (c.IsPositive() && e.reg.Value(x).Cmp(e.reg.UB(x)) < 0) ||
				(c.IsNegative() && e.reg.Value(x).Cmp(e.reg.LB(x)) > 0)
		} else {
			admits = (c.IsPositive() && e.reg.Value(x).Cmp(e.reg.LB(x)) > 0) ||
				(c.IsNegative() && e.reg.Value(x).Cmp(e.reg.UB(x)) < 0)
		}
		if admits {
			return x, c, true
		}
	}
	return 0, rational.Rational{}, false
}

// buildConflict assembles a bound-following infeasibility certificate: the
// reasons for b's violated bound, plus the reasons for the blocking bound
// of every non-basic in b's row, deduplicated.
func (e *Engine) buildConflict(b linexpr.VarID, row linexpr.Expr, dir direction) []Reason {
	seen := make(map[Reason]struct{})
	add := func(reasons []Reason) {
		for _, r := range reasons {
			seen[r] = struct{}{}
		}
	}
	if dir == increase {
		add(e.reg.ReasonsForLB(b))
	} else {
		add(e.reg.ReasonsForUB(b))
	}
	for _, term := range row.Terms() {
		x := term.Var
		c := term.Coeff
		blockedAtUpper := (dir == increase && c.IsPositive()) || (dir == decrease && c.IsNegative())
		if blockedAtUpper {
			add(e.reg.ReasonsForUB(x))
		} else {
			add(e.reg.ReasonsForLB(x))
		}
	}
	out := make([]Reason, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	return out
}

// pivotAndUpdate moves b to target by driving non-basic n: adjusts n's
// value by the delta needed for b to reach target, propagates that delta
// into every other row watching n, sets b's value to target exactly, then
// performs the structural pivot.
func (e *Engine) pivotAndUpdate(b, n linexpr.VarID, coefN rational.Rational, target rational.Delta) {
	inv := rational.One().Div(coefN)
	delta := target.Sub(e.reg.Value(b)).Scale(inv)
	newN := e.reg.Value(n).Add(delta)

	for _, watcher := range e.tab.Watchers(n) {
		if watcher == b {
			continue
		}
		c := e.tab.RowOf(watcher).Coefficient(n)
		e.reg.SetValue(watcher, e.reg.Value(watcher).Add(delta.Scale(c)))
	}
	e.reg.SetValue(n, newN)
	e.reg.SetValue(b, target)
	e.tab.Pivot(b, n)
}
