package engine

import (
	"github.com/lra-engine/solver/internal/linexpr"
	"github.com/lra-engine/solver/internal/rational"
)

// Tableau holds the basic-variable rows and the reverse-watch index:
// row[b] is the expression basic variable b is currently defined by in
// terms of non-basics, and watches[v] is the set of basic variables whose
// row mentions non-basic v with a nonzero coefficient. The watches index
// is what keeps Pivot proportional to |watchers(n)| * row-width instead of
// the whole tableau.
type Tableau struct {
	rows    map[linexpr.VarID]linexpr.Expr
	watches map[linexpr.VarID]map[linexpr.VarID]struct{}
}

// NewTableau returns an empty tableau (every variable starts non-basic).
func NewTableau() *Tableau {
	return &Tableau{
		rows:    make(map[linexpr.VarID]linexpr.Expr),
		watches: make(map[linexpr.VarID]map[linexpr.VarID]struct{}),
	}
}

// IsBasic reports whether v is currently a basic variable (a row key).
func (t *Tableau) IsBasic(v linexpr.VarID) bool {
	_, ok := t.rows[v]
	return ok
}

// RowOf returns the defining row of basic variable b. Panics if b is
// non-basic: these low-level tableau operations treat precondition
// violations as programming errors, not recoverable failures.
func (t *Tableau) RowOf(b linexpr.VarID) linexpr.Expr {
	row, ok := t.rows[b]
	if !ok {
		panic("engine: RowOf on non-basic variable")
	}
	return row
}

// Watchers returns the set of basic variables whose row currently mentions
// v with a nonzero coefficient.
func (t *Tableau) Watchers(v linexpr.VarID) []linexpr.VarID {
	set := t.watches[v]
	out := make([]linexpr.VarID, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	return out
}

func (t *Tableau) watch(b linexpr.VarID, e linexpr.Expr) {
	for _, term := range e.Terms() {
		if t.watches[term.Var] == nil {
			t.watches[term.Var] = make(map[linexpr.VarID]struct{})
		}
		t.watches[term.Var][b] = struct{}{}
	}
}

func (t *Tableau) unwatch(b linexpr.VarID, e linexpr.Expr) {
	for _, term := range e.Terms() {
		set := t.watches[term.Var]
		delete(set, b)
		if len(set) == 0 {
			delete(t.watches, term.Var)
		}
	}
}

func (t *Tableau) setRow(b linexpr.VarID, e linexpr.Expr) {
	if old, ok := t.rows[b]; ok {
		t.unwatch(b, old)
	}
	t.rows[b] = e
	t.watch(b, e)
}

// InstallRow installs e as b's defining row, requiring b be non-basic and e
// carry no constant term — the constant is expected to have already
// migrated into the slack's bounds by the assertion front-end.
func (t *Tableau) InstallRow(b linexpr.VarID, e linexpr.Expr) {
	if t.IsBasic(b) {
		panic("engine: InstallRow on already-basic variable")
	}
	if !e.Constant().IsZero() {
		panic("engine: InstallRow with nonzero constant term")
	}
	t.setRow(b, e)
}

// Pivot swaps the basic/non-basic roles of b and n: requires b basic, n
// non-basic with a nonzero coefficient in row[b]. Rewrites row[b] solved
// for n, substitutes into every other row watching n, then installs the
// rewritten row keyed by n and deletes b's old row.
func (t *Tableau) Pivot(b, n linexpr.VarID) {
	row, ok := t.rows[b]
	if !ok {
		panic("engine: Pivot requires b basic")
	}
	coef := row.Coefficient(n)
	if coef.IsZero() {
		panic("engine: Pivot requires n present in row[b] with nonzero coefficient")
	}

	// Step 1: n = (1/coef)*b - sum_{i != n} (c_i/coef) x_i
	inv := rational.One().Div(coef)
	solved := linexpr.Zero()
	solved.SetTerm(b, inv)
	for _, term := range row.Terms() {
		if term.Var == n {
			continue
		}
		solved.SetTerm(term.Var, term.Coeff.Neg().Mul(inv))
	}

	// Step 2: substitute into every other row watching n. Snapshot first:
	// setRow below mutates t.watches[n] as a side effect of unwatch/watch.
	watchers := t.Watchers(n)
	for _, r := range watchers {
		if r == b {
			continue
		}
		t.setRow(r, t.rows[r].Substitute(n, solved))
	}

	// Step 3: delete row[b], install the new row keyed by n.
	t.unwatch(b, row)
	delete(t.rows, b)
	t.setRow(n, solved)
}
