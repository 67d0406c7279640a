// Package linexpr implements the sparse linear-expression algebra the engine
// builds constraints and tableau rows from: a sum of rational coefficients
// over variable ids plus a constant term.
package linexpr

import (
	"sort"
	"strings"

	"github.com/lra-engine/solver/internal/rational"
)

// VarID identifies a variable known to the engine's registry, original or
// slack. Zero is never a valid id (the registry's Fresh starts counting at 1)
// so a zero VarID can double as a "no variable" sentinel where needed.
type VarID uint32

// Expr is a sparse linear expression sum(c_i * x_i) + k over exact rational
// coefficients. The zero value is the zero expression. Expr is not safe for
// concurrent use, matching the engine's single-threaded contract.
type Expr struct {
	terms map[VarID]rational.Rational
	k     rational.Rational
	kSet  bool
}

// Zero returns the empty expression (constant 0).
func Zero() Expr {
	return Expr{k: rational.Zero(), kSet: true}
}

// Const returns the constant expression k.
func Const(k rational.Rational) Expr {
	return Expr{k: k, kSet: true}
}

// Term returns the single-variable expression c*x.
func Term(v VarID, c rational.Rational) Expr {
	e := Zero()
	e.SetTerm(v, c)
	return e
}

func (e *Expr) ensure() {
	if e.terms == nil {
		e.terms = make(map[VarID]rational.Rational)
	}
	if e.kSet == false {
		e.k = rational.Zero()
		e.kSet = true
	}
}

// Constant returns the expression's constant term. The Expr zero value (as
// produced by `var e Expr` rather than Zero()) has no constant set yet; this
// reports it as rational.Zero() without requiring every caller to construct
// through Zero().
func (e Expr) Constant() rational.Rational {
	if !e.kSet {
		return rational.Zero()
	}
	return e.k
}

// Coefficient returns the coefficient of v, or zero if v has no term.
func (e Expr) Coefficient(v VarID) rational.Rational {
	if e.terms == nil {
		return rational.Zero()
	}
	c, ok := e.terms[v]
	if !ok {
		return rational.Zero()
	}
	return c
}

// SetTerm sets the coefficient of v to c, removing the term entirely when c
// is zero so Support() and Terms() never report spurious zero entries.
func (e *Expr) SetTerm(v VarID, c rational.Rational) {
	e.ensure()
	if c.IsZero() {
		delete(e.terms, v)
		return
	}
	e.terms[v] = c
}

// RemoveTerm deletes v's term, if any.
func (e *Expr) RemoveTerm(v VarID) {
	if e.terms == nil {
		return
	}
	delete(e.terms, v)
}

// SetConstant overwrites the constant term.
func (e *Expr) SetConstant(k rational.Rational) {
	e.k = k
	e.kSet = true
}

// Support returns the set of variable ids with a nonzero coefficient, sorted
// ascending. Sorted order is load-bearing: the feasibility engine's Bland's
// rule pivot selection iterates a row's terms in ascending VarID order to
// find the lowest-indexed blocking variable.
func (e Expr) Support() []VarID {
	ids := make([]VarID, 0, len(e.terms))
	for v := range e.terms {
		ids = append(ids, v)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TermEntry is a single (variable, coefficient) pair, used by Terms().
type TermEntry struct {
	Var VarID
	Coeff rational.Rational
}

// Terms returns the expression's nonzero terms sorted ascending by VarID.
func (e Expr) Terms() []TermEntry {
	ids := e.Support()
	out := make([]TermEntry, 0, len(ids))
	for _, v := range ids {
		out = append(out, TermEntry{Var: v, Coeff: e.terms[v]})
	}
	return out
}

// IsZero reports whether e is identically zero: no terms and a zero constant.
func (e Expr) IsZero() bool {
	return len(e.terms) == 0 && e.Constant().IsZero()
}

// Clone returns an independent deep copy of e.
func (e Expr) Clone() Expr {
	out := Expr{k: e.Constant(), kSet: true, terms: make(map[VarID]rational.Rational, len(e.terms))}
	for v, c := range e.terms {
		out.terms[v] = c
	}
	return out
}

// Add returns e + other as a new expression; e and other are unmodified.
func (e Expr) Add(other Expr) Expr {
	out := e.Clone()
	out.SetConstant(out.Constant().Add(other.Constant()))
	for v, c := range other.terms {
		out.SetTerm(v, out.Coefficient(v).Add(c))
	}
	return out
}

// Sub returns e - other as a new expression.
func (e Expr) Sub(other Expr) Expr {
	return e.Add(other.Scale(rational.New(-1, 1)))
}

// Scale returns c*e as a new expression.
func (e Expr) Scale(c rational.Rational) Expr {
	out := Zero()
	out.SetConstant(e.Constant().Mul(c))
	if c.IsZero() {
		return out
	}
	for v, coeff := range e.terms {
		out.SetTerm(v, coeff.Mul(c))
	}
	return out
}

// Substitute replaces v's term (if any) with c_v * sub, returning the
// resulting expression. Used by the tableau to rewrite a row when its
// outgoing basic variable is eliminated during a pivot, and by the
// assertion front-end when normalizing a composite constraint expression
// against currently-basic variables.
func (e Expr) Substitute(v VarID, sub Expr) Expr {
	c := e.Coefficient(v)
	if c.IsZero() {
		return e.Clone()
	}
	out := e.Clone()
	out.RemoveTerm(v)
	return out.Add(sub.Scale(c))
}

// Canonical renders e as a syntactic normal form string: terms sorted
// ascending by VarID as "c@v", joined by "+", with the constant always
// appended last. Two expressions with the same Canonical() string are
// guaranteed term-for-term identical; this is used only for slack-variable
// memoization and is deliberately NOT a semantic/bound-aware equality —
// "x+y" and "y+x" canonicalize the same, and so do "2x" and "x+x" (Add
// merges like terms), but "x+y" and "-x-y" do not.
func (e Expr) Canonical() string {
	var b strings.Builder
	for _, t := range e.Terms() {
		if b.Len() > 0 {
			b.WriteByte('+')
		}
		b.WriteString(t.Coeff.String())
		b.WriteByte('@')
		b.WriteString(formatVarID(t.Var))
	}
	if b.Len() > 0 {
		b.WriteByte('+')
	}
	b.WriteString(e.Constant().String())
	return b.String()
}

func formatVarID(v VarID) string {
	// VarIDs are small monotonically-assigned counters; decimal is sufficient
	// and keeps the canonical form human-readable in traces.
	const digits = "0123456789"
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v%10]
		v /= 10
	}
	return string(buf[i:])
}
