package engine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lra-engine/solver/internal/engine"
	"github.com/lra-engine/solver/internal/linexpr"
	"github.com/lra-engine/solver/internal/rational"
)

func r(n, d int64) rational.Rational { return rational.New(n, d) }

func v(id linexpr.VarID) linexpr.Expr { return linexpr.Term(id, r(1, 1)) }

func k(n int64) linexpr.Expr { return linexpr.Const(r(n, 1)) }

var _ = Describe("single-variable equality", func() {
	It("solves 2x+3 = 7 to x = 2", func() {
		e := engine.New(nil)
		x := e.Fresh(rational.NegInf(), rational.PosInf())

		lhs := v(x).Scale(r(2, 1)).Add(k(3))
		ok := e.NewEq(lhs, k(7), 1)
		Expect(ok).To(BeTrue())
		Expect(e.Check()).To(BeTrue())

		want := rational.FromRational(r(2, 1))
		Expect(e.LB(x).Equal(want)).To(BeTrue())
		Expect(e.UB(x).Equal(want)).To(BeTrue())
		Expect(e.Value(x).Equal(want)).To(BeTrue())
	})
})

var _ = Describe("infeasible conjunction", func() {
	It("detects infeasibility across two slacks", func() {
		e := engine.New(nil)
		x := e.Fresh(rational.NegInf(), rational.PosInf())
		y := e.Fresh(rational.NegInf(), rational.PosInf())
		s1 := e.NewVar(v(y).Sub(v(x)))
		s2 := e.NewVar(v(x).Add(v(y)))

		Expect(e.NewLT(v(x), k(-4), false, 1)).To(BeTrue())
		Expect(e.NewGT(v(x), k(-8), false, 2)).To(BeTrue())
		Expect(e.NewLT(v(s1), k(1), false, 3)).To(BeTrue())
		Expect(e.NewGT(v(s2), k(-3), false, 4)).To(BeTrue())

		Expect(e.Check()).To(BeFalse())
	})
})

var _ = Describe("shared reason retraction", func() {
	It("restores unbounded lb/ub after retracting the justifying reason", func() {
		e := engine.New(nil)
		x := e.Fresh(rational.NegInf(), rational.PosInf())

		Expect(e.NewGT(v(x), k(0), false, 7)).To(BeTrue())
		Expect(e.NewGT(v(x), k(1), false, 7)).To(BeTrue())

		e.Retract(7)

		Expect(e.LB(x).IsNegInf()).To(BeTrue())
		Expect(e.UB(x).IsPosInf()).To(BeTrue())
	})
})

var _ = Describe("transitive infeasibility becomes feasible after retraction", func() {
	It("recovers once the first link in the chain is retracted", func() {
		e := engine.New(nil)
		x := e.Fresh(rational.NegInf(), rational.PosInf())
		y := e.Fresh(rational.NegInf(), rational.PosInf())
		z := e.Fresh(rational.NegInf(), rational.PosInf())

		Expect(e.NewGT(v(y), v(x).Add(k(1)), false, 100)).To(BeTrue())
		Expect(e.NewGT(v(z), v(y).Add(k(1)), false, 101)).To(BeTrue())
		Expect(e.Check()).To(BeTrue())

		Expect(e.NewGT(v(x), v(z).Add(k(1)), false, 102)).To(BeTrue())
		Expect(e.Check()).To(BeFalse())

		e.Retract(100)
		Expect(e.Check()).To(BeTrue())
	})
})

var _ = Describe("conflict minimality", func() {
	It("excludes a reason not needed for the contradiction", func() {
		e := engine.New(nil)
		x := e.Fresh(rational.NegInf(), rational.PosInf())
		y := e.Fresh(rational.NegInf(), rational.PosInf())

		Expect(e.NewGT(v(x).Add(v(y)), k(1), false, 10)).To(BeTrue())
		Expect(e.NewGT(v(x), k(2), false, 11)).To(BeTrue())
		Expect(e.Check()).To(BeTrue())

		Expect(e.NewLT(v(x).Add(v(y)), k(0), false, 12)).To(BeTrue())
		Expect(e.Check()).To(BeFalse())

		Expect(e.Conflict()).To(ConsistOf(engine.Reason(10), engine.Reason(12)))
	})
})

var _ = Describe("strict inequality via infinitesimal", func() {
	It("rejects x = 1 after x < 1", func() {
		e := engine.New(nil)
		x := e.Fresh(rational.NegInf(), rational.PosInf())

		Expect(e.NewLT(v(x), k(1), true, 1)).To(BeTrue())
		Expect(e.NewEq(v(x), k(1), 2)).To(BeFalse())
	})
})

var _ = Describe("boundary tests", func() {
	It("0 < 0 fails, 0 <= 0 succeeds, 0 = 0 succeeds", func() {
		e := engine.New(nil)
		Expect(e.NewLT(k(0), k(0), true, 1)).To(BeFalse())

		e2 := engine.New(nil)
		Expect(e2.NewLT(k(0), k(0), false, 1)).To(BeTrue())

		e3 := engine.New(nil)
		Expect(e3.NewEq(k(0), k(0), 1)).To(BeTrue())
	})

	It("detects infeasibility through a three-variable transitive cycle", func() {
		e := engine.New(nil)
		x := e.Fresh(rational.NegInf(), rational.PosInf())
		y := e.Fresh(rational.NegInf(), rational.PosInf())
		z := e.Fresh(rational.NegInf(), rational.PosInf())

		Expect(e.NewGT(v(y), v(x).Add(k(1)), false, 1)).To(BeTrue())
		Expect(e.NewGT(v(z), v(y).Add(k(1)), false, 2)).To(BeTrue())
		Expect(e.NewGT(v(x), v(z).Add(k(1)), false, 3)).To(BeTrue())

		Expect(e.Check()).To(BeFalse())
	})

	It("reuses the slack for a repeated composite expression", func() {
		e := engine.New(nil)
		x := e.Fresh(rational.NegInf(), rational.PosInf())
		y := e.Fresh(rational.NegInf(), rational.PosInf())

		s1 := e.NewVar(v(x).Sub(v(y)))
		s2 := e.NewVar(v(x).Sub(v(y)))
		Expect(s1).To(Equal(s2))

		before := e.NumVars()
		_ = e.NewVar(v(x).Sub(v(y)))
		Expect(e.NumVars()).To(Equal(before))
	})
})

var _ = Describe("invariants", func() {
	It("keeps every variable within its bounds after a satisfiable check", func() {
		e := engine.New(nil)
		x := e.Fresh(r0(), r10())
		y := e.Fresh(r0(), r10())

		Expect(e.NewEq(v(x).Add(v(y)), k(5), 1)).To(BeTrue())
		Expect(e.Check()).To(BeTrue())

		Expect(e.Value(x).Cmp(e.LB(x))).To(BeNumerically(">=", 0))
		Expect(e.Value(x).Cmp(e.UB(x))).To(BeNumerically("<=", 0))
		Expect(e.Value(y).Cmp(e.LB(y))).To(BeNumerically(">=", 0))
		Expect(e.Value(y).Cmp(e.UB(y))).To(BeNumerically("<=", 0))
	})
})

func r0() rational.Delta  { return rational.FromRational(rational.Zero()) }
func r10() rational.Delta { return rational.FromRational(rational.New(10, 1)) }
