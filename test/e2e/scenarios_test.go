// Package e2e_test exercises six concrete end-to-end solving scenarios
// entirely through the public pkg/lra API — no internal package is
// imported here, driving the system only through its external surface.
package e2e_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lra-engine/solver/pkg/lra"
)

var _ = Describe("single-variable equality", func() {
	It("solves 2x+3 = 7 to x = 2", func() {
		s := lra.New()
		x := s.Fresh(lra.NegInf(), lra.PosInf())

		r := lra.NewReason()
		ok := s.NewEq(lra.Var(x).Scale(lra.Rat(2, 1)).Add(lra.Const(lra.Rat(3, 1))), lra.Const(lra.Rat(7, 1)), r)
		Expect(ok).To(BeTrue())
		Expect(s.Check()).To(BeTrue())

		two := lra.Rat(2, 1)
		Expect(s.LB(x).Equal(two)).To(BeTrue())
		Expect(s.UB(x).Equal(two)).To(BeTrue())
		Expect(s.Value(x).Equal(two)).To(BeTrue())
	})
})

var _ = Describe("infeasible conjunction", func() {
	It("detects infeasibility across two slacks", func() {
		s := lra.New()
		x := s.Fresh(lra.NegInf(), lra.PosInf())
		y := s.Fresh(lra.NegInf(), lra.PosInf())

		s1 := s.NewVar(lra.Var(y).Sub(lra.Var(x)))
		s2 := s.NewVar(lra.Var(x).Add(lra.Var(y)))

		Expect(s.NewLT(lra.Var(x), lra.Const(lra.Rat(-4, 1)), false, lra.NewReason())).To(BeTrue())
		Expect(s.NewGT(lra.Var(x), lra.Const(lra.Rat(-8, 1)), false, lra.NewReason())).To(BeTrue())
		Expect(s.NewLT(lra.Var(s1), lra.Const(lra.Rat(1, 1)), false, lra.NewReason())).To(BeTrue())
		Expect(s.NewGT(lra.Var(s2), lra.Const(lra.Rat(-3, 1)), false, lra.NewReason())).To(BeTrue())

		Expect(s.Check()).To(BeFalse())
	})
})

var _ = Describe("shared reason retraction", func() {
	It("restores unbounded lb/ub after retracting the justifying reason", func() {
		s := lra.New()
		x := s.Fresh(lra.NegInf(), lra.PosInf())
		c := lra.NewReason()

		Expect(s.NewGT(lra.Var(x), lra.Const(lra.Rat(0, 1)), false, c)).To(BeTrue())
		Expect(s.NewGT(lra.Var(x), lra.Const(lra.Rat(1, 1)), false, c)).To(BeTrue())

		s.Retract(c)

		Expect(s.LB(x).Equal(lra.NegInf())).To(BeTrue())
		Expect(s.UB(x).Equal(lra.PosInf())).To(BeTrue())
	})
})

var _ = Describe("transitive infeasibility becomes feasible after retraction", func() {
	It("detects the cycle, then clears it once c0 is retracted", func() {
		s := lra.New()
		x := s.Fresh(lra.NegInf(), lra.PosInf())
		y := s.Fresh(lra.NegInf(), lra.PosInf())
		z := s.Fresh(lra.NegInf(), lra.PosInf())

		c0 := lra.NewReason()
		c1 := lra.NewReason()
		c2 := lra.NewReason()

		Expect(s.NewGT(lra.Var(y), lra.Var(x).Add(lra.Const(lra.Rat(1, 1))), false, c0)).To(BeTrue())
		Expect(s.NewGT(lra.Var(z), lra.Var(y).Add(lra.Const(lra.Rat(1, 1))), false, c1)).To(BeTrue())
		Expect(s.Check()).To(BeTrue())

		Expect(s.NewGT(lra.Var(x), lra.Var(z).Add(lra.Const(lra.Rat(1, 1))), false, c2)).To(BeTrue())
		Expect(s.Check()).To(BeFalse())

		s.Retract(c0)
		Expect(s.Check()).To(BeTrue())
	})
})

var _ = Describe("conflict minimality", func() {
	It("produces a two-element conflict excluding the uninvolved reason", func() {
		s := lra.New()
		x := s.Fresh(lra.NegInf(), lra.PosInf())
		y := s.Fresh(lra.NegInf(), lra.PosInf())

		c0 := lra.NewReason()
		c1 := lra.NewReason()
		c2 := lra.NewReason()

		Expect(s.NewGT(lra.Var(x).Add(lra.Var(y)), lra.Const(lra.Rat(1, 1)), false, c0)).To(BeTrue())
		Expect(s.NewGT(lra.Var(x), lra.Const(lra.Rat(2, 1)), false, c1)).To(BeTrue())
		Expect(s.Check()).To(BeTrue())

		Expect(s.NewLT(lra.Var(x).Add(lra.Var(y)), lra.Const(lra.Rat(0, 1)), false, c2)).To(BeTrue())
		Expect(s.Check()).To(BeFalse())
		Expect(s.ConflictReasons()).To(ConsistOf(c0, c2))
	})
})

var _ = Describe("strict inequality via infinitesimal", func() {
	It("rejects x = 1 once x < 1 has pushed ub to 1-eps", func() {
		s := lra.New()
		x := s.Fresh(lra.NegInf(), lra.PosInf())

		Expect(s.NewLT(lra.Var(x), lra.Const(lra.Rat(1, 1)), true, lra.NewReason())).To(BeTrue())
		ok := s.NewEq(lra.Var(x), lra.Const(lra.Rat(1, 1)), lra.NewReason())
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("boundary tests", func() {
	It("treats 0 < 0 as infeasible but 0 <= 0 and 0 = 0 as trivially satisfied", func() {
		s := lra.New()
		zero := lra.Const(lra.Rat(0, 1))

		Expect(s.NewLT(zero, zero, true, lra.NewReason())).To(BeFalse())
		Expect(s.NewLT(zero, zero, false, lra.NewReason())).To(BeTrue())
		Expect(s.NewEq(zero, zero, lra.NewReason())).To(BeTrue())
	})

	It("reuses the same slack id for syntactically identical composite expressions", func() {
		s := lra.New()
		x := s.Fresh(lra.NegInf(), lra.PosInf())
		y := s.Fresh(lra.NegInf(), lra.PosInf())

		s1 := s.NewVar(lra.Var(x).Sub(lra.Var(y)))
		s2 := s.NewVar(lra.Var(x).Sub(lra.Var(y)))
		Expect(s1).To(Equal(s2))
	})
})

var _ = Describe("invariants", func() {
	It("keeps every variable's value within its bounds after a satisfiable check", func() {
		s := lra.New()
		x := s.Fresh(lra.Rat(0, 1), lra.Rat(10, 1))
		y := s.Fresh(lra.Rat(0, 1), lra.Rat(10, 1))

		Expect(s.NewGT(lra.Var(x).Add(lra.Var(y)), lra.Const(lra.Rat(3, 1)), false, lra.NewReason())).To(BeTrue())
		Expect(s.Check()).To(BeTrue())

		for _, id := range []lra.VarID{x, y} {
			lb, ub, val := s.LB(id), s.UB(id), s.Value(id)
			Expect(val.Cmp(lb)).To(BeNumerically(">=", 0))
			Expect(val.Cmp(ub)).To(BeNumerically("<=", 0))
		}
	})
})
