package lra_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lra-engine/solver/pkg/lra"
)

var _ = Describe("Solver", func() {
	It("solves a single-variable equality and reports the model", func() {
		s := lra.New()
		x := s.Fresh(lra.NegInf(), lra.PosInf())

		r := lra.NewReason()
		ok := s.NewEq(lra.Var(x).Scale(lra.Rat(2, 1)).Add(lra.Const(lra.Rat(3, 1))), lra.Const(lra.Rat(7, 1)), r)
		Expect(ok).To(BeTrue())
		Expect(s.Check()).To(BeTrue())
		Expect(s.Value(x).Equal(lra.Rat(2, 1))).To(BeTrue())
		Expect(s.Model()[x].Equal(lra.Rat(2, 1))).To(BeTrue())
	})

	It("reports a conflict and clears it after retraction", func() {
		s := lra.New()
		x := s.Fresh(lra.NegInf(), lra.PosInf())

		r1 := lra.NewReason()
		r2 := lra.NewReason()
		Expect(s.NewLT(lra.Var(x), lra.Const(lra.Rat(0, 1)), false, r1)).To(BeTrue())
		Expect(s.NewGT(lra.Var(x), lra.Const(lra.Rat(1, 1)), false, r2)).To(BeFalse())

		Expect(s.Conflict()).To(HaveOccurred())
		Expect(s.ConflictReasons()).To(ConsistOf(r1, r2))
		// The rejected bound was never recorded, so the state is feasible.
		Expect(s.Check()).To(BeTrue())

		s.Retract(r2)
		Expect(s.Check()).To(BeTrue())
		Expect(s.Conflict()).To(BeNil())
	})

	It("routes assertions, pivots, and infeasibility through a custom Tracer", func() {
		spy := &spyTracer{}
		s := lra.New(lra.WithTracer(spy))
		x := s.Fresh(lra.NegInf(), lra.PosInf())
		y := s.Fresh(lra.NegInf(), lra.PosInf())

		r1 := lra.NewReason()
		r2 := lra.NewReason()
		Expect(s.NewLT(lra.Var(x).Add(lra.Var(y)), lra.Const(lra.Rat(1, 1)), false, r1)).To(BeTrue())
		Expect(s.NewGT(lra.Var(x).Add(lra.Var(y)), lra.Const(lra.Rat(2, 1)), false, r2)).To(BeTrue())

		Expect(spy.asserts).To(HaveLen(2))
		Expect(s.Check()).To(BeFalse())
		Expect(spy.pivots).To(BeNumerically(">", 0))
		Expect(spy.infeasible).To(HaveLen(1))
	})

	It("rejects a self-contradictory 0-term assertion outright", func() {
		s := lra.New()
		r := lra.NewReason()
		ok := s.NewLT(lra.Const(lra.Rat(0, 1)), lra.Const(lra.Rat(0, 1)), true, r)
		Expect(ok).To(BeFalse())
	})
})

type spyTracer struct {
	asserts    []string
	pivots     int
	infeasible [][]lra.Reason
}

func (s *spyTracer) Assert(kind string, reason lra.Reason, ok bool) {
	s.asserts = append(s.asserts, kind)
}

func (s *spyTracer) Pivot(basic, nonBasic lra.VarID) {
	s.pivots++
}

func (s *spyTracer) Infeasible(conflict lra.Conflict) {
	s.infeasible = append(s.infeasible, []lra.Reason(conflict))
}
