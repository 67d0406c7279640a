package engine

import (
	"sort"

	"github.com/lra-engine/solver/internal/linexpr"
	"github.com/lra-engine/solver/internal/rational"
)

// Reason identifies the external constraint responsible for a bound. It is
// an extrinsically-keyed handle: the registry stores only the uint64 id
// handed to it, never a pointer, and ownership of what it names stays with
// the caller.
type Reason uint64

// Unjustified is the sentinel reason recorded for a variable's initial
// bounds at fresh() time. It is sticky: Pop ignores it, so no retraction
// removes an initial bound. It can still appear in a conflict when an
// initial bound takes part in the contradiction.
const Unjustified Reason = 0

type boundEntry struct {
	v       rational.Delta
	reasons map[Reason]struct{}
}

// boundStack is an ascending-by-value slice of boundEntry, one entry per
// distinct bound value currently asserted, each carrying the set of reasons
// that assert it. Keeping per-value entries (rather than merging every push
// into a single "current effective bound" record) is what makes retraction
// correct: a weaker bound that is still independently justified must
// resurface as the effective bound when a stronger one is retracted, which
// a destructive merge-on-push would lose.
type boundStack struct {
	entries []boundEntry
}

func (s *boundStack) find(v rational.Delta) int {
	return sort.Search(len(s.entries), func(i int) bool { return s.entries[i].v.Cmp(v) >= 0 })
}

// push records reason as justifying bound value v, merging into an existing
// entry for the same exact value if present.
func (s *boundStack) push(v rational.Delta, reason Reason) {
	i := s.find(v)
	if i < len(s.entries) && s.entries[i].v.Equal(v) {
		s.entries[i].reasons[reason] = struct{}{}
		return
	}
	entry := boundEntry{v: v, reasons: map[Reason]struct{}{reason: {}}}
	s.entries = append(s.entries, boundEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = entry
}

// pop removes reason from every entry that mentions it, dropping entries
// whose reason set empties. The Unjustified reason is never passed in by
// Retract's caller-facing contract, so it is never removed this way.
func (s *boundStack) pop(reason Reason) {
	out := s.entries[:0]
	for _, e := range s.entries {
		delete(e.reasons, reason)
		if len(e.reasons) > 0 {
			out = append(out, e)
		}
	}
	s.entries = out
}

func (s *boundStack) empty() bool { return len(s.entries) == 0 }

// reasonsOf returns the reason set of the entry whose value is exactly v, or
// nil if there is none, used when assembling a conflict from the effective
// bound.
func (s *boundStack) reasonsOf(v rational.Delta) []Reason {
	i := s.find(v)
	if i >= len(s.entries) || !s.entries[i].v.Equal(v) {
		return nil
	}
	out := make([]Reason, 0, len(s.entries[i].reasons))
	for r := range s.entries[i].reasons {
		out = append(out, r)
	}
	return out
}

// variable is one registry record: value plus the lb/ub bound stacks.
type variable struct {
	value rational.Delta
	lb    boundStack
	ub    boundStack
}

// effectiveLB is the max of the lb stack, or -Inf if empty.
func (v *variable) effectiveLB() rational.Delta {
	if v.lb.empty() {
		return rational.NegInf()
	}
	return v.lb.entries[len(v.lb.entries)-1].v
}

// effectiveUB is the min of the ub stack, or +Inf if empty.
func (v *variable) effectiveUB() rational.Delta {
	if v.ub.empty() {
		return rational.PosInf()
	}
	return v.ub.entries[0].v
}

// BoundConflictError reports that a bound push was rejected because it
// would cross the opposing bound, carrying the reasons that justify the
// blocking bound alongside the rejected reason.
type BoundConflictError struct {
	Reasons []Reason
}

func (e *BoundConflictError) Error() string {
	return "engine: bound conflict"
}

// Registry is the variable store: dense VarID-indexed values and bound
// stacks. It has no notion of basic/non-basic or tableau rows; that split
// is Engine's responsibility, layered on top.
type Registry struct {
	vars []variable
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Fresh appends a new variable with initial bounds lb0/ub0 (rational.NegInf()
// / rational.PosInf() for unbounded), recorded as Unjustified, and an
// initial value of lb0 if finite, else ub0 if finite, else zero.
func (r *Registry) Fresh(lb0, ub0 rational.Delta) linexpr.VarID {
	if lb0.Cmp(ub0) > 0 {
		panic("engine: fresh variable with lb > ub")
	}
	v := variable{}
	v.lb.push(lb0, Unjustified)
	v.ub.push(ub0, Unjustified)
	switch {
	case !lb0.IsInf():
		v.value = lb0
	case !ub0.IsInf():
		v.value = ub0
	default:
		v.value = rational.FromRational(rational.Zero())
	}
	r.vars = append(r.vars, v)
	return linexpr.VarID(len(r.vars))
}

func (r *Registry) at(id linexpr.VarID) *variable {
	if id == 0 || int(id) > len(r.vars) {
		panic("engine: invalid variable id")
	}
	return &r.vars[id-1]
}

// Len returns the number of variables ever created.
func (r *Registry) Len() int { return len(r.vars) }

// LB returns the effective lower bound of id.
func (r *Registry) LB(id linexpr.VarID) rational.Delta { return r.at(id).effectiveLB() }

// UB returns the effective upper bound of id.
func (r *Registry) UB(id linexpr.VarID) rational.Delta { return r.at(id).effectiveUB() }

// Value returns the current candidate value of id.
func (r *Registry) Value(id linexpr.VarID) rational.Delta { return r.at(id).value }

// SetValue overwrites id's candidate value directly, with no bound checking
// or watcher propagation. Used by Engine's pivot_and_update and by the
// bound setters' own propagation step, which perform propagation themselves.
func (r *Registry) SetValue(id linexpr.VarID, v rational.Delta) { r.at(id).value = v }

// PushLB attempts to raise id's effective lower bound to v under reason.
// Returns raised=true if v becomes the new, strictly higher effective bound,
// which tells the caller whether non-basic value propagation is needed.
// Returns an error carrying the conflicting reasons if v exceeds ub[id].
func (r *Registry) PushLB(id linexpr.VarID, v rational.Delta, reason Reason) (raised bool, err error) {
	vr := r.at(id)
	cur := vr.effectiveLB()
	if v.Cmp(cur) <= 0 {
		vr.lb.push(v, reason)
		return false, nil
	}
	ub := vr.effectiveUB()
	if v.Cmp(ub) > 0 {
		reasons := append([]Reason{reason}, vr.ub.reasonsOf(ub)...)
		return false, &BoundConflictError{Reasons: reasons}
	}
	vr.lb.push(v, reason)
	return true, nil
}

// PushUB is the symmetric counterpart of PushLB.
func (r *Registry) PushUB(id linexpr.VarID, v rational.Delta, reason Reason) (lowered bool, err error) {
	vr := r.at(id)
	cur := vr.effectiveUB()
	if v.Cmp(cur) >= 0 {
		vr.ub.push(v, reason)
		return false, nil
	}
	lb := vr.effectiveLB()
	if v.Cmp(lb) < 0 {
		reasons := append([]Reason{reason}, vr.lb.reasonsOf(lb)...)
		return false, &BoundConflictError{Reasons: reasons}
	}
	vr.ub.push(v, reason)
	return true, nil
}

// Pop removes reason from id's lb and ub stacks, scoped here to one
// variable; Engine.Retract calls this over every variable that might
// reference the reason.
func (r *Registry) Pop(id linexpr.VarID, reason Reason) {
	vr := r.at(id)
	if reason == Unjustified {
		return
	}
	vr.lb.pop(reason)
	vr.ub.pop(reason)
}

// ReasonsForLB returns the reasons currently justifying id's effective lower
// bound.
func (r *Registry) ReasonsForLB(id linexpr.VarID) []Reason {
	vr := r.at(id)
	return vr.lb.reasonsOf(vr.effectiveLB())
}

// ReasonsForUB returns the reasons currently justifying id's effective upper
// bound.
func (r *Registry) ReasonsForUB(id linexpr.VarID) []Reason {
	vr := r.at(id)
	return vr.ub.reasonsOf(vr.effectiveUB())
}
