package lra

import (
	"sync/atomic"

	"github.com/lra-engine/solver/internal/engine"
)

// Reason is the opaque constraint-identity handle a host attaches to every
// assertion. The Solver stores only this value, never
// a pointer back to whatever the host's reason denotes, and the host
// retains ownership of its meaning and lifetime: it must not consider a
// constraint gone until it calls Retract with the same Reason, or destroys
// the Solver outright.
type Reason uint64

// UnjustifiedReason is the sentinel recorded for a variable's initial
// bounds when it is created with Fresh. NewReason never returns it and
// Retract ignores it, which is what makes the initial bounds "sticky"
// across any retraction. It can appear in a conflict when an initial bound
// takes part in the contradiction.
const UnjustifiedReason Reason = Reason(engine.Unjustified)

var reasonCounter uint64

// NewReason returns a fresh, process-wide-unique Reason. It is offered as a
// convenience for hosts with no identity scheme of their own; using it is
// never required; a host may equally mint its own uint64s; a Reason
// returned from here is always nonzero, so it is never UnjustifiedReason.
func NewReason() Reason {
	return Reason(atomic.AddUint64(&reasonCounter, 1))
}
