package checking

import (
	"fmt"

	"usure/state"
)

// The reason a state was found unsafe
type Kind int

const (
	// The model's own safety predicate returned false
	SafetyViolation Kind = iota
	// A configured invariant returned false
	InvariantViolation
	// The state has no enabled transitions and deadlocks are checked
	DeadlockViolation
)

func (k Kind) String() string {
	switch k {
	case SafetyViolation:
		return "safety"
	case InvariantViolation:
		return "invariant"
	case DeadlockViolation:
		return "deadlock"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Describes why a state is in the unsafe set
type Violation struct {
	Kind Kind
	// Name of the failing invariant. Empty unless Kind is InvariantViolation.
	Invariant string
}

func (v Violation) String() string {
	if v.Kind == InvariantViolation {
		return fmt.Sprintf("invariant %q violated", v.Invariant)
	}
	return fmt.Sprintf("%v violated", v.Kind)
}

// Evaluate the safety of s.
//
// The model's IsSafe is checked first, then the invariants in order.
// Returns the first violation found and true, or false if the state is safe.
func Evaluate[S state.State[S]](s S, invariants []Invariant[S]) (Violation, bool) {
	if !s.IsSafe() {
		return Violation{Kind: SafetyViolation}, true
	}
	for _, inv := range invariants {
		if !inv.Holds(s) {
			return Violation{Kind: InvariantViolation, Invariant: inv.Name}, true
		}
	}
	return Violation{}, false
}
