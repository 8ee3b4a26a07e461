package state

import "strings"

// State is one immutable configuration of the system under check.
//
// Implementations must satisfy the following preconditions. They are not checked at runtime and
// violating them silently breaks deduplication:
//   - Transitions is finite and depends only on the fields of the state.
//   - IsSafe is total and free of side effects.
//   - Key is a canonical encoding of every field that distinguishes behaviourally different
//     configurations. Two states are equal iff their keys are equal.
type State[S any] interface {
	// All actions enabled in this state. An empty slice marks a terminal state.
	Transitions() []Transition[S]
	// True if the state satisfies the safety predicate of the model.
	IsSafe() bool
	// Canonical encoding of the state, used for equality, hashing and ordering.
	Key() string
}

// Compare orders two states by their canonical keys.
//
// Returns -1 if a sorts before b, 0 if they are equal and 1 otherwise.
// It is the total order used whenever a choice between equally good states has to be made.
func Compare[S State[S]](a, b S) int {
	return strings.Compare(a.Key(), b.Key())
}

// Equal reports whether the two states are the same configuration.
func Equal[S State[S]](a, b S) bool {
	return a.Key() == b.Key()
}

// IsTerminal reports whether no action is enabled in s.
func IsTerminal[S State[S]](s S) bool {
	return len(s.Transitions()) == 0
}
