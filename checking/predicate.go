package checking

import (
	"strings"

	"usure/state"
)

// A named predicate that must hold in every reachable state
type Invariant[S any] struct {
	Name  string
	Holds func(S) bool
}

// Create an invariant from a predicate
func NewInvariant[S any](name string, holds func(S) bool) Invariant[S] {
	return Invariant[S]{Name: name, Holds: holds}
}

// Check that the invariant holds in terminal states.
//
// Returns an invariant that evaluates the provided one only when no action is enabled.
// Non-terminal states always satisfy it.
func AtTerminal[S state.State[S]](inv Invariant[S]) Invariant[S] {
	return Invariant[S]{
		Name: "terminal: " + inv.Name,
		Holds: func(s S) bool {
			if !state.IsTerminal(s) {
				return true
			}
			return inv.Holds(s)
		},
	}
}

func Not[S any](inv Invariant[S]) Invariant[S] {
	return Invariant[S]{
		Name:  "not " + inv.Name,
		Holds: func(s S) bool { return !inv.Holds(s) },
	}
}

// Combine the invariants into one that holds if all of them hold
func All[S any](invariants ...Invariant[S]) Invariant[S] {
	names := make([]string, 0, len(invariants))
	for _, inv := range invariants {
		names = append(names, inv.Name)
	}
	return Invariant[S]{
		Name: strings.Join(names, " and "),
		Holds: func(s S) bool {
			for _, inv := range invariants {
				if !inv.Holds(s) {
					return false
				}
			}
			return true
		},
	}
}
