package usure

import (
	"github.com/rs/zerolog"

	"usure/checking"
	"usure/config"
	"usure/explorer"
)

type CheckOption interface {
	CheckOpt()
}

// Expand the most recently discovered state first.
//
// This is the default order unless MaxDepth is applied.
// Uses less memory than breadth-first search on deep state spaces.
// Cannot be combined with MaxDepth.
func DepthFirst() CheckOption {
	return config.OrderOption{Order: explorer.DepthFirst}
}

// Expand states in the order they were discovered.
//
// States are discovered at their shortest distance from the initial state,
// which makes MaxDepth exact.
func BreadthFirst() CheckOption {
	return config.OrderOption{Order: explorer.BreadthFirst}
}

// Stop admitting new states when n distinct states have been discovered.
//
// The outcome of a check that hits the limit is Truncated unless a violation was found.
// n must be positive.
func MaxStates(n int) CheckOption {
	return config.MaxStatesOption{MaxStates: n}
}

// Do not admit states that are first discovered more than n transitions away from the initial state.
//
// The states are explored in breadth-first order, so every state is discovered at its shortest distance
// and no state within n transitions is missed. Applying DepthFirst as well is an invalid option.
// n must be positive.
func MaxDepth(n int) CheckOption {
	return config.MaxDepthOption{MaxDepth: n}
}

// Expand states with n goroutines.
//
// The explored state space and the counterexample do not depend on the number of workers.
// Default value is 1. n must be positive.
func Workers(n int) CheckOption {
	return config.WorkersOption{N: n}
}

// Treat every reachable state without enabled transitions as unsafe.
func CheckDeadlock() CheckOption {
	return config.DeadlockOption{}
}

// Check the invariants in every reachable state in addition to the state's own safety predicate.
//
// Can be applied multiple times to add more invariants. Invariants are evaluated in the order they are added.
func WithInvariants[S any](invariants ...checking.Invariant[S]) CheckOption {
	return config.InvariantOption[S]{Invariants: invariants}
}

// Log progress of the check to logger.
func WithLogger(logger zerolog.Logger) CheckOption {
	return config.LoggerOption{Logger: logger}
}
