// Package simulation follows single paths through a state space without exploring it.
//
// It is useful for debugging models: a random walk shows a typical behaviour,
// and a replay reproduces the trace exported by a counterexample.
package simulation

import (
	"math/rand"

	"usure/checking"
	"usure/state"
)

// Walk randomly from initial.
//
// In every step a transition is picked uniformly from the distinct enabled transitions.
// Transitions with the same label and the same successor are counted once.
// The walk stops in a terminal state or after maxLen steps.
// The same seed always produces the same walk.
func RandomWalk[S state.State[S]](initial S, seed int64, maxLen int) checking.Trace[S] {
	rng := rand.New(rand.NewSource(seed))
	trace := checking.Trace[S]{Initial: initial, Steps: []checking.Step[S]{}}

	current := initial
	for len(trace.Steps) < maxLen {
		enabled := distinct(current.Transitions())
		if len(enabled) == 0 {
			break
		}
		t := enabled[rng.Intn(len(enabled))]
		trace.Steps = append(trace.Steps, checking.Step[S]{Label: t.Label, State: t.Next})
		current = t.Next
	}
	return trace
}

// The transitions in their original order with duplicates removed
func distinct[S state.State[S]](transitions []state.Transition[S]) []state.Transition[S] {
	type key struct{ label, next string }
	seen := map[key]bool{}
	out := make([]state.Transition[S], 0, len(transitions))
	for _, t := range transitions {
		k := key{t.Label, t.Next.Key()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}
