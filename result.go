package usure

import (
	"fmt"

	"usure/checking"
	"usure/explorer"
	"usure/graph"
	"usure/state"
)

// The verdict of a check
type Outcome int

const (
	// Every reachable state was explored and all of them are safe
	Safe Outcome = iota
	// At least one explored state is unsafe
	Unsafe
	// A limit stopped the exploration before any unsafe state was found
	Truncated
)

func (o Outcome) String() string {
	switch o {
	case Safe:
		return "safe"
	case Unsafe:
		return "unsafe"
	case Truncated:
		return "truncated"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// The result of a check.
//
// Implements checking.CheckerResponse.
type Result[S state.State[S]] struct {
	Outcome Outcome
	// The explored part of the state space. Node 0 is the initial state.
	Graph *graph.Graph[S]
	// Every unsafe state found, ordered by id
	Unsafe []explorer.Finding
	// Every explored state without enabled transitions, ordered by id
	Deadlocks []int
	// The shortest trace to an unsafe state. nil unless Outcome is Unsafe.
	Counterexample *checking.Counterexample[S]
	Stats          explorer.Stats
}

func newResult[S state.State[S]](e *explorer.Exploration[S]) *Result[S] {
	res := &Result[S]{
		Outcome:   Safe,
		Graph:     e.Graph,
		Unsafe:    e.Unsafe,
		Deadlocks: e.Deadlocks,
		Stats:     e.Stats,
	}
	switch {
	case len(e.Unsafe) > 0:
		res.Outcome = Unsafe
	case e.Stats.Truncated:
		res.Outcome = Truncated
	}
	return res
}

// The unsafe states, in the order of their ids
func (r *Result[S]) UnsafeStates() []S {
	out := make([]S, 0, len(r.Unsafe))
	for _, f := range r.Unsafe {
		out = append(out, r.Graph.Node(f.ID))
	}
	return out
}

func (r *Result[S]) Response() (bool, string) {
	switch r.Outcome {
	case Unsafe:
		ok, out := r.Counterexample.Response()
		if r.Stats.Truncated {
			out += fmt.Sprintf("The state space was not explored completely: %v\n", r.Stats.Reason)
		}
		return ok, out
	case Truncated:
		return true, fmt.Sprintf("No violation found in %v states. The state space was not explored completely: %v\n", r.Stats.States, r.Stats.Reason)
	default:
		return true, fmt.Sprintf("All %v reachable states are safe\n", r.Stats.States)
	}
}

// The labels of the counterexample. Empty if no state is unsafe.
func (r *Result[S]) Export() []string {
	if r.Counterexample == nil {
		return []string{}
	}
	return r.Counterexample.Export()
}
