package simulation

import (
	"errors"
	"fmt"

	"usure/checking"
	"usure/state"
)

var (
	ErrUnknownLabel   = errors.New("simulation: no enabled transition has the label")
	ErrAmbiguousLabel = errors.New("simulation: the label leads to more than one state")
	ErrUnknownStep    = errors.New("simulation: no enabled transition leads to the recorded state")
)

// Follow the transitions with the given labels from initial.
//
// Enabled transitions that share a label must lead to equal states.
// Returns ErrUnknownLabel or ErrAmbiguousLabel together with the trace replayed so far
// if a label is not enabled or does not determine the next state.
// Use Verify to replay a trace whose labels are ambiguous.
func Replay[S state.State[S]](initial S, labels []string) (checking.Trace[S], error) {
	trace := checking.Trace[S]{Initial: initial, Steps: make([]checking.Step[S], 0, len(labels))}

	current := initial
	for i, label := range labels {
		next, n := follow(current, label)
		switch {
		case n == 0:
			return trace, fmt.Errorf("%w: %q in step %d from %v", ErrUnknownLabel, label, i+1, current)
		case n > 1:
			return trace, fmt.Errorf("%w: %q in step %d from %v", ErrAmbiguousLabel, label, i+1, current)
		}
		trace.Steps = append(trace.Steps, checking.Step[S]{Label: label, State: next})
		current = next
	}
	return trace, nil
}

// The state reached by the transitions labeled label.
// n is 0 if no transition has the label, 1 if they all lead to equal states and 2 otherwise.
func follow[S state.State[S]](s S, label string) (next S, n int) {
	for _, t := range s.Transitions() {
		if t.Label != label {
			continue
		}
		switch {
		case n == 0:
			next, n = t.Next, 1
		case !state.Equal(t.Next, next):
			return next, 2
		}
	}
	return next, n
}

// Verify that every step of trace is an enabled transition of the state before it.
//
// The recorded state of each step decides between transitions that share a label,
// so a counterexample is always reproduced exactly.
// Returns ErrUnknownStep and the index of the first step that cannot be taken.
func Verify[S state.State[S]](trace checking.Trace[S]) (int, error) {
	current := trace.Initial
	for i, step := range trace.Steps {
		if !enabled(current, step) {
			return i, fmt.Errorf("%w: %q to %v in step %d from %v", ErrUnknownStep, step.Label, step.State, i+1, current)
		}
		current = step.State
	}
	return len(trace.Steps), nil
}

func enabled[S state.State[S]](s S, step checking.Step[S]) bool {
	for _, t := range s.Transitions() {
		if t.Label == step.Label && state.Equal(t.Next, step.State) {
			return true
		}
	}
	return false
}
