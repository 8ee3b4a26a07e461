package checking

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// CheckerResponse is a response returned after checking a model
//
// Contains the result of checking the system.
type CheckerResponse interface {
	// Create a response.
	//
	// Returns a boolean that is true if all properties hold, false otherwise.
	// Returns a string describing the response.
	// This includes a description of the violated property and the trace which caused it to be violated.
	Response() (bool, string)

	// Export the trace which caused a property to be violated
	//
	// If a property was violated it will return the sequence of transition labels leading to the violation.
	// Otherwise it will return an empty slice.
	Export() []string
}

// One transition of a trace and the state it leads to
type Step[S any] struct {
	Label string
	State S
}

// An ordered sequence of transitions starting in Initial
type Trace[S any] struct {
	Initial S
	Steps   []Step[S]
}

// The number of transitions in the trace
func (t Trace[S]) Len() int {
	return len(t.Steps)
}

// The state the trace ends in. Initial if the trace has no steps.
func (t Trace[S]) Last() S {
	if len(t.Steps) == 0 {
		return t.Initial
	}
	return t.Steps[len(t.Steps)-1].State
}

// The labels of the transitions in order
func (t Trace[S]) Labels() []string {
	labels := make([]string, 0, len(t.Steps))
	for _, step := range t.Steps {
		labels = append(labels, step.Label)
	}
	return labels
}

// One line per step. The initial state is labeled "init".
func (t Trace[S]) String() string {
	var buffer bytes.Buffer
	wrt := tabwriter.NewWriter(&buffer, 4, 4, 1, ' ', 0)
	fmt.Fprintf(wrt, "init\t%v\n", t.Initial)
	for _, step := range t.Steps {
		fmt.Fprintf(wrt, "%v\t%v\n", step.Label, step.State)
	}
	wrt.Flush()
	return buffer.String()
}

// A shortest trace to a violation together with the reason the last state is unsafe
type Counterexample[S any] struct {
	Trace[S]
	Violation Violation
}

func (c Counterexample[S]) Response() (bool, string) {
	out := fmt.Sprintf("Property broken: %v. Trace of %v steps:\n", c.Violation, c.Len())
	out += c.Trace.String()
	return false, out
}

// Export the labels of the trace so it can be replayed
func (c Counterexample[S]) Export() []string {
	return c.Labels()
}
