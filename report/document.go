// Package report renders the result of a check for people and for other programs.
package report

import (
	"fmt"

	"usure"
	"usure/state"
)

// A serializable summary of a check result
type Document struct {
	Outcome string `json:"outcome" yaml:"outcome"`
	Stats   Stats  `json:"stats" yaml:"stats"`
	// Number of unsafe states found
	Unsafe int `json:"unsafe" yaml:"unsafe"`
	// Number of states without enabled transitions
	Deadlocks int `json:"deadlocks" yaml:"deadlocks"`
	// The reason the last state of the counterexample is unsafe
	Violation string `json:"violation,omitempty" yaml:"violation,omitempty"`
	// The counterexample, starting with the initial state
	Trace []Step `json:"trace,omitempty" yaml:"trace,omitempty"`
}

type Stats struct {
	States      int    `json:"states" yaml:"states"`
	Transitions int    `json:"transitions" yaml:"transitions"`
	Edges       int    `json:"edges" yaml:"edges"`
	MaxDepth    int    `json:"maxDepth" yaml:"maxDepth"`
	Duration    string `json:"duration" yaml:"duration"`
	Truncated   bool   `json:"truncated" yaml:"truncated"`
	Reason      string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type Step struct {
	Label string `json:"label" yaml:"label"`
	State string `json:"state" yaml:"state"`
}

func NewDocument[S state.State[S]](r *usure.Result[S]) Document {
	doc := Document{
		Outcome:   r.Outcome.String(),
		Unsafe:    len(r.Unsafe),
		Deadlocks: len(r.Deadlocks),
		Stats: Stats{
			States:      r.Stats.States,
			Transitions: r.Stats.Transitions,
			Edges:       r.Stats.Edges,
			MaxDepth:    r.Stats.MaxDepth,
			Duration:    r.Stats.Duration.String(),
			Truncated:   r.Stats.Truncated,
		},
	}
	if r.Stats.Reason != nil {
		doc.Stats.Reason = r.Stats.Reason.Error()
	}
	if cex := r.Counterexample; cex != nil {
		doc.Violation = cex.Violation.String()
		doc.Trace = append(doc.Trace, Step{Label: "init", State: fmt.Sprint(cex.Initial)})
		for _, step := range cex.Steps {
			doc.Trace = append(doc.Trace, Step{Label: step.Label, State: fmt.Sprint(step.State)})
		}
	}
	return doc
}
