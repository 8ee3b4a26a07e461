package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v2"

	"usure"
	"usure/state"
)

// Write a human readable report.
//
// The counterexample is printed one step per line: the label of the transition followed by the state it leads to.
func Text[S state.State[S]](w io.Writer, r *usure.Result[S]) error {
	doc := NewDocument(r)

	wrt := tabwriter.NewWriter(w, 4, 4, 2, ' ', 0)
	fmt.Fprintf(wrt, "Outcome:\t%v\n", doc.Outcome)
	fmt.Fprintf(wrt, "States:\t%v\n", doc.Stats.States)
	fmt.Fprintf(wrt, "Transitions:\t%v\n", doc.Stats.Transitions)
	fmt.Fprintf(wrt, "Edges:\t%v\n", doc.Stats.Edges)
	fmt.Fprintf(wrt, "Max depth:\t%v\n", doc.Stats.MaxDepth)
	fmt.Fprintf(wrt, "Duration:\t%v\n", doc.Stats.Duration)
	if doc.Stats.Truncated {
		fmt.Fprintf(wrt, "Truncated:\t%v\n", doc.Stats.Reason)
	}
	fmt.Fprintf(wrt, "Unsafe states:\t%v\n", doc.Unsafe)
	if err := wrt.Flush(); err != nil {
		return err
	}

	if len(doc.Trace) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nCounterexample (%v, %v steps):\n", doc.Violation, len(doc.Trace)-1); err != nil {
		return err
	}
	wrt = tabwriter.NewWriter(w, 4, 4, 2, ' ', 0)
	for _, step := range doc.Trace {
		fmt.Fprintf(wrt, "%v\t%v\n", step.Label, step.State)
	}
	return wrt.Flush()
}

// Write the report as an indented JSON document
func JSON[S state.State[S]](w io.Writer, r *usure.Result[S]) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(r))
}

// Write the report as a YAML document
func YAML[S state.State[S]](w io.Writer, r *usure.Result[S]) error {
	out, err := yaml.Marshal(NewDocument(r))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
