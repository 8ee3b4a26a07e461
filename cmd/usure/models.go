package main

import (
	"context"
	"io"
	"sort"

	"github.com/pkg/errors"

	"usure"
	"usure/examples/clock"
	"usure/examples/retry"
	"usure/graph"
	"usure/report"
	"usure/simulation"
	"usure/state"
)

// The operations of the commands on one model, independent of its state type
type model interface {
	check(ctx context.Context, opts []usure.CheckOption) (outcome, error)
	simulate(seed int64, length int) string
	replay(labels []string) (string, error)
}

// A finished check that can be rendered in several formats
type outcome interface {
	verdict() usure.Outcome
	states() int
	verify() error
	write(w io.Writer, format string) error
	writeDOT(w io.Writer) error
}

type stateModel[S state.State[S]] struct {
	initial S
}

var models = map[string]func() model{
	"retry": func() model {
		return stateModel[retry.State]{initial: retry.New(retry.DefaultParams())}
	},
	"retry-lossy": func() model {
		p := retry.DefaultParams()
		p.Lossy = true
		return stateModel[retry.State]{initial: retry.New(p)}
	},
	"retry-strict": func() model {
		p := retry.DefaultParams()
		p.Policy = retry.DeadlockIsViolation
		return stateModel[retry.State]{initial: retry.New(p)}
	},
	"clock": func() model {
		return stateModel[clock.Clock]{initial: clock.New()}
	},
	"clock-wrap": func() model {
		return stateModel[clock.Clock]{initial: clock.NewWraparound()}
	},
}

func modelNames() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupModel(name string) (model, error) {
	newModel, ok := models[name]
	if !ok {
		return nil, errors.Errorf("unknown model %q, expected one of %v", name, modelNames())
	}
	return newModel(), nil
}

func (m stateModel[S]) check(ctx context.Context, opts []usure.CheckOption) (outcome, error) {
	res, err := usure.Check(ctx, m.initial, opts...)
	if err != nil {
		return nil, err
	}
	return result[S]{res}, nil
}

func (m stateModel[S]) simulate(seed int64, length int) string {
	return simulation.RandomWalk(m.initial, seed, length).String()
}

func (m stateModel[S]) replay(labels []string) (string, error) {
	trace, err := simulation.Replay(m.initial, labels)
	return trace.String(), err
}

type result[S state.State[S]] struct {
	*usure.Result[S]
}

func (r result[S]) verdict() usure.Outcome {
	return r.Outcome
}

func (r result[S]) states() int {
	return r.Stats.States
}

// Check that the counterexample, if any, is a path of the model
func (r result[S]) verify() error {
	if r.Counterexample == nil {
		return nil
	}
	_, err := simulation.Verify(r.Counterexample.Trace)
	return err
}

func (r result[S]) write(w io.Writer, format string) error {
	switch format {
	case "text":
		return report.Text(w, r.Result)
	case "json":
		return report.JSON(w, r.Result)
	case "yaml":
		return report.YAML(w, r.Result)
	default:
		return errors.Errorf("unknown output format %q, expected text, json or yaml", format)
	}
}

// The graph with the unsafe states highlighted
func (r result[S]) writeDOT(w io.Writer) error {
	highlight := map[int]bool{}
	for _, f := range r.Unsafe {
		highlight[f.ID] = true
	}
	if err := graph.WriteDOT(w, r.Graph, highlight); err != nil {
		return errors.Wrap(err, "could not write graph")
	}
	return nil
}
