package usure

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"usure/checking"
	"usure/config"
	"usure/explorer"
	"usure/state"
)

var ErrInvalidOption = errors.New("usure: invalid option")

// Check that every state reachable from initial is safe.
//
// Explores the complete state space reachable from initial, evaluates every state once and,
// if any state is unsafe, computes the shortest counterexample to one of them.
// See the CheckOptions for a full overview of possible options.
// Default values are a sequential depth-first search without limits.
// MaxDepth switches the default order to breadth-first and cannot be combined with DepthFirst.
//
// Returns an error wrapping ErrInvalidOption if any option is invalid,
// or the context's error if ctx is cancelled before the check completes.
// A check that is stopped by MaxStates or MaxDepth is not an error, it has outcome Truncated.
func Check[S state.State[S]](ctx context.Context, initial S, opts ...CheckOption) (*Result[S], error) {
	cfg := explorer.Config[S]{
		Order:   explorer.DepthFirst,
		Workers: 1,
		Logger:  zerolog.Nop(),
	}

	// Use the check options to configure
	var (
		errs  *multierror.Error
		order *explorer.Order
	)
	for _, opt := range opts {
		switch t := opt.(type) {
		case config.OrderOption:
			order = &t.Order
		case config.MaxStatesOption:
			if t.MaxStates < 1 {
				errs = multierror.Append(errs, fmt.Errorf("%w: max states must be positive, got %d", ErrInvalidOption, t.MaxStates))
			}
			cfg.MaxStates = t.MaxStates
		case config.MaxDepthOption:
			if t.MaxDepth < 1 {
				errs = multierror.Append(errs, fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidOption, t.MaxDepth))
			}
			cfg.MaxDepth = t.MaxDepth
		case config.WorkersOption:
			if t.N < 1 {
				errs = multierror.Append(errs, fmt.Errorf("%w: number of workers must be positive, got %d", ErrInvalidOption, t.N))
			}
			cfg.Workers = t.N
		case config.DeadlockOption:
			cfg.CheckDeadlock = true
		case config.InvariantOption[S]:
			for _, inv := range t.Invariants {
				if inv.Holds == nil {
					errs = multierror.Append(errs, fmt.Errorf("%w: invariant %q has no predicate", ErrInvalidOption, inv.Name))
				}
			}
			cfg.Invariants = append(cfg.Invariants, t.Invariants...)
		case config.LoggerOption:
			cfg.Logger = t.Logger
		default:
			errs = multierror.Append(errs, fmt.Errorf("%w: %T does not apply to states of type %T", ErrInvalidOption, opt, initial))
		}
	}
	switch {
	case cfg.MaxDepth > 0 && order != nil && *order == explorer.DepthFirst:
		errs = multierror.Append(errs, fmt.Errorf("%w: max depth requires breadth-first order", ErrInvalidOption))
	case cfg.MaxDepth > 0:
		cfg.Order = explorer.BreadthFirst
	case order != nil:
		cfg.Order = *order
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	exploration, err := explorer.New(cfg).Explore(ctx, initial)
	if err != nil {
		return nil, err
	}

	res := newResult(exploration)
	if len(exploration.Unsafe) == 0 {
		return res, nil
	}

	trace, ok := checking.ShortestCounterexample(exploration.Graph, exploration.Root, exploration.UnsafeIDs())
	if !ok {
		// Every unsafe state was discovered from the root, so one is always reachable
		panic("usure: no unsafe state is reachable from the initial state")
	}
	target, _ := exploration.Graph.Lookup(trace.Last())
	violation, _ := exploration.Violation(target)
	res.Counterexample = &checking.Counterexample[S]{Trace: trace, Violation: violation}

	cfg.Logger.Debug().
		Int("length", trace.Len()).
		Stringer("violation", violation).
		Msg("counterexample found")
	return res, nil
}
