package usure

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usure/checking"
	"usure/examples/clock"
	"usure/explorer"
	"usure/state"
)

var invalidOptionTest = []struct {
	opts   []CheckOption
	errors int
}{
	{[]CheckOption{MaxStates(0)}, 1},
	{[]CheckOption{MaxDepth(-1)}, 1},
	{[]CheckOption{Workers(0)}, 1},
	{[]CheckOption{MaxStates(0), MaxDepth(0), Workers(-3)}, 3},
	{[]CheckOption{DepthFirst(), MaxDepth(3)}, 1},
	{[]CheckOption{MaxDepth(3), BreadthFirst(), DepthFirst()}, 1},
	{[]CheckOption{WithInvariants(checking.Invariant[clock.Clock]{Name: "empty"})}, 1},
	// The invariant is defined on a different state type
	{[]CheckOption{WithInvariants(checking.NewInvariant("int", func(int) bool { return true }))}, 1},
}

func TestCheckInvalidOptions(t *testing.T) {
	for i, test := range invalidOptionTest {
		res, err := Check(context.Background(), clock.New(), test.opts...)
		require.Nil(t, res, "test %v", i)
		require.True(t, errors.Is(err, ErrInvalidOption), "test %v: expected ErrInvalidOption. Got: %v", i, err)

		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		assert.Len(t, merr.Errors, test.errors, "test %v", i)
	}
}

func TestCheckOutcome(t *testing.T) {
	tests := []struct {
		name      string
		initial   clock.Clock
		opts      []CheckOption
		outcome   Outcome
		truncated bool
	}{
		{"safe", clock.New(), nil, Safe, false},
		{"unsafe", clock.NewWraparound(), nil, Unsafe, false},
		{"truncated", clock.New(), []CheckOption{MaxStates(4)}, Truncated, true},
		{"depth truncated", clock.New(), []CheckOption{BreadthFirst(), MaxDepth(5)}, Truncated, true},
		{"unsafe within limit", clock.NewWraparound(), []CheckOption{MaxStates(4), WithInvariants(
			checking.NewInvariant("before three", func(c clock.Clock) bool { return c.Hour < 3 }),
		)}, Unsafe, true},
		{"limit not reached", clock.New(), []CheckOption{MaxStates(12), MaxDepth(11)}, Safe, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := Check(context.Background(), test.initial, test.opts...)
			require.NoError(t, err)
			assert.Equal(t, test.outcome, res.Outcome)
			assert.Equal(t, test.truncated, res.Stats.Truncated)
			assert.Equal(t, test.outcome == Unsafe, res.Counterexample != nil)
		})
	}
}

func TestCheckInvariantCounterexample(t *testing.T) {
	res, err := Check(context.Background(), clock.New(),
		WithInvariants(checking.NewInvariant("morning", func(c clock.Clock) bool { return c.Hour <= 12 })),
		WithInvariants(checking.NewInvariant("before five", func(c clock.Clock) bool { return c.Hour < 5 })),
	)
	require.NoError(t, err)
	require.Equal(t, Unsafe, res.Outcome)
	assert.Len(t, res.Unsafe, 8)

	cex := res.Counterexample
	assert.Equal(t, 4, cex.Len())
	assert.Equal(t, 5, cex.Last().Hour)
	assert.Equal(t, checking.Violation{Kind: checking.InvariantViolation, Invariant: "before five"}, cex.Violation)
	assert.Equal(t, []string{"tick", "tick", "tick", "tick"}, res.Export())

	ok, desc := res.Response()
	assert.False(t, ok)
	assert.Contains(t, desc, `Property broken: invariant "before five" violated. Trace of 4 steps:`)
}

func TestCheckMaxDepthFindsShortPaths(t *testing.T) {
	// "d" is three transitions away along a-b-c-d, which a depth-first search follows first,
	// but only two along a-e-d. "z" is three transitions away.
	for _, opts := range [][]CheckOption{{MaxDepth(3)}, {BreadthFirst(), MaxDepth(3)}, {MaxDepth(3), Workers(3)}} {
		res, err := Check(context.Background(), letter("a"), opts...)
		require.NoError(t, err)
		require.Equal(t, Unsafe, res.Outcome)
		assert.Equal(t, []string{"to e", "to d", "to z"}, res.Export())
	}

	res, err := Check(context.Background(), letter("a"), MaxDepth(2))
	require.NoError(t, err)
	assert.Equal(t, Truncated, res.Outcome)
	assert.Equal(t, 5, res.Stats.States)
}

func TestCheckTerminalInvariant(t *testing.T) {
	// Only the terminal state is judged by an invariant wrapped in AtTerminal
	res, err := Check(context.Background(), countdown(4),
		WithInvariants(checking.AtTerminal(checking.NewInvariant("at one", func(c countdown) bool { return c == 1 }))),
	)
	require.NoError(t, err)
	require.Equal(t, Unsafe, res.Outcome)
	assert.Equal(t, countdown(0), res.Counterexample.Last())
	assert.Equal(t, 4, res.Counterexample.Len())
	assert.Equal(t, "terminal: at one", res.Counterexample.Violation.Invariant)
}

func TestCheckDeadlockOption(t *testing.T) {
	res, err := Check(context.Background(), countdown(3))
	require.NoError(t, err)
	assert.Equal(t, Safe, res.Outcome)
	assert.Len(t, res.Deadlocks, 1)

	res, err = Check(context.Background(), countdown(3), CheckDeadlock())
	require.NoError(t, err)
	require.Equal(t, Unsafe, res.Outcome)
	assert.Equal(t, checking.DeadlockViolation, res.Counterexample.Violation.Kind)
	assert.Equal(t, []countdown{0}, res.UnsafeStates())
}

func TestCheckResponse(t *testing.T) {
	res, err := Check(context.Background(), clock.New())
	require.NoError(t, err)
	ok, desc := res.Response()
	assert.True(t, ok)
	assert.Equal(t, "All 12 reachable states are safe\n", desc)
	assert.Empty(t, res.Export())

	res, err = Check(context.Background(), clock.New(), MaxStates(2))
	require.NoError(t, err)
	ok, desc = res.Response()
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(desc, "No violation found in 2 states."))
	assert.Contains(t, desc, explorer.ErrStateLimit.Error())
}

func TestCheckCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Check(ctx, clock.New(), Workers(2))
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCheckLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	_, err := Check(context.Background(), clock.NewWraparound(), WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"message":"exploration started"`)
	assert.Contains(t, out, `"message":"exploration finished"`)
	assert.Contains(t, out, `"message":"counterexample found"`)
	assert.Contains(t, out, `"length":11`)
}

// Counts down to zero one step at a time
type countdown int

func (c countdown) Transitions() []state.Transition[countdown] {
	if c == 0 {
		return nil
	}
	return []state.Transition[countdown]{state.To("down", c-1)}
}
func (c countdown) IsSafe() bool { return c >= 0 }
func (c countdown) Key() string  { return string(rune('a' + int(c))) }

// A fixed graph over letters. Only "z" is unsafe.
type letter string

var shortcut = map[letter][]letter{
	"a": {"e", "b"},
	"b": {"c"},
	"c": {"d"},
	"d": {"z"},
	"e": {"d"},
}

func (l letter) Transitions() []state.Transition[letter] {
	out := []state.Transition[letter]{}
	for _, next := range shortcut[l] {
		out = append(out, state.To("to "+string(next), next))
	}
	return out
}
func (l letter) IsSafe() bool { return l != "z" }
func (l letter) Key() string  { return string(l) }
