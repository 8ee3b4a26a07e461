package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usure"
	"usure/checking"
	"usure/examples/clock"
	"usure/examples/retry"
	"usure/state"
)

// Counts down to zero, either by one or by two
type countdown int

func (c countdown) Transitions() []state.Transition[countdown] {
	out := []state.Transition[countdown]{}
	if c >= 1 {
		out = append(out, state.To("one", c-1))
	}
	if c >= 2 {
		out = append(out, state.To("two", c-2))
	}
	return out
}
func (c countdown) IsSafe() bool { return c >= 0 }
func (c countdown) Key() string  { return string(rune('a' + int(c))) }

func TestRandomWalkStopsInTerminalState(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		trace := RandomWalk(countdown(10), seed, 100)
		require.Equal(t, countdown(0), trace.Last(), "seed %v", seed)
		require.GreaterOrEqual(t, trace.Len(), 5)
		require.LessOrEqual(t, trace.Len(), 10)
	}
}

func TestRandomWalkMaxLength(t *testing.T) {
	trace := RandomWalk(clock.New(), 1, 5)
	require.Equal(t, 5, trace.Len())
	for i, step := range trace.Steps {
		assert.Equal(t, "tick", step.Label)
		assert.Equal(t, i+2, step.State.Hour)
	}

	trace = RandomWalk(clock.New(), 1, 0)
	assert.Equal(t, 0, trace.Len())
	assert.Equal(t, clock.New(), trace.Last())
}

func TestRandomWalkDeterministic(t *testing.T) {
	initial := retry.New(retry.DefaultParams())
	first := RandomWalk(initial, 42, 30)
	second := RandomWalk(initial, 42, 30)
	assert.Equal(t, first.Labels(), second.Labels())

	// Every step is enabled in the state before it
	_, err := Replay(initial, first.Labels())
	assert.NoError(t, err)
}

func TestDistinct(t *testing.T) {
	transitions := []state.Transition[countdown]{
		state.To("one", countdown(1)),
		state.To("one", countdown(1)),
		state.To("two", countdown(1)),
		state.To("one", countdown(0)),
	}
	assert.Equal(t, []state.Transition[countdown]{
		state.To("one", countdown(1)),
		state.To("two", countdown(1)),
		state.To("one", countdown(0)),
	}, distinct(transitions))
}

func TestReplayCounterexample(t *testing.T) {
	p := retry.DefaultParams()
	p.Lossy = true
	initial := retry.New(p)
	res, err := usure.Check(context.Background(), initial)
	require.NoError(t, err)
	require.NotNil(t, res.Counterexample)

	trace, err := Replay(initial, res.Export())
	require.NoError(t, err)
	require.Equal(t, res.Counterexample.Len(), trace.Len())
	for i, step := range trace.Steps {
		assert.Equal(t, res.Counterexample.Steps[i].State.Key(), step.State.Key())
	}
	assert.False(t, trace.Last().IsSafe())
}

func TestReplayUnknownLabel(t *testing.T) {
	trace, err := Replay(countdown(3), []string{"two", "two"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLabel))
	assert.Equal(t, []string{"two"}, trace.Labels())
	assert.Equal(t, countdown(1), trace.Last())
}

func TestReplaySharedLabel(t *testing.T) {
	// Both transitions are labeled "one" and lead to different states
	trace, err := Replay(fork{}, []string{"one"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmbiguousLabel), "Expected ErrAmbiguousLabel. Got: %v", err)
	assert.Equal(t, 0, trace.Len())

	// Transitions sharing a label that lead to equal states are not ambiguous
	initial := retry.New(retry.DefaultParams())
	trace2, err := Replay(initial, []string{"send 1 ok", "send 1 ok", "ack 1"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, trace2.Last().Pending())
}

func TestVerifyCounterexample(t *testing.T) {
	// The unsafe branch has the larger key, so following the labels alone cannot tell the branches apart
	res, err := usure.Check(context.Background(), fork{})
	require.NoError(t, err)
	require.Equal(t, usure.Unsafe, res.Outcome)
	require.Equal(t, fork{"right"}, res.Counterexample.Last())

	_, err = Replay(fork{}, res.Export())
	assert.True(t, errors.Is(err, ErrAmbiguousLabel))

	n, err := Verify(res.Counterexample.Trace)
	require.NoError(t, err)
	assert.Equal(t, res.Counterexample.Len(), n)
}

func TestVerifyUnknownStep(t *testing.T) {
	trace := checking.Trace[countdown]{
		Initial: 3,
		Steps: []checking.Step[countdown]{
			{Label: "one", State: 2},
			{Label: "one", State: 0},
			{Label: "two", State: 0},
		},
	}
	n, err := Verify(trace)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStep), "Expected ErrUnknownStep. Got: %v", err)
	assert.Equal(t, 1, n)

	trace.Steps[1].State = 1
	trace.Steps[2].State = 0
	trace.Steps[2].Label = "one"
	n, err = Verify(trace)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

type fork struct{ side string }

func (f fork) Transitions() []state.Transition[fork] {
	if f.side != "" {
		return nil
	}
	return []state.Transition[fork]{state.To("one", fork{"left"}), state.To("one", fork{"right"})}
}
func (f fork) IsSafe() bool { return f.side != "right" }
func (f fork) Key() string  { return f.side }
