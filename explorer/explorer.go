package explorer

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"usure/checking"
	"usure/graph"
	"usure/state"
)

var (
	ErrStateLimit = errors.New("explorer: the maximum number of states was reached")
	ErrDepthLimit = errors.New("explorer: the maximum depth was reached")
)

// Configuration of an Explorer. The zero value is a sequential, unbounded, depth-first search.
type Config[S any] struct {
	Order Order
	// Maximum number of distinct states admitted into the graph. 0 means no limit.
	MaxStates int
	// Maximum number of transitions between the initial state and a newly discovered state. 0 means no limit.
	MaxDepth int
	// Number of goroutines expanding states. Values below 1 are treated as 1.
	Workers int
	// Treat every expanded state without enabled transitions as unsafe
	CheckDeadlock bool
	// Evaluated in order after the state's own IsSafe
	Invariants []checking.Invariant[S]
	Logger     zerolog.Logger
}

// An unsafe state and the reason it is unsafe
type Finding struct {
	ID        int
	Violation checking.Violation
}

// Counters collected during an exploration
type Stats struct {
	// Distinct states in the graph
	States int
	// Transitions returned by the expanded states, including those leading to known states
	Transitions int
	// Distinct edges in the graph
	Edges int
	// Largest depth at which a state was discovered
	MaxDepth int
	Duration time.Duration
	// True if a limit prevented some states from being admitted
	Truncated bool
	// ErrStateLimit and/or ErrDepthLimit if Truncated
	Reason error
}

// The outcome of one exploration
type Exploration[S state.State[S]] struct {
	Graph *graph.Graph[S]
	// Id of the initial state in Graph
	Root int
	// Unsafe states ordered by id
	Unsafe []Finding
	// Expanded states without enabled transitions, ordered by id
	Deadlocks []int
	Stats     Stats
}

// The ids of the unsafe states
func (e *Exploration[S]) UnsafeIDs() []int {
	ids := make([]int, len(e.Unsafe))
	for i, f := range e.Unsafe {
		ids[i] = f.ID
	}
	return ids
}

// The violation of the unsafe state id
func (e *Exploration[S]) Violation(id int) (checking.Violation, bool) {
	i := sort.Search(len(e.Unsafe), func(i int) bool { return e.Unsafe[i].ID >= id })
	if i < len(e.Unsafe) && e.Unsafe[i].ID == id {
		return e.Unsafe[i].Violation, true
	}
	return checking.Violation{}, false
}

// Explorer enumerates every state reachable from an initial state.
//
// All states are inserted into a transition graph and evaluated for safety once, when they are discovered.
// The exploration continues after a violation is found so that all unsafe states are collected.
type Explorer[S state.State[S]] struct {
	cfg Config[S]
}

func New[S state.State[S]](cfg Config[S]) *Explorer[S] {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Explorer[S]{cfg: cfg}
}

// State owned by a single call to Explore
type run[S state.State[S]] struct {
	cfg      Config[S]
	graph    *graph.Graph[S]
	frontier *frontier

	transitions atomic.Int64
	maxDepth    atomic.Int64
	stateLimit  atomic.Bool
	depthLimit  atomic.Bool

	mu        sync.Mutex
	unsafe    map[int]checking.Violation
	deadlocks []int
}

// Explore the state space reachable from initial.
//
// Returns the context's error if it is cancelled before the exploration completes.
func (e *Explorer[S]) Explore(ctx context.Context, initial S) (*Exploration[S], error) {
	start := time.Now()
	log := e.cfg.Logger

	opts := []graph.Option{graph.WithCapacity(e.cfg.MaxStates)}
	if e.cfg.Workers > 1 {
		opts = append(opts, graph.WithShards(4*e.cfg.Workers))
	}
	r := &run[S]{
		cfg:      e.cfg,
		graph:    graph.New[S](opts...),
		frontier: newFrontier(e.cfg.Order),
		unsafe:   map[int]checking.Violation{},
	}

	log.Debug().
		Stringer("order", e.cfg.Order).
		Int("workers", e.cfg.Workers).
		Int("max_states", e.cfg.MaxStates).
		Int("max_depth", e.cfg.MaxDepth).
		Msg("exploration started")

	root, _ := r.graph.Insert(initial)
	r.evaluate(root, initial)
	r.frontier.push(item{id: root})

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < e.cfg.Workers; i++ {
		g.Go(func() error {
			return r.work(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		log.Debug().Err(err).Int("states", r.graph.Len()).Int("pending", r.frontier.len()).Msg("exploration cancelled")
		return nil, err
	}

	res := r.result(root)
	res.Stats.Duration = time.Since(start)

	if res.Stats.Truncated {
		log.Debug().Err(res.Stats.Reason).Int("states", res.Stats.States).Msg("exploration truncated")
	}
	log.Debug().
		Int("states", res.Stats.States).
		Int("edges", res.Stats.Edges).
		Int("unsafe", len(res.Unsafe)).
		Dur("duration", res.Stats.Duration).
		Msg("exploration finished")
	return res, nil
}

func (r *run[S]) work(ctx context.Context) error {
	for {
		it, ok := r.frontier.pop()
		if !ok {
			return nil
		}
		if err := ctx.Err(); err != nil {
			r.frontier.close()
			r.frontier.done(it)
			return err
		}
		r.expand(it)
		r.frontier.done(it)
	}
}

// Expand one state: discover its successors and record an edge for every transition
func (r *run[S]) expand(it item) {
	s := r.graph.Node(it.id)
	transitions := s.Transitions()
	if len(transitions) == 0 {
		r.terminal(it.id)
		return
	}

	depth := it.depth + 1
	for _, t := range transitions {
		r.transitions.Inc()

		next, known := r.graph.Lookup(t.Next)
		if !known {
			if r.cfg.MaxDepth > 0 && depth > r.cfg.MaxDepth {
				r.depthLimit.Store(true)
				continue
			}
			var ins graph.Insertion
			next, ins = r.graph.Insert(t.Next)
			switch ins {
			case graph.Full:
				r.stateLimit.Store(true)
				continue
			case graph.Added:
				r.discovered(depth)
				r.evaluate(next, t.Next)
				r.frontier.push(item{id: next, depth: depth})
			}
		}
		r.graph.Connect(it.id, next, t.Label)
	}
}

func (r *run[S]) discovered(depth int) {
	for {
		cur := r.maxDepth.Load()
		if int64(depth) <= cur || r.maxDepth.CompareAndSwap(cur, int64(depth)) {
			return
		}
	}
}

// Evaluate the safety of a newly inserted state
func (r *run[S]) evaluate(id int, s S) {
	v, unsafe := checking.Evaluate(s, r.cfg.Invariants)
	if !unsafe {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsafe[id] = v
}

func (r *run[S]) terminal(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deadlocks = append(r.deadlocks, id)
	if _, ok := r.unsafe[id]; !ok && r.cfg.CheckDeadlock {
		r.unsafe[id] = checking.Violation{Kind: checking.DeadlockViolation}
	}
}

func (r *run[S]) result(root int) *Exploration[S] {
	r.mu.Lock()
	defer r.mu.Unlock()

	unsafe := make([]Finding, 0, len(r.unsafe))
	for id, v := range r.unsafe {
		unsafe = append(unsafe, Finding{ID: id, Violation: v})
	}
	slices.SortFunc(unsafe, func(a, b Finding) bool { return a.ID < b.ID })

	deadlocks := slices.Clone(r.deadlocks)
	slices.Sort(deadlocks)

	var limits *multierror.Error
	if r.stateLimit.Load() {
		limits = multierror.Append(limits, ErrStateLimit)
	}
	if r.depthLimit.Load() {
		limits = multierror.Append(limits, ErrDepthLimit)
	}
	var reason error
	if limits != nil {
		limits.ErrorFormat = joinErrors
		reason = limits
	}

	return &Exploration[S]{
		Graph:     r.graph,
		Root:      root,
		Unsafe:    unsafe,
		Deadlocks: deadlocks,
		Stats: Stats{
			States:      r.graph.Len(),
			Transitions: int(r.transitions.Load()),
			Edges:       r.graph.EdgeLen(),
			MaxDepth:    int(r.maxDepth.Load()),
			Truncated:   reason != nil,
			Reason:      reason,
		},
	}
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
