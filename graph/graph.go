package graph

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/slices"

	"usure/state"
)

// The result of inserting a state into the graph
type Insertion int

const (
	// An equal state was already a node of the graph
	Existing Insertion = iota
	// The state was added as a new node
	Added
	// The state is new, but the graph has reached its capacity
	Full
)

// A directed edge between two nodes.
//
// Several transitions can connect the same pair of states.
// The edge keeps all of their labels, sorted and without duplicates.
type Edge struct {
	From   int
	To     int
	labels []string
}

// The canonical label of the edge. The smallest of its labels.
func (e Edge) Label() string {
	return e.labels[0]
}

// All labels of transitions connecting From to To in sorted order
func (e Edge) Labels() []string {
	return slices.Clone(e.labels)
}

type edgeKey struct {
	from, to int
}

type shard struct {
	sync.Mutex
	ids map[string]int
}

// Graph is the labeled transition graph over the discovered state space.
//
// Nodes are distinct states, identified by their key, and numbered densely in insertion order.
// The first inserted node is the root. The graph only grows.
// It is safe to insert nodes and edges from multiple goroutines.
type Graph[S state.State[S]] struct {
	// The key index is sharded so that concurrent inserts of different states rarely contend.
	shards []shard

	mu       sync.RWMutex
	nodes    []S
	succ     [][]int
	pred     [][]int
	edges    map[edgeKey]*Edge
	capacity int
}

// Options used when creating a Graph
type Option func(*config)

type config struct {
	shards   int
	capacity int
}

// Split the key index into n shards. Default value is 1.
func WithShards(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.shards = n
		}
	}
}

// Limit the number of nodes in the graph. Default value is no limit.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// Create an empty graph
func New[S state.State[S]](opts ...Option) *Graph[S] {
	cfg := config{shards: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	g := &Graph[S]{
		shards:   make([]shard, cfg.shards),
		nodes:    []S{},
		succ:     [][]int{},
		pred:     [][]int{},
		edges:    map[edgeKey]*Edge{},
		capacity: cfg.capacity,
	}
	for i := range g.shards {
		g.shards[i].ids = map[string]int{}
	}
	return g
}

func (g *Graph[S]) shard(key string) *shard {
	if len(g.shards) == 1 {
		return &g.shards[0]
	}
	return &g.shards[xxhash.Sum64String(key)%uint64(len(g.shards))]
}

// Insert the state as a node unless an equal state is already present.
//
// Returns the id of the node and whether it was added.
// The membership test and the insertion is one atomic step,
// so when several goroutines insert equal states exactly one of them observes Added.
// If the graph is full the returned id is -1.
func (g *Graph[S]) Insert(s S) (int, Insertion) {
	key := s.Key()
	sh := g.shard(key)
	sh.Lock()
	defer sh.Unlock()

	if id, ok := sh.ids[key]; ok {
		return id, Existing
	}

	g.mu.Lock()
	if g.capacity > 0 && len(g.nodes) >= g.capacity {
		g.mu.Unlock()
		return -1, Full
	}
	id := len(g.nodes)
	g.nodes = append(g.nodes, s)
	g.succ = append(g.succ, nil)
	g.pred = append(g.pred, nil)
	g.mu.Unlock()

	sh.ids[key] = id
	return id, Added
}

// Add an edge labeled with label from the node from to the node to.
//
// Adding a second transition between the same pair of nodes adds its label to the existing edge.
func (g *Graph[S]) Connect(from, to int, label string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := edgeKey{from: from, to: to}
	e, ok := g.edges[k]
	if !ok {
		g.edges[k] = &Edge{From: from, To: to, labels: []string{label}}
		g.succ[from] = append(g.succ[from], to)
		g.pred[to] = append(g.pred[to], from)
		return
	}
	if i, found := slices.BinarySearch(e.labels, label); !found {
		e.labels = slices.Insert(e.labels, i, label)
	}
}

// Returns the id of the node equal to s
func (g *Graph[S]) Lookup(s S) (int, bool) {
	key := s.Key()
	sh := g.shard(key)
	sh.Lock()
	defer sh.Unlock()
	id, ok := sh.ids[key]
	return id, ok
}

// Returns the total number of nodes in the graph
func (g *Graph[S]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Returns the number of distinct edges in the graph
func (g *Graph[S]) EdgeLen() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Returns the state stored in the node with the provided id
func (g *Graph[S]) Node(id int) S {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[id]
}

// Returns all states in the graph ordered by id
func (g *Graph[S]) Nodes() []S {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.nodes)
}

// Returns the ids of the nodes reachable by a single transition from id, in insertion order
func (g *Graph[S]) Successors(id int) []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.succ[id])
}

// Returns the ids of the nodes with an edge into id, in insertion order
func (g *Graph[S]) Predecessors(id int) []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.pred[id])
}

// Returns the edge from one node to another
func (g *Graph[S]) Edge(from, to int) (Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[edgeKey{from: from, to: to}]
	if !ok {
		return Edge{}, false
	}
	return Edge{From: e.From, To: e.To, labels: slices.Clone(e.labels)}, true
}

// Returns all edges ordered by source and destination id
func (g *Graph[S]) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, Edge{From: e.From, To: e.To, labels: slices.Clone(e.labels)})
	}
	slices.SortFunc(out, func(a, b Edge) bool {
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})
	return out
}

func (g *Graph[S]) IsRoot(id int) bool {
	return id == 0
}
