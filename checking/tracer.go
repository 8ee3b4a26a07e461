package checking

import (
	"github.com/ef-ds/deque"

	"usure/graph"
	"usure/state"
)

// Distances returns the minimum number of transitions from root to every node.
//
// The slice is indexed by node id. Nodes that are not reachable from root have distance -1.
func Distances[S state.State[S]](g *graph.Graph[S], root int) []int {
	dist, _ := shortestPathTree(g, root, nil)
	return dist
}

// Breadth first search from root.
//
// Returns the distance of every node and the predecessor of every node on a shortest path.
// When a node has several predecessors at the same distance the one with the smallest key is
// recorded, so the tree does not depend on the order nodes and edges were inserted.
func shortestPathTree[S state.State[S]](g *graph.Graph[S], root int, keys []string) ([]int, []int) {
	n := g.Len()
	dist := make([]int, n)
	parent := make([]int, n)
	for i := range dist {
		dist[i] = -1
		parent[i] = -1
	}
	if root < 0 || root >= n {
		return dist, parent
	}

	dist[root] = 0
	var queue deque.Deque
	queue.PushBack(root)
	for queue.Len() > 0 {
		v, _ := queue.PopFront()
		u := v.(int)
		for _, w := range g.Successors(u) {
			switch {
			case dist[w] == -1:
				dist[w] = dist[u] + 1
				parent[w] = u
				queue.PushBack(w)
			case keys != nil && dist[w] == dist[u]+1 && keys[u] < keys[parent[w]]:
				parent[w] = u
			}
		}
	}
	return dist, parent
}

// ShortestCounterexample computes the shortest trace from root to one of the unsafe nodes.
//
// The unsafe node closest to root is chosen. Ties are broken by the canonical order of the states,
// the smallest key wins. Unsafe nodes that are not reachable from root are ignored.
// Every step of the trace is labeled with the canonical label of the traversed edge.
//
// Returns false if no unsafe node is reachable.
func ShortestCounterexample[S state.State[S]](g *graph.Graph[S], root int, unsafe []int) (Trace[S], bool) {
	if len(unsafe) == 0 {
		return Trace[S]{}, false
	}

	nodes := g.Nodes()
	keys := make([]string, len(nodes))
	for i, s := range nodes {
		keys[i] = s.Key()
	}
	dist, parent := shortestPathTree(g, root, keys)

	target := -1
	for _, id := range unsafe {
		if id < 0 || id >= len(dist) || dist[id] == -1 {
			continue
		}
		if target == -1 || dist[id] < dist[target] || (dist[id] == dist[target] && keys[id] < keys[target]) {
			target = id
		}
	}
	if target == -1 {
		return Trace[S]{}, false
	}

	// Walk the predecessor links back to the root
	path := make([]int, dist[target]+1)
	for i, id := len(path)-1, target; i >= 0; i, id = i-1, parent[id] {
		path[i] = id
	}

	trace := Trace[S]{
		Initial: nodes[root],
		Steps:   make([]Step[S], 0, len(path)-1),
	}
	for i := 1; i < len(path); i++ {
		e, _ := g.Edge(path[i-1], path[i])
		trace.Steps = append(trace.Steps, Step[S]{
			Label: e.Label(),
			State: nodes[path[i]],
		})
	}
	return trace, true
}
