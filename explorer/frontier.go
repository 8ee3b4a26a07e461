package explorer

import (
	"sync"

	"github.com/ef-ds/deque"
)

// The order in which discovered states are expanded
type Order int

const (
	// Expand the most recently discovered state first
	DepthFirst Order = iota
	// Expand states in the order they were discovered
	BreadthFirst
)

func (o Order) String() string {
	switch o {
	case DepthFirst:
		return "depth-first"
	case BreadthFirst:
		return "breadth-first"
	default:
		return "unknown"
	}
}

// A discovered state waiting to be expanded
type item struct {
	id    int
	depth int
}

// The work list shared by all workers of one exploration.
//
// Workers pop items, expand them and push the new states they discover.
// The exploration is complete when the work list is empty and no worker is expanding a state,
// since only expanding workers can add new items.
// In breadth-first order a state is only handed out once every state closer to the initial state
// has been expanded, so states are discovered at their shortest depth with any number of workers.
type frontier struct {
	order Order
	queue deque.Deque

	// Used to wait for a change in f.ongoing or f.queue. The condition is f.queue.Len() == 0 and f.ongoing > 0
	cond *sync.Cond

	// Number of workers currently expanding a state
	ongoing int
	// Number of states being expanded per depth
	expanding map[int]int
	closed    bool
}

func newFrontier(order Order) *frontier {
	return &frontier{
		order:     order,
		cond:      sync.NewCond(new(sync.Mutex)),
		expanding: map[int]int{},
	}
}

func (f *frontier) push(it item) {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()

	f.queue.PushBack(it)
	if f.queue.Len() == 1 {
		f.cond.Broadcast()
	}
}

// Get the next state to expand.
//
// Blocks while the work list is empty but other workers are still expanding.
// Returns false when every reachable state has been expanded or the frontier was closed.
// Every successful pop must be followed by a call to done with the popped item.
func (f *frontier) pop() (item, bool) {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()

	for !f.closed && (f.queue.Len() == 0 && f.ongoing > 0 || f.deeper()) {
		f.cond.Wait()
	}
	if f.closed || f.queue.Len() == 0 {
		return item{}, false
	}

	var v interface{}
	if f.order == BreadthFirst {
		v, _ = f.queue.PopFront()
	} else {
		v, _ = f.queue.PopBack()
	}
	it := v.(item)
	f.ongoing++
	f.expanding[it.depth]++
	return it, true
}

// True if the next breadth-first item is deeper than a state that is still being expanded
func (f *frontier) deeper() bool {
	if f.order != BreadthFirst || f.ongoing == 0 {
		return false
	}
	v, ok := f.queue.Front()
	if !ok {
		return false
	}
	next := v.(item).depth
	for depth, n := range f.expanding {
		if n > 0 && depth < next {
			return true
		}
	}
	return false
}

// Signal that the popped item has been expanded
func (f *frontier) done(it item) {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()

	f.ongoing--
	if f.expanding[it.depth]--; f.expanding[it.depth] == 0 {
		delete(f.expanding, it.depth)
	}
	f.cond.Broadcast()
}

// Stop handing out work. Waiting workers are released.
func (f *frontier) close() {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()

	f.closed = true
	f.cond.Broadcast()
}

func (f *frontier) len() int {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()
	return f.queue.Len()
}
