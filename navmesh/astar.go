package navmesh

import "github.com/arl/assertgo"

// AStarProblem formulates a best-first search for AStarFind: a start
// state, a successor relation with per-edge costs and actions, an
// admissible heuristic, and a goal predicate (spec §4.4). S must be
// comparable so it can key the open/closed sets; A may be any type.
//
// Generalized from the teacher's PolyRef-specific FindPath in
// detour/query.go to an arbitrary problem, the way detour itself is
// generalized by detour.QueryFilter for cost/traversal policy; landmass
// needs the same search run over two different state spaces (raw
// NodeRef pathfinding, and whatever a future caller might search), so the
// search itself is factored out.
type AStarProblem[S comparable, A any] interface {
	InitialState() S
	Successors(s S) []Successor[S, A]
	Heuristic(s S) float32
	IsGoalState(s S) bool
}

// Successor is one outgoing edge from a state: its action, the state it
// leads to, and the cost of taking it.
type Successor[S comparable, A any] struct {
	Cost   float32
	Action A
	Next   S
}

// PathStats reports search diagnostics (spec §4.4).
type PathStats struct {
	ExploredNodes int
}

// astarNode is one entry in the open/closed bookkeeping for FindPath.
type astarNode[S comparable, A any] struct {
	state      S
	g, f       float32
	parent     *astarNode[S, A]
	action     A
	heapIndex  int
	closed     bool
	order      int // insertion order, for stable tie-breaking
}

// astarScratch is the reusable open/closed state FindPath needs. Callers
// that run many searches back to back (e.g. Archipelago.update() across
// many agents in one tick) should keep one Scratch per search-state-type
// and pass it to FindPath every time, avoiding the per-call allocator
// churn the teacher's detour.NodePool is built to avoid (spec §5/§9).
type astarScratch[S comparable, A any] struct {
	nodes map[S]*astarNode[S, A]
	heap  *nodeHeap[S, A]
	order int
}

// NewScratch allocates a reusable A* workspace for state type S and
// action type A.
func NewScratch[S comparable, A any]() *Scratch[S, A] {
	return &Scratch[S, A]{inner: &astarScratch[S, A]{}}
}

// Scratch is the exported handle to a reusable A* workspace; see
// NewScratch.
type Scratch[S comparable, A any] struct {
	inner *astarScratch[S, A]
}

func (s *astarScratch[S, A]) reset() {
	if s.nodes == nil {
		s.nodes = make(map[S]*astarNode[S, A])
	} else {
		clear(s.nodes)
	}
	if s.heap == nil {
		s.heap = newNodeHeap[S, A]()
	} else {
		clear(s.heap.items)
		s.heap.items = s.heap.items[:0]
	}
	s.order = 0
}

// FindPath runs A* over problem, returning the sequence of actions from
// the initial state to a goal state (spec §4.4). ok is false if no goal
// state was reachable. scratch may be nil, in which case a private
// one-shot workspace is used; pass a shared *Scratch across calls within
// a tick to reuse its allocations.
func FindPath[S comparable, A any](problem AStarProblem[S, A], scratch *Scratch[S, A]) (PathStats, []A, bool) {
	var sc *astarScratch[S, A]
	if scratch != nil {
		sc = scratch.inner
	} else {
		sc = &astarScratch[S, A]{}
	}
	sc.reset()

	start := problem.InitialState()
	startNode := &astarNode[S, A]{state: start, g: 0, f: problem.Heuristic(start), order: sc.order}
	sc.order++
	sc.nodes[start] = startNode
	sc.heap.push(startNode)

	stats := PathStats{}

	for sc.heap.len() > 0 {
		cur := sc.heap.pop()
		if cur.closed {
			continue
		}
		cur.closed = true
		stats.ExploredNodes++

		if problem.IsGoalState(cur.state) {
			return stats, reconstruct[S, A](cur), true
		}

		for _, succ := range problem.Successors(cur.state) {
			g := cur.g + succ.Cost
			next, ok := sc.nodes[succ.Next]
			if !ok {
				next = &astarNode[S, A]{state: succ.Next, g: g, f: g + problem.Heuristic(succ.Next), parent: cur, action: succ.Action, order: sc.order}
				sc.order++
				sc.nodes[succ.Next] = next
				sc.heap.push(next)
				continue
			}
			if next.closed || g >= next.g {
				continue
			}
			next.g = g
			next.f = g + problem.Heuristic(succ.Next)
			next.parent = cur
			next.action = succ.Action
			sc.heap.fix(next)
		}
	}

	return stats, nil, false
}

func reconstruct[S comparable, A any](goal *astarNode[S, A]) []A {
	var actions []A
	for n := goal; n.parent != nil; n = n.parent {
		actions = append(actions, n.action)
	}
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}
	return actions
}

// nodeHeap is a binary min-heap on (f, order), ported from the teacher's
// nodeQueue in detour/nodequeue.go and generalized from *Node to
// *astarNode[S, A].
type nodeHeap[S comparable, A any] struct {
	items []*astarNode[S, A]
}

func newNodeHeap[S comparable, A any]() *nodeHeap[S, A] {
	return &nodeHeap[S, A]{}
}

func (h *nodeHeap[S, A]) len() int { return len(h.items) }

func (h *nodeHeap[S, A]) less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.f != b.f {
		return a.f < b.f
	}
	return a.order < b.order
}

func (h *nodeHeap[S, A]) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].heapIndex = i
	h.items[j].heapIndex = j
}

func (h *nodeHeap[S, A]) push(n *astarNode[S, A]) {
	n.heapIndex = len(h.items)
	h.items = append(h.items, n)
	h.up(n.heapIndex)
}

func (h *nodeHeap[S, A]) pop() *astarNode[S, A] {
	assert.True(len(h.items) > 0, "pop from empty nodeHeap")
	top := h.items[0]
	last := len(h.items) - 1
	h.swap(0, last)
	h.items = h.items[:last]
	if len(h.items) > 0 {
		h.down(0)
	}
	return top
}

func (h *nodeHeap[S, A]) fix(n *astarNode[S, A]) {
	i := n.heapIndex
	h.up(i)
	h.down(i)
}

func (h *nodeHeap[S, A]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *nodeHeap[S, A]) down(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		smallest := left
		if right := left + 1; right < n && h.less(right, left) {
			smallest = right
		}
		if !h.less(smallest, i) {
			break
		}
		h.swap(i, smallest)
		i = smallest
	}
}
