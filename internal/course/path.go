// Grid pathfinding — A* over the 4-connected course grid.
package course

import "container/heap"

// TraversalFunc decides whether a position can be entered. The scheduler
// supplies one per worker kind (terrain type, slope, blocked tiles).
type TraversalFunc func(GridPos) bool

// pathNode is an open-set entry. Seq gives stable tie-breaking so equal
// f-scores pop in insertion order and paths are deterministic.
type pathNode struct {
	pos GridPos
	f   int // g + heuristic
	g   int
	seq int
}

type pathHeap []pathNode

func (h pathHeap) Len() int { return len(h) }

func (h pathHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}

func (h pathHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pathHeap) Push(x any) {
	*h = append(*h, x.(pathNode))
}

func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// maxPathNodes caps the search so a fully blocked-off goal cannot make a
// scheduling tick unbounded.
const maxPathNodes = 20000

// FindPath runs A* from start to goal with a Manhattan heuristic and
// returns the waypoints excluding start, including goal. Returns nil when
// no path exists — callers treat that as "idle this tick", not an error.
// The goal tile itself must be traversable.
func FindPath(start, goal GridPos, traversable TraversalFunc) []GridPos {
	if start == goal {
		return []GridPos{}
	}
	if !traversable(goal) {
		return nil
	}

	open := &pathHeap{{pos: start, f: start.Manhattan(goal)}}
	cameFrom := make(map[GridPos]GridPos)
	gScore := map[GridPos]int{start: 0}
	seq := 0
	expanded := 0

	for open.Len() > 0 {
		current := heap.Pop(open).(pathNode)
		if current.pos == goal {
			return reconstruct(cameFrom, start, goal)
		}

		// Stale entry: a cheaper route to this tile was already processed.
		if g, ok := gScore[current.pos]; ok && current.g > g {
			continue
		}

		expanded++
		if expanded > maxPathNodes {
			return nil
		}

		for _, d := range NeighborDirections {
			next := current.pos.Add(d)
			if !traversable(next) {
				continue
			}
			g := current.g + 1
			if prev, ok := gScore[next]; ok && g >= prev {
				continue
			}
			gScore[next] = g
			cameFrom[next] = current.pos
			seq++
			heap.Push(open, pathNode{
				pos: next,
				g:   g,
				f:   g + next.Manhattan(goal),
				seq: seq,
			})
		}
	}
	return nil
}

func reconstruct(cameFrom map[GridPos]GridPos, start, goal GridPos) []GridPos {
	var rev []GridPos
	for at := goal; at != start; at = cameFrom[at] {
		rev = append(rev, at)
	}
	// Reverse into start→goal order.
	path := make([]GridPos, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}
