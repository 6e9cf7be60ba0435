package planning

import (
	"container/heap"

	"go.viam.com/geoplanner/geo"
)

// dijkstraItem is one entry of the priority queue used by
// singleSourceShortestPaths.
type dijkstraItem struct {
	node geo.Coordinate
	dist float64
	idx  int
}

type dijkstraQueue []*dijkstraItem

func (q dijkstraQueue) Len() int            { return len(q) }
func (q dijkstraQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q dijkstraQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].idx, q[j].idx = i, j }
func (q *dijkstraQueue) Push(x interface{}) {
	item := x.(*dijkstraItem)
	item.idx = len(*q)
	*q = append(*q, item)
}

func (q *dijkstraQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// singleSourceShortestPaths computes the length of the shortest path from
// source to every node of g reachable from it, treating dist as a
// non-negative edge weight. This is used to resynchronize the planner's
// cost map before goal-attach attempts (spec: "the Dijkstra refresh makes
// that best path authoritative at goal-attach time").
func singleSourceShortestPaths(g *Graph, source geo.Coordinate) map[geo.Coordinate]float64 {
	dist := map[geo.Coordinate]float64{source: 0}
	visited := make(map[geo.Coordinate]bool)

	pq := &dijkstraQueue{{node: source, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*dijkstraItem)
		if visited[item.node] {
			continue
		}
		visited[item.node] = true

		for next, edgeDist := range g.Successors(item.node) {
			cand := item.dist + edgeDist
			if d, ok := dist[next]; !ok || cand < d {
				dist[next] = cand
				heap.Push(pq, &dijkstraItem{node: next, dist: cand})
			}
		}
	}
	return dist
}
