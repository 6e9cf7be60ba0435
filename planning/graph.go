package planning

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/geoplanner/geo"
)

// Graph is a directed graph over geo.Coordinate nodes, parameterized by a
// steering coefficient eta and a radius constant gamma. Node identity is
// value equality on geo.Coordinate; inserting an equal Coordinate is a
// no-op. Edges carry a scalar "dist" attribute, the geographic length of
// the segment at time of insertion.
//
// Insertion order is tracked explicitly (in order, not via Go's randomized
// map iteration) because Nearest's tie-break rule is "first inserted wins".
type Graph struct {
	Eta   float64
	Gamma float64

	order   []geo.Coordinate
	present map[geo.Coordinate]int // coordinate -> index into order
	edges   map[geo.Coordinate]map[geo.Coordinate]float64
}

// NewGraph constructs an empty Graph with the given steering coefficient and
// radius constant.
func NewGraph(eta, gamma float64) *Graph {
	return &Graph{
		Eta:     eta,
		Gamma:   gamma,
		present: make(map[geo.Coordinate]int),
		edges:   make(map[geo.Coordinate]map[geo.Coordinate]float64),
	}
}

// AddNode inserts c if it is not already present. It reports whether the
// node was newly added.
func (g *Graph) AddNode(c geo.Coordinate) bool {
	if _, ok := g.present[c]; ok {
		return false
	}
	g.present[c] = len(g.order)
	g.order = append(g.order, c)
	g.edges[c] = make(map[geo.Coordinate]float64)
	return true
}

// HasNode reports whether c is a node of the graph.
func (g *Graph) HasNode(c geo.Coordinate) bool {
	_, ok := g.present[c]
	return ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// Nodes returns the nodes of the graph in insertion order. The returned
// slice is owned by the caller.
func (g *Graph) Nodes() geo.MultiCoordinate {
	out := make(geo.MultiCoordinate, len(g.order))
	copy(out, g.order)
	return out
}

// AddEdge adds a directed edge from -> to with the given dist, overwriting
// any existing edge between the same pair. Both endpoints must already be
// nodes of the graph.
func (g *Graph) AddEdge(from, to geo.Coordinate, dist float64) {
	g.edges[from][to] = dist
}

// RemoveEdge removes the directed edge from -> to, if present.
func (g *Graph) RemoveEdge(from, to geo.Coordinate) {
	delete(g.edges[from], to)
}

// Successors returns the out-neighbors of c and the dist of each edge.
func (g *Graph) Successors(c geo.Coordinate) map[geo.Coordinate]float64 {
	return g.edges[c]
}

// Nearest returns, for every point in x, the node of the graph minimizing
// squared-Euclidean distance to it. Ties are broken by insertion order
// (first inserted wins). The graph must contain at least one node.
func (g *Graph) Nearest(x geo.MultiCoordinate) (geo.MultiCoordinate, error) {
	if g.NodeCount() == 0 {
		return nil, errors.Wrap(ErrEmptyGraph, "nearest")
	}
	nodes := g.Nodes()
	dists, _, err := geo.EuclidDistSquared(x, nodes, geo.Pairwise)
	if err != nil {
		return nil, err
	}
	out := make(geo.MultiCoordinate, len(x))
	for i := 0; i < len(x); i++ {
		best := 0
		bestDist := dists.At(i, 0)
		for j := 1; j < len(nodes); j++ {
			d := dists.At(i, j)
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		out[i] = nodes[best]
	}
	return out, nil
}

// Steer computes, for each aligned pair (xFrom[i], xTowards[i]), a point
// pulled from xFrom[i] toward xTowards[i], clipped to radius Eta. If the
// pair is already within Eta, xTowards[i] is returned unchanged.
func (g *Graph) Steer(xFrom, xTowards geo.MultiCoordinate) (geo.MultiCoordinate, error) {
	if len(xFrom) != len(xTowards) {
		return nil, errors.Wrapf(ErrInvalidInput, "steer requires equal lengths, got %d and %d", len(xFrom), len(xTowards))
	}
	_, sq, err := geo.EuclidDistSquared(xFrom, xTowards, geo.Aligned)
	if err != nil {
		return nil, err
	}

	out := make(geo.MultiCoordinate, len(xTowards))
	copy(out, xTowards)

	etaSq := g.Eta * g.Eta
	var farFromIdx, farTowardsIdx []int
	for i, d := range sq {
		if d >= etaSq {
			farFromIdx = append(farFromIdx, i)
			farTowardsIdx = append(farTowardsIdx, i)
		}
	}
	if len(farFromIdx) == 0 {
		return out, nil
	}

	xFromFar := xFrom.Select(farFromIdx)
	xTowardsFar := xTowards.Select(farTowardsIdx)
	unit := xTowardsFar.Sub(xFromFar).Normalized()
	steered := xFromFar.Add(unit.Scale(g.Eta))
	for k, idx := range farFromIdx {
		out[idx] = steered[k]
	}
	return out, nil
}

// Near computes the adaptive RRT* radius
//
//	r = min(eta, sqrt((gamma/pi) * log(n+2) / (n+2)))
//
// and returns every (neighbor, source-index) pair with
// ||x[i] - node[j]||^2 <= r^2, flattened in row-major (i, j) order. Nodes
// exactly on the boundary are included.
func (g *Graph) Near(x geo.MultiCoordinate, n int) (geo.MultiCoordinate, []int, error) {
	if g.NodeCount() == 0 {
		return nil, nil, errors.Wrap(ErrEmptyGraph, "near")
	}
	r := g.radius(n)
	rSq := r * r

	nodes := g.Nodes()
	dists, _, err := geo.EuclidDistSquared(x, nodes, geo.Pairwise)
	if err != nil {
		return nil, nil, err
	}

	var neighbors geo.MultiCoordinate
	var sourceIndices []int
	for i := 0; i < len(x); i++ {
		for j := 0; j < len(nodes); j++ {
			if dists.At(i, j) <= rSq {
				neighbors = append(neighbors, nodes[j])
				sourceIndices = append(sourceIndices, i)
			}
		}
	}
	return neighbors, sourceIndices, nil
}

// radius computes the RRT* shrinking-ball radius for a graph currently
// holding n+1 nodes (the caller typically passes NodeCount()-1).
func (g *Graph) radius(n int) float64 {
	shrink := math.Sqrt((g.Gamma / math.Pi) * (math.Log(float64(n+2)) / float64(n+2)))
	return math.Min(g.Eta, shrink)
}
