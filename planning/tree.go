package planning

import "go.viam.com/geoplanner/geo"

// Tree specializes Graph with the invariant that every non-root node has
// exactly one incoming edge. The root is the node inserted by InsertRoot,
// before the first extension.
type Tree struct {
	*Graph

	root    geo.Coordinate
	hasRoot bool
	parent  map[geo.Coordinate]geo.Coordinate
}

// NewTree constructs an empty Tree with the given steering coefficient and
// radius constant.
func NewTree(eta, gamma float64) *Tree {
	return &Tree{
		Graph:  NewGraph(eta, gamma),
		parent: make(map[geo.Coordinate]geo.Coordinate),
	}
}

// InsertRoot adds c as the tree's root. It is a no-op if c is already a
// node of the tree (per spec's "nearest() on duplicate inserts" rule: the
// tree is left unchanged).
func (t *Tree) InsertRoot(c geo.Coordinate) {
	if !t.hasRoot {
		t.root = c
		t.hasRoot = true
	}
	t.AddNode(c)
}

// Root returns the tree's root and whether one has been inserted yet.
func (t *Tree) Root() (geo.Coordinate, bool) {
	return t.root, t.hasRoot
}

// Parent returns the unique predecessor of x, or the zero Coordinate and
// false if x is the root or not a node of the tree.
func (t *Tree) Parent(x geo.Coordinate) (geo.Coordinate, bool) {
	p, ok := t.parent[x]
	return p, ok
}

// AddChild adds an edge parent -> child with the given dist, and records
// child's parent pointer. child must not already have a parent; attempting
// to give an existing non-root node a second parent is a protocol
// violation and panics with *TreeInvariantError, matching spec's
// "TreeInvariantViolation" error kind (an implementation bug, not a
// recoverable runtime condition).
func (t *Tree) AddChild(parent, child geo.Coordinate, dist float64) {
	if existing, ok := t.parent[child]; ok {
		panic(&TreeInvariantError{Child: child, Parent: existing})
	}
	t.AddNode(child)
	t.Graph.AddEdge(parent, child, dist)
	t.parent[child] = parent
}

// Rewire removes child's current parent edge (if any) and gives it a new
// parent via AddChild. This is the only sanctioned way to change an
// existing node's parent; it must be used instead of calling AddChild
// directly on a node that already has one, since AddChild panics in that
// case by design (design note: "parent removal in rewire" — the old edge
// must be removed first, or the tree invariant breaks).
func (t *Tree) Rewire(newParent, child geo.Coordinate, dist float64) {
	if oldParent, ok := t.parent[child]; ok {
		t.Graph.RemoveEdge(oldParent, child)
		delete(t.parent, child)
	}
	t.AddChild(newParent, child, dist)
}
