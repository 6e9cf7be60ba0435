package planning

import "go.viam.com/geoplanner/geo"

// Environment answers whether straight segments between points are
// collision-free for a given Vehicle. It is purely functional and may be
// called many times per iteration; the core performs no caching of its
// results.
type Environment interface {
	// IsObstacleFree returns a mask of len(xFrom) == len(xTo) where entry i
	// is true iff the segment xFrom[i] -> xTo[i] is collision-free for
	// vehicle. A non-nil error aborts the planning run.
	IsObstacleFree(xFrom, xTo geo.MultiCoordinate, vehicle Vehicle) ([]bool, error)
}

// Vehicle is an opaque descriptor passed through to the Environment. The
// core never inspects it.
type Vehicle interface{}
