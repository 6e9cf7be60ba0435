package planning

import "go.viam.com/geoplanner/geo"

// Sampler produces candidate points for a TreeExtender to attempt to add to
// the tree. A Sampler is free to be stateful and biased.
type Sampler interface {
	// Sample produces k candidate points.
	Sample(k int) geo.MultiCoordinate
	// Register notifies the sampler that xNew was actually added to the
	// tree, so it can reduce future bias toward already-explored regions.
	Register(xNew geo.Coordinate)
}
