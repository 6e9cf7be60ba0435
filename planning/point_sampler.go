package planning

import "go.viam.com/geoplanner/geo"

// PointSampler wraps a single fixed point and always returns it, used to
// inject the goal into the tree at a fixed cadence.
type PointSampler struct {
	point geo.Coordinate
}

// NewPointSampler constructs a PointSampler that always yields p.
func NewPointSampler(p geo.Coordinate) *PointSampler {
	return &PointSampler{point: p}
}

// Sample returns k copies of the wrapped point, for downstream vectorization.
func (s *PointSampler) Sample(k int) geo.MultiCoordinate {
	return geo.Repeat(s.point, k)
}

// Register is a no-op: a fixed-point sampler has nothing to adapt.
func (s *PointSampler) Register(geo.Coordinate) {}
