// Package geo provides the Coordinate primitive the planning package builds
// on: an (lat, lon) point with vectorized operations over ordered slices of
// points ("multi-coordinates"). Coordinates are compared by bit-exact value
// equality, which lets them double as both node identity and geometric
// payload for the planner's tree.
package geo

import (
	"math"

	geodist "github.com/kellydunn/golang-geo"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Coordinate is a point on the globe expressed in degrees. Two Coordinates
// are equal iff both fields are bit-exactly equal; callers must never round
// a Coordinate before using it as a map key or comparing it to a node
// already in a graph.
type Coordinate struct {
	Lat float64
	Lon float64
}

// IsFinite reports whether both components of c are finite.
func (c Coordinate) IsFinite() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lon) && !math.IsInf(c.Lon, 0)
}

// point converts c to the representation golang-geo's great-circle distance
// calculation expects.
func (c Coordinate) point() *geodist.Point {
	return geodist.NewPoint(c.Lat, c.Lon)
}

// MultiCoordinate is an ordered sequence of Coordinates supporting the
// vectorized operations the planning core relies on. Order is always
// preserved by these operations unless explicitly documented otherwise.
type MultiCoordinate []Coordinate

// Pairing selects how two MultiCoordinates are compared in EuclidDistSquared.
type Pairing int

const (
	// Pairwise computes the full cross-product distance matrix between a and b.
	Pairwise Pairing = iota
	// Aligned computes a single distance per index, requiring len(a) == len(b).
	Aligned
)

// EuclidDistSquared returns squared-Euclidean distances between a and b.
//
// With Pairwise, the result is a len(a) x len(b) matrix where
// result.At(i, j) == ||a[i] - b[j]||^2.
//
// With Aligned, a and b must have equal length; the result is a slice v
// where v[i] == ||a[i] - b[i]||^2.
//
// This is a cheap ordering proxy for geographic distance, used wherever the
// core only needs comparisons or radius checks, not a true metric.
func EuclidDistSquared(a, b MultiCoordinate, pairing Pairing) (*mat.Dense, []float64, error) {
	switch pairing {
	case Pairwise:
		m := mat.NewDense(len(a), len(b), nil)
		for i, pa := range a {
			for j, pb := range b {
				dLat := pa.Lat - pb.Lat
				dLon := pa.Lon - pb.Lon
				m.Set(i, j, dLat*dLat+dLon*dLon)
			}
		}
		return m, nil, nil
	case Aligned:
		if len(a) != len(b) {
			return nil, nil, errors.Errorf("aligned euclid_dist_squared requires equal lengths, got %d and %d", len(a), len(b))
		}
		v := make([]float64, len(a))
		for i := range a {
			dLat := a[i].Lat - b[i].Lat
			dLon := a[i].Lon - b[i].Lon
			v[i] = dLat*dLat + dLon*dLon
		}
		return nil, v, nil
	default:
		return nil, nil, errors.Errorf("unknown pairing %d", pairing)
	}
}

// GeoDist returns the element-aligned great-circle distance between a and b,
// in kilometers, using golang-geo's haversine implementation. a and b must
// have equal length. This is the true metric stored on graph edges, as
// distinct from the cheap EuclidDistSquared proxy used for comparisons.
func GeoDist(a, b MultiCoordinate) ([]float64, error) {
	if len(a) != len(b) {
		return nil, errors.Errorf("geo_dist requires equal lengths, got %d and %d", len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i].point().GreatCircleDistance(b[i].point())
	}
	return out, nil
}

// GeoDistOne is a convenience wrapper around GeoDist for a single pair.
func GeoDistOne(a, b Coordinate) float64 {
	return a.point().GreatCircleDistance(b.point())
}

// Normalized returns the element-wise unit vector of v in the local
// tangent-plane approximation (lon treated as x, lat as y; the sphere's
// curvature is ignored over the short steering distances this is used for).
// It is undefined, and panics, for any zero-length element; callers must
// never request it for such an element.
func (v MultiCoordinate) Normalized() MultiCoordinate {
	out := make(MultiCoordinate, len(v))
	for i, c := range v {
		vec := r3.Vector{X: c.Lon, Y: c.Lat, Z: 0}
		if vec.Norm() == 0 {
			panic("geo: Normalized called on a zero-length vector")
		}
		unit := vec.Normalize()
		out[i] = Coordinate{Lat: unit.Y, Lon: unit.X}
	}
	return out
}

// Sub returns the element-aligned difference v[i] - w[i].
func (v MultiCoordinate) Sub(w MultiCoordinate) MultiCoordinate {
	out := make(MultiCoordinate, len(v))
	for i := range v {
		out[i] = Coordinate{Lat: v[i].Lat - w[i].Lat, Lon: v[i].Lon - w[i].Lon}
	}
	return out
}

// Add returns the element-aligned sum v[i] + w[i].
func (v MultiCoordinate) Add(w MultiCoordinate) MultiCoordinate {
	out := make(MultiCoordinate, len(v))
	for i := range v {
		out[i] = Coordinate{Lat: v[i].Lat + w[i].Lat, Lon: v[i].Lon + w[i].Lon}
	}
	return out
}

// Scale multiplies every element of v by s.
func (v MultiCoordinate) Scale(s float64) MultiCoordinate {
	out := make(MultiCoordinate, len(v))
	for i := range v {
		out[i] = Coordinate{Lat: v[i].Lat * s, Lon: v[i].Lon * s}
	}
	return out
}

// Concat stacks multi-coordinates in order.
func Concat(parts ...MultiCoordinate) MultiCoordinate {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(MultiCoordinate, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Select returns the elements of v at the given indices, in order.
func (v MultiCoordinate) Select(indices []int) MultiCoordinate {
	out := make(MultiCoordinate, len(indices))
	for i, idx := range indices {
		out[i] = v[idx]
	}
	return out
}

// Mask returns the elements of v for which mask[i] is true, preserving order.
func (v MultiCoordinate) Mask(mask []bool) MultiCoordinate {
	out := make(MultiCoordinate, 0, len(v))
	for i, keep := range mask {
		if keep {
			out = append(out, v[i])
		}
	}
	return out
}

// Repeat returns a MultiCoordinate of length n, every element equal to c.
// Used by samplers whose conceptual output is a single point broadcast
// across a vectorized call of size n.
func Repeat(c Coordinate, n int) MultiCoordinate {
	out := make(MultiCoordinate, n)
	for i := range out {
		out[i] = c
	}
	return out
}
