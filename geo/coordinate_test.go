package geo

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestEuclidDistSquaredPairwise(t *testing.T) {
	a := MultiCoordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}
	b := MultiCoordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 3, Lon: 4}}

	m, v, err := EuclidDistSquared(a, b, Pairwise)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldBeNil)
	test.That(t, m.At(0, 0), test.ShouldAlmostEqual, 0.0)
	test.That(t, m.At(0, 1), test.ShouldAlmostEqual, 1.0)
	test.That(t, m.At(1, 2), test.ShouldAlmostEqual, (1.0-3.0)*(1.0-3.0)+(1.0-4.0)*(1.0-4.0))
}

func TestEuclidDistSquaredAligned(t *testing.T) {
	a := MultiCoordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}
	b := MultiCoordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}}

	m, v, err := EuclidDistSquared(a, b, Aligned)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m, test.ShouldBeNil)
	test.That(t, v, test.ShouldResemble, []float64{0.0, 1.0})
}

func TestEuclidDistSquaredAlignedMismatch(t *testing.T) {
	a := MultiCoordinate{{Lat: 0, Lon: 0}}
	b := MultiCoordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}}
	_, _, err := EuclidDistSquared(a, b, Aligned)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGeoDist(t *testing.T) {
	a := MultiCoordinate{{Lat: 0, Lon: 0}}
	b := MultiCoordinate{{Lat: 0, Lon: 0}}
	d, err := GeoDist(a, b)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d[0], test.ShouldAlmostEqual, 0.0)

	// A full degree of longitude at the equator is roughly 111.2 km.
	b = MultiCoordinate{{Lat: 0, Lon: 1}}
	d, err = GeoDist(a, b)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d[0], test.ShouldBeBetween, 110.0, 112.0)
}

func TestNormalized(t *testing.T) {
	v := MultiCoordinate{{Lat: 3, Lon: 4}}
	n := v.Normalized()
	mag := math.Hypot(n[0].Lat, n[0].Lon)
	test.That(t, mag, test.ShouldAlmostEqual, 1.0)
	test.That(t, n[0].Lat, test.ShouldAlmostEqual, 3.0/5.0)
	test.That(t, n[0].Lon, test.ShouldAlmostEqual, 4.0/5.0)
}

func TestNormalizedZeroPanics(t *testing.T) {
	defer func() {
		r := recover()
		test.That(t, r, test.ShouldNotBeNil)
	}()
	MultiCoordinate{{Lat: 0, Lon: 0}}.Normalized()
}

func TestConcat(t *testing.T) {
	a := MultiCoordinate{{Lat: 1, Lon: 1}}
	b := MultiCoordinate{{Lat: 2, Lon: 2}, {Lat: 3, Lon: 3}}
	out := Concat(a, b)
	test.That(t, out, test.ShouldResemble, MultiCoordinate{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 3, Lon: 3}})
}

func TestSelectAndMask(t *testing.T) {
	v := MultiCoordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}
	test.That(t, v.Select([]int{2, 0}), test.ShouldResemble, MultiCoordinate{{Lat: 2, Lon: 2}, {Lat: 0, Lon: 0}})
	test.That(t, v.Mask([]bool{false, true, true}), test.ShouldResemble, MultiCoordinate{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}})
}

func TestIsFinite(t *testing.T) {
	test.That(t, Coordinate{Lat: 1, Lon: 2}.IsFinite(), test.ShouldBeTrue)
	test.That(t, Coordinate{Lat: math.NaN(), Lon: 2}.IsFinite(), test.ShouldBeFalse)
	test.That(t, Coordinate{Lat: math.Inf(1), Lon: 2}.IsFinite(), test.ShouldBeFalse)
}

func TestCoordinateEquality(t *testing.T) {
	a := Coordinate{Lat: 1.5, Lon: 2.5}
	b := Coordinate{Lat: 1.5, Lon: 2.5}
	test.That(t, a, test.ShouldEqual, b)

	m := map[Coordinate]int{a: 1}
	m[b] = 2
	test.That(t, len(m), test.ShouldEqual, 1)
}
