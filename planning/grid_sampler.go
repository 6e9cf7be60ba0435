package planning

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/geoplanner/geo"
)

// GridSampler biases its output away from already-explored cells of a grid
// spanning the bounding box around a source and target point. Every
// successful draw or registration increases the drawn cell's weight, which
// lowers its future sampling probability.
type GridSampler struct {
	gridSize int
	south    float64
	north    float64
	west     float64
	east     float64

	weights *mat.Dense // gridSize x gridSize, all entries start at 1
	rng     *rand.Rand
}

// NewGridSampler constructs a GridSampler spanning the bounding box of
// source and target, padded by buffer degrees on every side.
func NewGridSampler(source, target geo.Coordinate, gridSize int, buffer float64, rng *rand.Rand) *GridSampler {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	south := math.Min(source.Lat, target.Lat) - buffer
	north := math.Max(source.Lat, target.Lat) + buffer
	west := math.Min(source.Lon, target.Lon) - buffer
	east := math.Max(source.Lon, target.Lon) + buffer

	weights := mat.NewDense(gridSize, gridSize, nil)
	for r := 0; r < gridSize; r++ {
		for c := 0; c < gridSize; c++ {
			weights.Set(r, c, 1)
		}
	}

	return &GridSampler{
		gridSize: gridSize,
		south:    south,
		north:    north,
		west:     west,
		east:     east,
		weights:  weights,
		rng:      rng,
	}
}

// Sample draws k candidate points with replacement from a single snapshot
// of the grid's inverse-weight distribution, then jitters each draw
// uniformly within its cell. Each drawn cell's weight is incremented as it is
// drawn, but every draw uses the snapshot taken at the start (matching the
// source: probabilities are computed once per Sample call, not renormalized
// between individual draws within that call).
//
// Each draw is independent and with replacement: a cell can be (and, under
// a skewed distribution, often will be) drawn more than once within the
// same Sample call. gonum's stat/sampleuv.Weighted was considered here, but
// its Take() removes a cell from the distribution once drawn (sampling
// without replacement), which doesn't match spec.md's "draw k cell indices
// with replacement" — so the draw is done directly via an inverse-CDF walk
// over math/rand instead.
func (s *GridSampler) Sample(k int) geo.MultiCoordinate {
	inverse := make([]float64, s.gridSize*s.gridSize)
	total := 0.0
	for r := 0; r < s.gridSize; r++ {
		for c := 0; c < s.gridSize; c++ {
			w := 1 / s.weights.At(r, c)
			inverse[r*s.gridSize+c] = w
			total += w
		}
	}

	out := make(geo.MultiCoordinate, 0, k)
	cellWidthLat := (s.north - s.south) / float64(s.gridSize)
	cellWidthLon := (s.east - s.west) / float64(s.gridSize)

	for i := 0; i < k; i++ {
		idx := weightedIndex(inverse, total, s.rng)
		r, c := idx/s.gridSize, idx%s.gridSize
		out = append(out, s.drawInCell(r, c, cellWidthLat, cellWidthLon))
		s.weights.Set(r, c, s.weights.At(r, c)+1)
	}
	return out
}

// weightedIndex draws a single index from weights with probability
// proportional to its entry, via inverse-CDF sampling over a fixed total.
func weightedIndex(weights []float64, total float64, rng *rand.Rand) int {
	target := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if target < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

func (s *GridSampler) drawInCell(row, col int, cellWidthLat, cellWidthLon float64) geo.Coordinate {
	cellLat := s.south + (s.north-s.south)*float64(row)/float64(s.gridSize)
	cellLon := s.west + (s.east-s.west)*float64(col)/float64(s.gridSize)
	jitterLat := s.rng.Float64() * cellWidthLat
	jitterLon := s.rng.Float64() * cellWidthLon
	return geo.Coordinate{Lat: cellLat + jitterLat, Lon: cellLon + jitterLon}
}

// Register increments the weight of the cell containing x. Preserved as
// observed in the source: the division is by gridSize directly, not by the
// cell width (north-south)/gridSize that Sample implicitly uses. This is a
// known inconsistency in the source (spec design note, "register() units"),
// kept rather than silently corrected.
func (s *GridSampler) Register(x geo.Coordinate) {
	row := int((x.Lat - s.south) / float64(s.gridSize))
	col := int((x.Lon - s.west) / float64(s.gridSize))
	row = clampIndex(row, s.gridSize)
	col = clampIndex(col, s.gridSize)
	s.weights.Set(row, col, s.weights.At(row, col)+1)
}

func clampIndex(i, size int) int {
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
