package planning

import (
	"github.com/pkg/errors"

	"go.viam.com/geoplanner/geo"
)

// TreeExtender performs one sample -> steer -> choose-best-parent -> insert
// -> rewire iteration against a shared tree and cost map. ExploreExtender
// and GoalExtender are TreeExtenders that differ only in which Sampler they
// use.
type TreeExtender struct {
	Env     Environment
	Vehicle Vehicle
	Sampler Sampler

	// Costs is shared across every extender operating on the same Planner
	// run: Coordinate -> sum of dist along the unique root path.
	Costs map[geo.Coordinate]float64
}

// NewExploreExtender builds a TreeExtender backed by a GridSampler, used for
// general tree exploration.
func NewExploreExtender(env Environment, vehicle Vehicle, costs map[geo.Coordinate]float64, sampler *GridSampler) *TreeExtender {
	return &TreeExtender{Env: env, Vehicle: vehicle, Sampler: sampler, Costs: costs}
}

// NewGoalExtender builds a TreeExtender backed by a PointSampler, used to
// periodically attempt to attach a fixed goal point.
func NewGoalExtender(env Environment, vehicle Vehicle, costs map[geo.Coordinate]float64, sampler *PointSampler) *TreeExtender {
	return &TreeExtender{Env: env, Vehicle: vehicle, Sampler: sampler, Costs: costs}
}

// Extend performs one extension iteration against tree. It reports whether
// the tree was modified. A false, nil result is a normal, silent failure to
// extend (the sampler returned a useless point, or no safe candidate
// existed); it is not an error.
func (e *TreeExtender) Extend(tree *Tree) (bool, error) {
	x := e.Sampler.Sample(1)

	xNearest, err := tree.Nearest(x)
	if err != nil {
		return false, err
	}
	xNew, err := tree.Steer(xNearest, x)
	if err != nil {
		return false, err
	}

	// A sample that steers onto an existing node is a no-op: the tree is
	// unchanged and the cost map must not be rewritten for that node.
	if tree.HasNode(xNew[0]) {
		return false, nil
	}

	candidates, err := e.candidates(tree, x, xNearest, xNew)
	if err != nil {
		return false, err
	}

	xNewRepeated := geo.Repeat(xNew[0], len(candidates))
	mask, err := e.Env.IsObstacleFree(candidates, xNewRepeated, e.Vehicle)
	if err != nil {
		return false, errors.Wrap(ErrEnvironmentFailure, err.Error())
	}
	// Both masks are queried before the tree is touched, so an environment
	// failure leaves the tree unchanged.
	reverseMask, err := e.Env.IsObstacleFree(xNewRepeated, candidates, e.Vehicle)
	if err != nil {
		return false, errors.Wrap(ErrEnvironmentFailure, err.Error())
	}

	ok, err := e.connectNew(tree, candidates, xNew[0], mask)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	e.Sampler.Register(xNew[0])

	edgeCosts, err := geo.GeoDist(xNewRepeated, candidates)
	if err != nil {
		return false, err
	}
	e.attemptRewire(tree, xNew[0], candidates.Mask(reverseMask), maskFloats(edgeCosts, reverseMask))
	return true, nil
}

// candidates builds the concatenated candidate set: every near-neighbor of
// xNew, followed by xNearest[i] for every source index i that produced no
// near neighbors. This guarantees at least one candidate survives even when
// the radius ball around xNew is empty.
func (e *TreeExtender) candidates(tree *Tree, x, xNearest, xNew geo.MultiCoordinate) (geo.MultiCoordinate, error) {
	n := tree.NodeCount() - 1
	xNear, srcIndices, err := tree.Near(xNew, n)
	if err != nil {
		return nil, err
	}

	hasNear := make([]bool, len(x))
	for _, si := range srcIndices {
		hasNear[si] = true
	}
	var fallback []int
	for i, had := range hasNear {
		if !had {
			fallback = append(fallback, i)
		}
	}
	return geo.Concat(xNear, xNearest.Select(fallback)), nil
}

// connectNew picks the candidate minimizing cost-to-parent + edge cost among
// those passing mask, ties broken by position in candidates, and inserts
// xNew as its child.
func (e *TreeExtender) connectNew(tree *Tree, candidates geo.MultiCoordinate, xNew geo.Coordinate, mask []bool) (bool, error) {
	any := false
	for _, m := range mask {
		if m {
			any = true
			break
		}
	}
	if !any {
		return false, nil
	}

	edgeCosts, err := geo.GeoDist(candidates, geo.Repeat(xNew, len(candidates)))
	if err != nil {
		return false, err
	}

	best := -1
	var bestTotal float64
	for i, c := range candidates {
		if !mask[i] {
			continue
		}
		total := e.Costs[c] + edgeCosts[i]
		if best == -1 || total < bestTotal {
			best = i
			bestTotal = total
		}
	}

	tree.AddChild(candidates[best], xNew, edgeCosts[best])
	e.Costs[xNew] = bestTotal
	return true, nil
}

// attemptRewire re-parents every candidate in rewireCandidates whose cost
// strictly improves by routing through xNew, in candidate order (later
// rewires observe the effect of earlier ones via the shared cost map).
func (e *TreeExtender) attemptRewire(tree *Tree, xNew geo.Coordinate, rewireCandidates geo.MultiCoordinate, rewiringCosts []float64) {
	for i, c := range rewireCandidates {
		candidateCost := e.Costs[xNew] + rewiringCosts[i]
		if candidateCost < e.Costs[c] {
			tree.Rewire(xNew, c, rewiringCosts[i])
			e.Costs[c] = candidateCost
		}
	}
}

func maskFloats(v []float64, mask []bool) []float64 {
	out := make([]float64, 0, len(v))
	for i, keep := range mask {
		if keep {
			out = append(out, v[i])
		}
	}
	return out
}
