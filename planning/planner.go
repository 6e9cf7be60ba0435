package planning

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/geoplanner/geo"
	"go.viam.com/geoplanner/logging"
)

// Planner drives the RRT* tree construction to a single-query start/goal
// plan. A Planner is not safe for concurrent use: spec.md mandates a
// strictly single-threaded core, and Plan owns the tree, cost map, sampler
// weights, and RNG for the duration of one call.
type Planner struct {
	Env     Environment
	Vehicle Vehicle
	Config  Config
	Logger  logging.Logger
}

// NewPlanner constructs a Planner. logger may be nil, in which case logging
// is discarded.
func NewPlanner(env Environment, vehicle Vehicle, cfg Config, logger logging.Logger) *Planner {
	if logger == nil {
		logger = logging.NewBlankLogger()
	}
	return &Planner{Env: env, Vehicle: vehicle, Config: cfg.WithDefaults(), Logger: logger}
}

// Plan runs the RRT* driver loop for the given number of iterations and
// returns the shortest xInit -> xGoal path currently known in the tree, or
// a nil path (with a nil error) if the goal was never attached. A non-nil
// error indicates invalid input, an environment failure, or cancellation;
// none of these return a partial path.
func (p *Planner) Plan(ctx context.Context, xInit, xGoal geo.Coordinate, iterations int) (geo.MultiCoordinate, error) {
	if err := p.validateInputs(xInit, xGoal, iterations); err != nil {
		return nil, err
	}
	cfg := p.Config.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	tree := NewTree(cfg.Eta, cfg.Gamma)
	tree.InsertRoot(xInit)
	costs := map[geo.Coordinate]float64{xInit: 0}

	gridSampler := NewGridSampler(xInit, xGoal, cfg.GridSize, cfg.BoundaryBuffer, rng)
	exploreExtender := NewExploreExtender(p.Env, p.Vehicle, costs, gridSampler)

	pointSampler := NewPointSampler(xGoal)
	goalExtender := NewGoalExtender(p.Env, p.Vehicle, costs, pointSampler)

	for i := 0; i < iterations; i++ {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ErrCanceled, ctx.Err().Error())
		default:
		}

		if i%cfg.GoalAttemptInterval != 0 {
			if _, err := exploreExtender.Extend(tree); err != nil {
				return nil, err
			}
			continue
		}

		resynced := singleSourceShortestPaths(tree.Graph, xInit)
		for c := range costs {
			delete(costs, c)
		}
		for c, d := range resynced {
			costs[c] = d
		}
		p.Logger.CDebugf(ctx, "cost map resynchronized at iteration %d, tree size %d", i, tree.NodeCount())

		if !tree.HasNode(xGoal) {
			attached, err := goalExtender.Extend(tree)
			if err != nil {
				return nil, err
			}
			if attached {
				p.Logger.CDebugf(ctx, "goal attached at iteration %d", i)
			}
		}
	}

	if !tree.HasNode(xInit) || !tree.HasNode(xGoal) {
		return nil, nil
	}
	path := extractPath(tree, xInit, xGoal)
	p.Logger.CDebugf(ctx, "plan complete: %d waypoints", len(path))
	return path, nil
}

// extractPath walks parent pointers from goal back to root and reverses
// them. Because the tree invariant guarantees exactly one path from root to
// any node, this is the shortest (and only) root->goal path in the tree;
// no separate shortest-path search over the tree's edges is needed once the
// cost map (and therefore the tree's shape) is authoritative.
func extractPath(tree *Tree, root, goal geo.Coordinate) geo.MultiCoordinate {
	var reversed geo.MultiCoordinate
	cur := goal
	for {
		reversed = append(reversed, cur)
		if cur == root {
			break
		}
		parent, ok := tree.Parent(cur)
		if !ok {
			break
		}
		cur = parent
	}
	out := make(geo.MultiCoordinate, len(reversed))
	for i, c := range reversed {
		out[len(reversed)-1-i] = c
	}
	return out
}

func (p *Planner) validateInputs(xInit, xGoal geo.Coordinate, iterations int) error {
	switch {
	case xInit == xGoal:
		return errors.Wrap(ErrInvalidInput, "start and goal must not be equal")
	case !xInit.IsFinite():
		return errors.Wrap(ErrInvalidInput, "start must be finite")
	case !xGoal.IsFinite():
		return errors.Wrap(ErrInvalidInput, "goal must be finite")
	case iterations <= 0:
		return errors.Wrap(ErrInvalidInput, "iterations must be positive")
	}
	return nil
}
