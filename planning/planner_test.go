package planning

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"go.viam.com/test"

	"go.viam.com/geoplanner/geo"
	"go.viam.com/geoplanner/planning/envtest"
)

func testConfig(seed int64) Config {
	s := seed
	return Config{Eta: 5.0, Gamma: 1e6, GoalAttemptInterval: 5, GridSize: 10, Seed: &s}
}

// S1: a goal close enough to reach in a single goal-attempt iteration is
// attached and a path is returned.
func TestPlanScenarioDirectGoalAttach(t *testing.T) {
	start := geo.Coordinate{Lat: 0, Lon: 0}
	goal := geo.Coordinate{Lat: 0.001, Lon: 0.001}
	p := NewPlanner(envtest.AlwaysFree{}, envtest.NullVehicle{}, testConfig(1), nil)

	path, err := p.Plan(context.Background(), start, goal, 10)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(path), test.ShouldBeGreaterThan, 0)
	test.That(t, path[0], test.ShouldEqual, start)
	test.That(t, path[len(path)-1], test.ShouldEqual, goal)
}

// S2: a goal that can never be connected because every segment touching it
// is blocked must yield a nil path, not an error.
func TestPlanScenarioUnreachableGoal(t *testing.T) {
	start := geo.Coordinate{Lat: 0, Lon: 0}
	goal := geo.Coordinate{Lat: 0.001, Lon: 0.001}
	env := envtest.NewBlocking(goal)
	p := NewPlanner(env, envtest.NullVehicle{}, testConfig(1), nil)

	path, err := p.Plan(context.Background(), start, goal, 50)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldBeNil)
}

// P8: running with the same seed and environment twice produces identical
// results.
func TestPlanScenarioDeterministicWithFixedSeed(t *testing.T) {
	start := geo.Coordinate{Lat: 0, Lon: 0}
	goal := geo.Coordinate{Lat: 0.2, Lon: 0.2}

	p1 := NewPlanner(envtest.AlwaysFree{}, envtest.NullVehicle{}, testConfig(99), nil)
	p2 := NewPlanner(envtest.AlwaysFree{}, envtest.NullVehicle{}, testConfig(99), nil)

	path1, err1 := p1.Plan(context.Background(), start, goal, 200)
	path2, err2 := p2.Plan(context.Background(), start, goal, 200)

	test.That(t, err1, test.ShouldBeNil)
	test.That(t, err2, test.ShouldBeNil)
	test.That(t, path1, test.ShouldResemble, path2)
}

// P1: every edge the planner adds respects the steering coefficient Eta.
func TestPlanRespectsEtaEdgeBound(t *testing.T) {
	start := geo.Coordinate{Lat: 0, Lon: 0}
	goal := geo.Coordinate{Lat: 0.5, Lon: 0.5}
	cfg := testConfig(3)
	cfg.Eta = 0.05

	tree := NewTree(cfg.Eta, cfg.Gamma)
	tree.InsertRoot(start)
	costs := map[geo.Coordinate]float64{start: 0}

	rng := rand.New(rand.NewSource(*cfg.Seed))
	sampler := NewGridSampler(start, goal, cfg.GridSize, DefaultBoundaryBuffer, rng)
	extender := NewExploreExtender(envtest.AlwaysFree{}, envtest.NullVehicle{}, costs, sampler)
	for i := 0; i < 200; i++ {
		_, err := extender.Extend(tree)
		test.That(t, err, test.ShouldBeNil)
	}

	for _, node := range tree.Nodes() {
		if node == start {
			continue
		}
		parent, ok := tree.Parent(node)
		test.That(t, ok, test.ShouldBeTrue)
		dist := geo.GeoDistOne(parent, node)
		test.That(t, dist, test.ShouldBeLessThanOrEqualTo, cfg.Eta*200) // generous geographic-degree-to-km slack
	}
}

// P4: resynchronizing the cost map via Dijkstra never raises any existing
// node's recorded cost above what it already was (it can only tighten costs
// that rewiring has improved since the last resync).
func TestPlanCostsMonotonicAfterResync(t *testing.T) {
	start := geo.Coordinate{Lat: 0, Lon: 0}
	goal := geo.Coordinate{Lat: 0.3, Lon: 0.3}
	cfg := testConfig(5)

	tree := NewTree(cfg.Eta, cfg.Gamma)
	tree.InsertRoot(start)
	costs := map[geo.Coordinate]float64{start: 0}

	rng := rand.New(rand.NewSource(*cfg.Seed))
	sampler := NewGridSampler(start, goal, cfg.GridSize, DefaultBoundaryBuffer, rng)
	extender := NewExploreExtender(envtest.AlwaysFree{}, envtest.NullVehicle{}, costs, sampler)
	for i := 0; i < 100; i++ {
		_, err := extender.Extend(tree)
		test.That(t, err, test.ShouldBeNil)
	}

	before := make(map[geo.Coordinate]float64, len(costs))
	for k, v := range costs {
		before[k] = v
	}

	resynced := singleSourceShortestPaths(tree.Graph, start)
	for c, pre := range before {
		post, ok := resynced[c]
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, post, test.ShouldBeLessThanOrEqualTo, pre+1e-9)
	}
}

// S5: the adaptive radius shrinks as the tree grows.
func TestPlanRadiusShrinksAsTreeGrows(t *testing.T) {
	g := NewGraph(10.0, 10.0)
	rSmall := g.radius(1)
	rLarge := g.radius(100000)
	test.That(t, rLarge, test.ShouldBeLessThan, rSmall)
}

// S6: canceling the context stops planning at the next iteration boundary
// and surfaces ErrCanceled.
func TestPlanCanceledContext(t *testing.T) {
	start := geo.Coordinate{Lat: 0, Lon: 0}
	goal := geo.Coordinate{Lat: 1, Lon: 1}
	p := NewPlanner(envtest.AlwaysFree{}, envtest.NullVehicle{}, testConfig(1), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Plan(ctx, start, goal, 1000)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrCanceled), test.ShouldBeTrue)
}

func TestPlanRejectsEqualStartAndGoal(t *testing.T) {
	p := NewPlanner(envtest.AlwaysFree{}, envtest.NullVehicle{}, testConfig(1), nil)
	same := geo.Coordinate{Lat: 1, Lon: 1}
	_, err := p.Plan(context.Background(), same, same, 10)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPlanRejectsNonPositiveIterations(t *testing.T) {
	p := NewPlanner(envtest.AlwaysFree{}, envtest.NullVehicle{}, testConfig(1), nil)
	_, err := p.Plan(context.Background(), geo.Coordinate{Lat: 0, Lon: 0}, geo.Coordinate{Lat: 1, Lon: 1}, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPlanRejectsNonFiniteCoordinates(t *testing.T) {
	p := NewPlanner(envtest.AlwaysFree{}, envtest.NullVehicle{}, testConfig(1), nil)
	var zero float64
	notANumber := zero / zero
	bad := geo.Coordinate{Lat: notANumber, Lon: 0}
	_, err := p.Plan(context.Background(), bad, geo.Coordinate{Lat: 1, Lon: 1}, 10)
	test.That(t, err, test.ShouldNotBeNil)
}
