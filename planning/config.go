package planning

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Default tunable values, per spec.
const (
	// DefaultGoalAttemptInterval is the cadence, in iterations, at which the
	// planner resynchronizes its cost map and attempts to attach the goal.
	DefaultGoalAttemptInterval = 30
	// DefaultGridSize is the side length of the GridSampler's weight matrix.
	DefaultGridSize = 50
	// DefaultBoundaryBuffer is the padding, in degrees, added around the
	// start/goal bounding box the GridSampler draws from.
	DefaultBoundaryBuffer = 0.01
)

// Config holds the tunable parameters of the planner. Loading a Config from
// a file, flag set, or environment is out of scope for this module; callers
// assemble one programmatically and call Validate before passing it to
// NewPlanner.
type Config struct {
	// Eta is the steering coefficient: the maximum length of any edge added
	// to the tree, measured as Euclidean distance between (lat, lon) pairs in
	// degrees, the frame Steer clips in. It also caps the Near radius. Edge
	// dist values and costs are great-circle kilometers (geo.GeoDist), a
	// different unit.
	Eta float64
	// Gamma is the RRT* radius constant, in squared degrees.
	Gamma float64
	// GoalAttemptInterval is the number of iterations between goal-insertion
	// attempts. Zero means DefaultGoalAttemptInterval.
	GoalAttemptInterval int
	// GridSize is the side length of the GridSampler's weight matrix. Zero
	// means DefaultGridSize.
	GridSize int
	// BoundaryBuffer pads the GridSampler's bounding box. Negative is
	// invalid; zero is allowed (no padding).
	BoundaryBuffer float64
	// Seed, if non-nil, makes the planner's random sampling deterministic.
	// A nil Seed draws a source seeded from the current time.
	Seed *int64
}

// WithDefaults returns a copy of c with zero-valued tunables replaced by
// their documented defaults.
func (c Config) WithDefaults() Config {
	out := c
	if out.GoalAttemptInterval == 0 {
		out.GoalAttemptInterval = DefaultGoalAttemptInterval
	}
	if out.GridSize == 0 {
		out.GridSize = DefaultGridSize
	}
	return out
}

// Validate checks every precondition on c and aggregates every violation it
// finds with go.uber.org/multierr, rather than stopping at the first, so a
// caller assembling a Config from several sources can see every problem at
// once.
func (c Config) Validate() error {
	var err error
	if c.Eta <= 0 {
		err = multierr.Append(err, errors.Wrap(ErrInvalidInput, "eta must be positive"))
	}
	if c.Gamma <= 0 {
		err = multierr.Append(err, errors.Wrap(ErrInvalidInput, "gamma must be positive"))
	}
	if c.GoalAttemptInterval < 0 {
		err = multierr.Append(err, errors.Wrap(ErrInvalidInput, "goal attempt interval must be non-negative"))
	}
	if c.GridSize < 0 {
		err = multierr.Append(err, errors.Wrap(ErrInvalidInput, "grid size must be non-negative"))
	}
	if c.BoundaryBuffer < 0 {
		err = multierr.Append(err, errors.Wrap(ErrInvalidInput, "boundary buffer must be non-negative"))
	}
	return err
}
