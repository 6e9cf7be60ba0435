package planning

import "github.com/pkg/errors"

// Sentinel error kinds. Callers should compare against these with
// errors.Is; every returned error wraps one of these with github.com/pkg/errors
// so a stack trace is available at the first point of failure.
var (
	// ErrInvalidInput covers a start equal to goal, non-finite coordinates,
	// a non-positive iteration count, or misaligned multi-coordinate lengths
	// where an aligned pairing is required.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyGraph is returned by Nearest or Near when the graph has no
	// nodes. Planner guarantees this cannot happen once Plan has inserted
	// its root; it can only be triggered by direct PlanningGraph misuse.
	ErrEmptyGraph = errors.New("empty graph")

	// ErrEnvironmentFailure wraps an error returned by the Environment's
	// safety query. It is propagated out of Plan; the tree is left exactly
	// as it was before the failing call.
	ErrEnvironmentFailure = errors.New("environment query failed")

	// ErrCanceled is returned when the context passed to Plan is canceled
	// before planning completes.
	ErrCanceled = errors.New("planning canceled")
)

// TreeInvariantError indicates an attempt to give an existing non-root node
// a second parent. Spec calls this an implementation bug that must be
// detected in debug builds; in Go that is expressed as a panic raised by the
// mutating method itself rather than a recoverable error, since no caller
// of Tree.AddChild can meaningfully continue past a broken tree
// invariant.
type TreeInvariantError struct {
	Child  interface{}
	Parent interface{}
}

func (e *TreeInvariantError) Error() string {
	return "planning: tree invariant violation: node already has a parent"
}
