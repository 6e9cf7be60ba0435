// Package envtest provides in-memory Environment test doubles for exercising
// the planning package without a real collision-checking backend.
package envtest

import (
	"sync"

	"go.viam.com/geoplanner/geo"
	"go.viam.com/geoplanner/planning"
)

// AlwaysFree is an Environment whose IsObstacleFree always returns an
// all-true mask, realizing spec's "obstacle-free environment" scenarios.
type AlwaysFree struct{}

// IsObstacleFree implements planning.Environment.
func (AlwaysFree) IsObstacleFree(xFrom, xTo geo.MultiCoordinate, _ planning.Vehicle) ([]bool, error) {
	mask := make([]bool, len(xFrom))
	for i := range mask {
		mask[i] = true
	}
	return mask, nil
}

// Blocking is an Environment that reports any segment touching one of its
// configured targets as blocked, realizing spec's "unreachable goal"
// scenario (S2).
type Blocking struct {
	Targets map[geo.Coordinate]bool
}

// NewBlocking constructs a Blocking environment that blocks every segment
// touching any of targets.
func NewBlocking(targets ...geo.Coordinate) *Blocking {
	set := make(map[geo.Coordinate]bool, len(targets))
	for _, t := range targets {
		set[t] = true
	}
	return &Blocking{Targets: set}
}

// IsObstacleFree implements planning.Environment.
func (b *Blocking) IsObstacleFree(xFrom, xTo geo.MultiCoordinate, _ planning.Vehicle) ([]bool, error) {
	mask := make([]bool, len(xFrom))
	for i := range mask {
		mask[i] = !b.Targets[xFrom[i]] && !b.Targets[xTo[i]]
	}
	return mask, nil
}

// Call records one IsObstacleFree invocation, for tests that assert on call
// shape.
type Call struct {
	XFrom geo.MultiCoordinate
	XTo   geo.MultiCoordinate
}

// Recording wraps another Environment and records every call it receives.
type Recording struct {
	Inner planning.Environment

	mu    sync.Mutex
	calls []Call
}

// NewRecording wraps inner in a call-recording Environment.
func NewRecording(inner planning.Environment) *Recording {
	return &Recording{Inner: inner}
}

// IsObstacleFree implements planning.Environment, delegating to Inner after
// recording the call.
func (r *Recording) IsObstacleFree(xFrom, xTo geo.MultiCoordinate, vehicle planning.Vehicle) ([]bool, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{XFrom: xFrom, XTo: xTo})
	r.mu.Unlock()
	return r.Inner.IsObstacleFree(xFrom, xTo, vehicle)
}

// Calls returns every call recorded so far, in order.
func (r *Recording) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// NullVehicle is a Vehicle carrying no information, suitable whenever a
// test doesn't care what the core passes through.
type NullVehicle struct{}
