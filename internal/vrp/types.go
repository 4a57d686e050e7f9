// Package vrp implements the capacitated vehicle routing engine: problem
// construction from raw dataset fields, a nearest-neighbor + 2-opt heuristic,
// and an exact branch-and-bound search over the scaled integer matrices.
package vrp

import "errors"

// Status codes returned with every Solution. The success sentinel is 1 to
// match the existing gateway client contract.
const (
	StatusOptimal    = 1 // solve succeeded; for the exact method the search was exhausted
	StatusFeasible   = 2 // time budget reached with a solution in hand
	StatusInfeasible = 3 // no solution exists (statically or proven by search)
	StatusNoSolution = 4 // time budget reached before any solution was found
)

var (
	// ErrInvalidParameter marks malformed request parameters (bad scaler,
	// time limit, or method). Surfaced as a client error, no solve attempted.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInconsistentSolution marks a solver output that violates the
	// coverage invariant. It indicates a solver or assembler bug.
	ErrInconsistentSolution = errors.New("inconsistent solution")
)

// Instance carries the raw fields of a parsed dataset. Node 0 is the depot.
type Instance struct {
	NumVehicles int
	Capacity    int
	X           []float64
	Y           []float64
	Demands     []int
	ReadyTimes  []int
	DueTimes    []int
	ServiceSec  []int
	HasWindows  bool
}

// RawSolution is the solver-internal route assignment: interior node
// sequences per vehicle, depot excluded. Empty slots mean unused vehicles.
type RawSolution struct {
	Status int
	Routes [][]int
}

// RouteMetadata is the per-route summary computed by the assembler.
type RouteMetadata struct {
	Time float64 `json:"time"` // elapsed route time in display units
	Load int     `json:"load"`
}

// Solution is the externally visible result shape.
type Solution struct {
	Status          int             `json:"status"`
	Objective       float64         `json:"objective"`
	Routes          [][]int         `json:"routes"` // depot-terminated node sequences
	Metadata        []RouteMetadata `json:"metadata"`
	TotalTime       float64         `json:"total_time"`
	TotalTravelTime float64         `json:"total_travel_time"`
	NumVehicles     int             `json:"num_vehicles"`
}

// ProgressEvent reports an intermediate best objective during a solve.
type ProgressEvent struct {
	Objective float64 `json:"objective"`
	Phase     string  `json:"phase"` // construction, improvement, search
}

// ProgressFunc receives intermediate solver progress. May be nil.
type ProgressFunc func(ProgressEvent)
