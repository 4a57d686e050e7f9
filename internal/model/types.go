// Package model holds the wire shapes of the optimization API.
package model

import "github.com/dkvc/AutumSem-OR/internal/vrp"

// OptimizeRequest is the body of POST /v1/optimize. Field names follow the
// existing client contract.
type OptimizeRequest struct {
	// Dataset names a stored benchmark instance to solve.
	Dataset string `json:"dataset"`
	// TimePrecisionScaler converts fractional times into integer ticks.
	// Nil means the server default; an explicit zero is rejected.
	TimePrecisionScaler *float64 `json:"time_precision_scaler,omitempty"`
	// TimeLimit bounds the exact search, in seconds.
	TimeLimit float64 `json:"time_limit,omitempty"`
	// Method selects the solver: "heuristic" or "or-tools".
	Method string `json:"method,omitempty"`
	// Seed fixes the heuristic tie-break RNG for reproducible runs.
	Seed int64 `json:"seed,omitempty"`
	// SolveID lets a client pick the id ahead of time so it can open the
	// progress stream before posting the solve. Server-generated if empty.
	SolveID string `json:"solve_id,omitempty"`
}

// OptimizeResponse is the body returned by POST /v1/optimize.
type OptimizeResponse struct {
	SolveID  string       `json:"solve_id"`
	Dataset  string       `json:"dataset"`
	Method   string       `json:"method"`
	Solution vrp.Solution `json:"solution"`
	// ElapsedSec is wall-clock solve time, not the solver's internal budget.
	ElapsedSec float64 `json:"elapsed_sec"`
}

// DatasetList is the body of GET /v1/datasets.
type DatasetList struct {
	Datasets []string `json:"datasets"`
}

// ProgressMessage is one streamed event on the optimize WebSocket.
type ProgressMessage struct {
	SolveID   string  `json:"solve_id"`
	Phase     string  `json:"phase"`
	Objective float64 `json:"objective,omitempty"`
	// Done marks the final message; Solution is set only then.
	Done     bool          `json:"done,omitempty"`
	Solution *vrp.Solution `json:"solution,omitempty"`
	Error    string        `json:"error,omitempty"`
}
