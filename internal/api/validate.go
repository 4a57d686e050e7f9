package api

import (
	"fmt"
	"time"

	"github.com/dkvc/AutumSem-OR/internal/model"
	"github.com/dkvc/AutumSem-OR/internal/vrp"
)

// solveParams fills defaults and maps the wire request onto solver
// parameters. Structural validation of the resulting problem happens in
// vrp.Build; this catches the request-level mistakes worth a 400 up front.
func (s *Server) solveParams(req *model.OptimizeRequest) (vrp.Params, error) {
	if req.Dataset == "" {
		return vrp.Params{}, fmt.Errorf("dataset is required")
	}
	if req.Method == "" {
		req.Method = s.Defaults.Method
	}
	if req.Method != vrp.MethodHeuristic && req.Method != vrp.MethodExact {
		return vrp.Params{}, fmt.Errorf("invalid method: %s", req.Method)
	}
	scaler := s.Defaults.TimePrecisionScaler
	if req.TimePrecisionScaler != nil {
		scaler = *req.TimePrecisionScaler
	}
	if scaler <= 0 {
		return vrp.Params{}, fmt.Errorf("time_precision_scaler must be > 0")
	}
	if req.TimeLimit < 0 {
		return vrp.Params{}, fmt.Errorf("time_limit must be >= 0")
	}
	limit := time.Duration(req.TimeLimit * float64(time.Second))
	if limit == 0 {
		limit = s.Defaults.TimeLimit.Std()
	}
	if req.Seed < 0 {
		return vrp.Params{}, fmt.Errorf("seed must be >= 0")
	}
	return vrp.Params{
		Scaler:    scaler,
		TimeLimit: limit,
		Method:    req.Method,
		Seed:      req.Seed,
	}, nil
}
