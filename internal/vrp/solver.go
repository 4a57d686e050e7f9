package vrp

import (
	"context"
	"fmt"
)

// Solver produces a route assignment for a problem. Implementations are
// stateless; all per-request state lives in the Problem.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (RawSolution, error)
}

// ForMethod selects the solver implementation for a request method string.
func ForMethod(method string) (Solver, error) {
	switch method {
	case MethodHeuristic:
		return HeuristicSolver{}, nil
	case MethodExact:
		return ExactSolver{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidParameter, method)
	}
}
