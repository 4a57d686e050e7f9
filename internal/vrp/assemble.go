package vrp

import "fmt"

// Assemble converts raw solver output into the externally visible solution:
// depot-terminated routes, per-route {time, load} metadata replayed against
// the travel matrix and demands, and aggregate totals. Route times are
// inverse-scaled back to display units.
//
// For successful statuses the coverage invariant is re-checked defensively:
// every customer must appear in exactly one route.
func Assemble(p *Problem, raw RawSolution) (Solution, error) {
	sol := Solution{
		Status:   raw.Status,
		Routes:   [][]int{},
		Metadata: []RouteMetadata{},
	}
	if raw.Status != StatusOptimal && raw.Status != StatusFeasible {
		return sol, nil
	}

	seen := make([]int, p.NumNodes)
	for _, route := range raw.Routes {
		for _, u := range route {
			if u <= 0 || u >= p.NumNodes {
				return Solution{}, fmt.Errorf("%w: node %d out of range", ErrInconsistentSolution, u)
			}
			seen[u]++
		}
	}
	for u := 1; u < p.NumNodes; u++ {
		if seen[u] != 1 {
			return Solution{}, fmt.Errorf("%w: node %d visited %d times", ErrInconsistentSolution, u, seen[u])
		}
	}

	var totalTicks int64
	var serviceTicks int64
	for _, s := range p.Service {
		serviceTicks += s
	}
	for _, route := range raw.Routes {
		wrapped := make([]int, 0, len(route)+2)
		wrapped = append(wrapped, 0)
		wrapped = append(wrapped, route...)
		wrapped = append(wrapped, 0)
		sol.Routes = append(sol.Routes, wrapped)

		var ticks, load int64
		for i := 0; i < len(wrapped)-1; i++ {
			ticks += p.Travel[wrapped[i]][wrapped[i+1]]
		}
		for _, u := range route {
			load += p.Demands[u]
		}
		sol.Metadata = append(sol.Metadata, RouteMetadata{
			Time: float64(ticks) / p.Scaler,
			Load: int(load),
		})
		totalTicks += ticks
		if len(route) > 0 {
			sol.NumVehicles++
		}
		sol.Objective += routeCost(p, route)
	}

	sol.TotalTime = float64(totalTicks) / p.Scaler
	// Travel time excludes the time spent servicing customers.
	sol.TotalTravelTime = float64(totalTicks-serviceTicks) / p.Scaler
	return sol, nil
}
