package vrp

import (
	"fmt"
	"math"
	"time"
)

// Method names accepted by ForMethod. The exact method keeps its historical
// wire name so existing clients need no change.
const (
	MethodHeuristic = "heuristic"
	MethodExact     = "or-tools"
)

// Params are the per-request knobs passed alongside a dataset.
type Params struct {
	// Scaler converts fractional time units into integer ticks,
	// e.g. 100 keeps two decimals of precision. Must be > 0.
	Scaler float64
	// TimeLimit bounds the exact search. Ignored by the heuristic.
	TimeLimit time.Duration
	Method    string
	// Seed fixes the heuristic tie-break RNG. Zero means the default seed.
	Seed int64
	// Progress, when set, receives intermediate best objectives.
	Progress ProgressFunc
}

// Problem is a validated, solver-ready instance. Immutable once built;
// its lifetime is a single optimization request.
type Problem struct {
	NumNodes    int
	NumVehicles int
	Capacity    int64
	Demands     []int64

	// Dist is the travel cost matrix used as the objective.
	Dist [][]float64
	// ScaledDist is Dist rounded half-up into integer ticks for the
	// exact solver's integer domain.
	ScaledDist [][]int64
	// Travel is the scaled travel time plus destination service time,
	// used for schedule replay and time-window feasibility.
	Travel  [][]int64
	Service []int64
	// Windows holds scaled [earliest, latest] completion per node.
	// Nil when the dataset defines no service windows.
	Windows [][2]int64

	Scaler    float64
	TimeLimit time.Duration
	Method    string

	// Infeasible marks instances whose total demand exceeds fleet
	// capacity. Solvers short-circuit these without searching.
	Infeasible bool

	// symmetric is false when Dist[i][j] != Dist[j][i] for some pair.
	// Route reversals then reprice every interior arc.
	symmetric bool

	seed     int64
	progress ProgressFunc
}

// roundHalfUp rounds to the nearest integer with ties away from zero
// upward, applied independently per cell. The same policy is used when
// scaling and when presenting inverse-scaled values.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}

// Build converts raw dataset fields plus request parameters into a validated
// problem. Travel times are Euclidean distances scaled into integer ticks
// with the destination's service time folded in, matching how the datasets
// define travel cost.
func Build(in Instance, p Params) (*Problem, error) {
	if p.Scaler <= 0 {
		return nil, fmt.Errorf("%w: time_precision_scaler must be > 0, got %v", ErrInvalidParameter, p.Scaler)
	}
	switch p.Method {
	case MethodHeuristic:
	case MethodExact:
		if p.TimeLimit <= 0 {
			return nil, fmt.Errorf("%w: time_limit must be > 0 for method %q", ErrInvalidParameter, p.Method)
		}
	default:
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidParameter, p.Method)
	}

	n := len(in.X)
	if n == 0 || len(in.Y) != n {
		return nil, fmt.Errorf("%w: coordinate vectors must be non-empty and equal length", ErrInvalidParameter)
	}
	if len(in.Demands) != n {
		return nil, fmt.Errorf("%w: demand length %d does not match node count %d", ErrInvalidParameter, len(in.Demands), n)
	}
	if in.NumVehicles <= 0 || in.Capacity <= 0 {
		return nil, fmt.Errorf("%w: vehicle count and capacity must be positive", ErrInvalidParameter)
	}
	if in.Demands[0] != 0 {
		return nil, fmt.Errorf("%w: depot demand must be zero", ErrInvalidParameter)
	}
	for i, d := range in.Demands {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative demand at node %d", ErrInvalidParameter, i)
		}
	}

	pr := &Problem{
		NumNodes:    n,
		NumVehicles: in.NumVehicles,
		Capacity:    int64(in.Capacity),
		Demands:     make([]int64, n),
		Dist:        make([][]float64, n),
		ScaledDist:  make([][]int64, n),
		Travel:      make([][]int64, n),
		Service:     make([]int64, n),
		Scaler:      p.Scaler,
		TimeLimit:   p.TimeLimit,
		Method:      p.Method,
		symmetric:   true, // Euclidean distances
		seed:        p.Seed,
		progress:    p.Progress,
	}
	var total int64
	for i, d := range in.Demands {
		pr.Demands[i] = int64(d)
		total += int64(d)
	}
	if total > int64(in.NumVehicles)*int64(in.Capacity) {
		pr.Infeasible = true
	}

	for i := range pr.Service {
		if i < len(in.ServiceSec) {
			pr.Service[i] = roundHalfUp(float64(in.ServiceSec[i]) * p.Scaler)
		}
	}
	for i := 0; i < n; i++ {
		pr.Dist[i] = make([]float64, n)
		pr.ScaledDist[i] = make([]int64, n)
		pr.Travel[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := math.Hypot(in.X[i]-in.X[j], in.Y[i]-in.Y[j])
			pr.Dist[i][j] = d
			pr.ScaledDist[i][j] = roundHalfUp(d * p.Scaler)
			pr.Travel[i][j] = pr.ScaledDist[i][j] + pr.Service[j]
		}
	}

	if in.HasWindows {
		if len(in.ReadyTimes) != n || len(in.DueTimes) != n {
			return nil, fmt.Errorf("%w: time window vectors must match node count", ErrInvalidParameter)
		}
		pr.Windows = make([][2]int64, n)
		for i := 0; i < n; i++ {
			ready := roundHalfUp(float64(in.ReadyTimes[i]) * p.Scaler)
			due := roundHalfUp(float64(in.DueTimes[i]) * p.Scaler)
			if due < ready {
				return nil, fmt.Errorf("%w: due time precedes ready time at node %d", ErrInvalidParameter, i)
			}
			// Windows bound service completion, so service time shifts both ends.
			pr.Windows[i] = [2]int64{ready + pr.Service[i], due + pr.Service[i]}
		}
	}

	return pr, nil
}

// BuildMatrix constructs a problem from explicit cost matrices instead of
// coordinates. Used when a dataset ships raw distance/time matrices.
func BuildMatrix(dist [][]float64, demands []int, numVehicles, capacity int, p Params) (*Problem, error) {
	if p.Scaler <= 0 {
		return nil, fmt.Errorf("%w: time_precision_scaler must be > 0, got %v", ErrInvalidParameter, p.Scaler)
	}
	n := len(dist)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty distance matrix", ErrInvalidParameter)
	}
	for i, row := range dist {
		if len(row) != n {
			return nil, fmt.Errorf("%w: distance matrix row %d has length %d, want %d", ErrInvalidParameter, i, len(row), n)
		}
		for j, v := range row {
			if v < 0 || math.IsNaN(v) {
				return nil, fmt.Errorf("%w: negative or NaN distance at (%d,%d)", ErrInvalidParameter, i, j)
			}
		}
		if dist[i][i] != 0 {
			return nil, fmt.Errorf("%w: nonzero diagonal at node %d", ErrInvalidParameter, i)
		}
	}
	if len(demands) != n {
		return nil, fmt.Errorf("%w: demand length %d does not match node count %d", ErrInvalidParameter, len(demands), n)
	}
	if numVehicles <= 0 || capacity <= 0 {
		return nil, fmt.Errorf("%w: vehicle count and capacity must be positive", ErrInvalidParameter)
	}

	pr := &Problem{
		NumNodes:    n,
		NumVehicles: numVehicles,
		Capacity:    int64(capacity),
		Demands:     make([]int64, n),
		Dist:        make([][]float64, n),
		ScaledDist:  make([][]int64, n),
		Travel:      make([][]int64, n),
		Service:     make([]int64, n),
		Scaler:      p.Scaler,
		TimeLimit:   p.TimeLimit,
		Method:      p.Method,
		seed:        p.Seed,
		progress:    p.Progress,
	}
	var total int64
	for i, d := range demands {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative demand at node %d", ErrInvalidParameter, i)
		}
		pr.Demands[i] = int64(d)
		total += int64(d)
	}
	if total > int64(numVehicles)*int64(capacity) {
		pr.Infeasible = true
	}
	pr.symmetric = true
	for i := 0; i < n; i++ {
		pr.Dist[i] = make([]float64, n)
		pr.ScaledDist[i] = make([]int64, n)
		pr.Travel[i] = make([]int64, n)
		copy(pr.Dist[i], dist[i])
		for j := 0; j < n; j++ {
			pr.ScaledDist[i][j] = roundHalfUp(dist[i][j] * p.Scaler)
			pr.Travel[i][j] = pr.ScaledDist[i][j]
			if dist[i][j] != dist[j][i] {
				pr.symmetric = false
			}
		}
	}

	return pr, nil
}

// emit forwards a progress event when a callback is registered.
func (p *Problem) emit(phase string, objective float64) {
	if p.progress != nil {
		p.progress(ProgressEvent{Objective: objective, Phase: phase})
	}
}
