package vrp

import (
	"context"
	"sort"
	"time"
)

// ExactSolver runs a depth-first branch-and-bound over the scaled integer
// matrices: vehicles are filled one at a time, each route extended by
// ascending arc cost, with capacity and time-window feasibility enforced on
// every extension and an admissible lower bound pruning the search. The
// incumbent is seeded from the heuristic so pruning bites early.
//
// The search is bounded by the problem's time limit: exhausting the tree
// yields StatusOptimal (or StatusInfeasible when nothing exists), hitting the
// deadline yields StatusFeasible with the incumbent or StatusNoSolution.
type ExactSolver struct{}

type bnbEngine struct {
	p        *Problem
	ctx      context.Context
	deadline time.Time
	steps    int
	timedOut bool

	visited   []bool
	remaining int

	// minIn[v] is the cheapest scaled arc entering customer v. Every
	// unvisited customer must still be entered once, so the sum over
	// unvisited nodes is an admissible completion bound.
	minIn []int64

	// order[u] lists customers by ascending ScaledDist[u][v], index
	// tiebreak, for deterministic cheapest-first branching.
	order [][]int

	routes [][]int

	best     [][]int
	bestCost int64
	found    bool
}

func (ExactSolver) Solve(ctx context.Context, p *Problem) (RawSolution, error) {
	if p.Infeasible {
		return RawSolution{Status: StatusInfeasible}, nil
	}

	e := &bnbEngine{
		p:        p,
		ctx:      ctx,
		deadline: time.Now().Add(p.TimeLimit),
		visited:  make([]bool, p.NumNodes),
		routes:   make([][]int, p.NumVehicles),
	}
	e.visited[0] = true
	e.remaining = p.NumNodes - 1
	e.precompute()
	e.seedIncumbent()

	start := int64(0)
	if p.Windows != nil {
		start = p.Windows[0][0]
	}
	e.dfs(0, 0, 0, start, 0, 0)

	switch {
	case e.timedOut && e.found:
		return RawSolution{Status: StatusFeasible, Routes: e.best}, nil
	case e.timedOut:
		return RawSolution{Status: StatusNoSolution}, nil
	case e.found:
		return RawSolution{Status: StatusOptimal, Routes: e.best}, nil
	default:
		return RawSolution{Status: StatusInfeasible}, nil
	}
}

func (e *bnbEngine) precompute() {
	p := e.p
	n := p.NumNodes
	e.minIn = make([]int64, n)
	for v := 1; v < n; v++ {
		min := int64(-1)
		for u := 0; u < n; u++ {
			if u == v {
				continue
			}
			if c := p.ScaledDist[u][v]; min < 0 || c < min {
				min = c
			}
		}
		e.minIn[v] = min
	}
	e.order = make([][]int, n)
	for u := 0; u < n; u++ {
		row := make([]int, 0, n-1)
		for v := 1; v < n; v++ {
			if v != u {
				row = append(row, v)
			}
		}
		sort.Slice(row, func(a, b int) bool {
			ca, cb := p.ScaledDist[u][row[a]], p.ScaledDist[u][row[b]]
			if ca == cb {
				return row[a] < row[b]
			}
			return ca < cb
		})
		e.order[u] = row
	}
}

// seedIncumbent installs the heuristic solution as the initial upper bound
// when it also satisfies the time windows.
func (e *bnbEngine) seedIncumbent() {
	routes, _, ok := constructAndImprove(e.p, defaultSeed)
	if !ok {
		return
	}
	for _, r := range routes {
		if !scheduleFeasible(e.p, r) {
			return
		}
	}
	e.recordIncumbent(routes, scaledObjective(e.p, routes))
}

func (e *bnbEngine) recordIncumbent(routes [][]int, cost int64) {
	if e.found && cost >= e.bestCost {
		return
	}
	cp := make([][]int, e.p.NumVehicles)
	for i := range cp {
		if i < len(routes) {
			cp[i] = append([]int(nil), routes[i]...)
		} else {
			cp[i] = []int{}
		}
	}
	e.best = cp
	e.bestCost = cost
	e.found = true
	e.p.emit("search", float64(cost)/e.p.Scaler)
}

// deadlineCheck tests the budget sparsely so the hot loop stays cheap.
func (e *bnbEngine) deadlineCheck() bool {
	if e.timedOut {
		return true
	}
	e.steps++
	if e.steps&1023 != 0 {
		return false
	}
	if e.ctx.Err() != nil || time.Now().After(e.deadline) {
		e.timedOut = true
	}
	return e.timedOut
}

// lowerBound is costSoFar plus the cheapest way every unvisited customer can
// still be entered. Admissible: any completion pays at least minIn per node.
func (e *bnbEngine) lowerBound(costSoFar int64) int64 {
	lb := costSoFar
	for v := 1; v < e.p.NumNodes; v++ {
		if !e.visited[v] {
			lb += e.minIn[v]
		}
	}
	return lb
}

// dfs extends vehicle v's route from node last with accumulated load, route
// clock t, and scaled cost. Vehicles are identical, so route-to-vehicle
// permutations are pruned by requiring each route's first customer to exceed
// the previous route's first customer (prevFirst).
func (e *bnbEngine) dfs(v, last int, load, t, costSoFar int64, prevFirst int) {
	if e.deadlineCheck() {
		return
	}
	p := e.p

	if e.remaining == 0 {
		total := costSoFar + p.ScaledDist[last][0]
		if !e.found || total < e.bestCost {
			e.recordIncumbent(e.routes, total)
		}
		return
	}
	if e.found && e.lowerBound(costSoFar) >= e.bestCost {
		return
	}

	firstOfRoute := len(e.routes[v]) == 0

	for _, u := range e.order[last] {
		if e.visited[u] {
			continue
		}
		if firstOfRoute && u <= prevFirst {
			continue
		}
		if load+p.Demands[u] > p.Capacity {
			continue
		}
		arr := t + p.Travel[last][u]
		if p.Windows != nil {
			w := p.Windows[u]
			if arr < w[0] {
				arr = w[0] // wait for the window to open
			}
			if arr > w[1] {
				continue
			}
		}
		e.visited[u] = true
		e.routes[v] = append(e.routes[v], u)
		e.remaining--

		e.dfs(v, u, load+p.Demands[u], arr, costSoFar+p.ScaledDist[last][u], prevFirst)

		e.remaining++
		e.routes[v] = e.routes[v][:len(e.routes[v])-1]
		e.visited[u] = false
		if e.timedOut {
			return
		}
	}

	// Close this route and hand the rest to the next vehicle.
	if !firstOfRoute && v+1 < p.NumVehicles {
		start := int64(0)
		if p.Windows != nil {
			start = p.Windows[0][0]
		}
		e.dfs(v+1, 0, 0, start, costSoFar+p.ScaledDist[last][0], e.routes[v][0])
	}
}

// scheduleFeasible replays one route against the travel matrix and windows.
func scheduleFeasible(p *Problem, route []int) bool {
	if p.Windows == nil {
		return true
	}
	t := p.Windows[0][0]
	last := 0
	for _, u := range route {
		arr := t + p.Travel[last][u]
		w := p.Windows[u]
		if arr < w[0] {
			arr = w[0]
		}
		if arr > w[1] {
			return false
		}
		t = arr
		last = u
	}
	return true
}

// scaledObjective is the integer-domain counterpart of objective.
func scaledObjective(p *Problem, routes [][]int) int64 {
	var total int64
	for _, r := range routes {
		if len(r) == 0 {
			continue
		}
		total += p.ScaledDist[0][r[0]]
		for i := 0; i < len(r)-1; i++ {
			total += p.ScaledDist[r[i]][r[i+1]]
		}
		total += p.ScaledDist[r[len(r)-1]][0]
	}
	return total
}
