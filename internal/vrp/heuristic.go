package vrp

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
)

const (
	defaultSeed = 1
	// Instances above this many customers get seeded restarts.
	diversifyThreshold = 40
	diversifySeeds     = 4
	twoOptMaxPasses    = 64
)

// HeuristicSolver builds routes by nearest-feasible-neighbor construction and
// polishes each route with intra-route 2-opt. Deterministic for a fixed seed.
type HeuristicSolver struct{}

func (HeuristicSolver) Solve(ctx context.Context, p *Problem) (RawSolution, error) {
	if p.Infeasible {
		return RawSolution{Status: StatusInfeasible}, nil
	}
	seed := p.seed
	if seed == 0 {
		seed = defaultSeed
	}

	if p.NumNodes-1 <= diversifyThreshold {
		routes, obj, ok := constructAndImprove(p, seed)
		if !ok {
			return RawSolution{Status: StatusInfeasible}, nil
		}
		p.emit("improvement", obj)
		return RawSolution{Status: StatusOptimal, Routes: routes}, nil
	}

	// Diversification: independent seeded runs over read-only problem state.
	// Best objective wins, ties broken by earliest seed index.
	type candidate struct {
		routes [][]int
		obj    float64
		ok     bool
	}
	cands := make([]candidate, diversifySeeds)
	var wg sync.WaitGroup
	for i := 0; i < diversifySeeds; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			routes, obj, ok := constructAndImprove(p, seed+int64(i))
			cands[i] = candidate{routes: routes, obj: obj, ok: ok}
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return RawSolution{}, err
	}

	best := -1
	for i, c := range cands {
		if !c.ok {
			continue
		}
		if best == -1 || c.obj < cands[best].obj {
			best = i
		}
	}
	if best == -1 {
		return RawSolution{Status: StatusInfeasible}, nil
	}
	p.emit("improvement", cands[best].obj)
	return RawSolution{Status: StatusOptimal, Routes: cands[best].routes}, nil
}

// constructAndImprove runs one seeded construction followed by 2-opt on every
// route. Returns the interior routes, the total objective, and whether all
// customers could be assigned.
func constructAndImprove(p *Problem, seed int64) ([][]int, float64, bool) {
	rng := rand.New(rand.NewSource(seed))
	routes, ok := construct(p, rng)
	if !ok {
		return nil, 0, false
	}
	p.emit("construction", objective(p, routes))
	for i := range routes {
		routes[i] = twoOptRoute(p, routes[i])
	}
	return routes, objective(p, routes), true
}

type openRoute struct {
	nodes []int
	load  int64
	cost  float64
}

func (r *openRoute) last() int {
	if len(r.nodes) == 0 {
		return 0
	}
	return r.nodes[len(r.nodes)-1]
}

// construct assigns every customer by repeatedly extending the currently
// shortest open route with the nearest unvisited node that fits its remaining
// capacity. A new vehicle is opened when no node fits any open route; if the
// fleet is exhausted first, construction fails.
func construct(p *Problem, rng *rand.Rand) ([][]int, bool) {
	visited := make([]bool, p.NumNodes)
	visited[0] = true
	remaining := p.NumNodes - 1

	routes := []*openRoute{{}}
	for remaining > 0 {
		order := make([]int, len(routes))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return routes[order[a]].cost < routes[order[b]].cost
		})

		extended := false
		for _, ri := range order {
			r := routes[ri]
			next := nearestFeasible(p, r, visited, rng)
			if next < 0 {
				continue
			}
			r.cost += p.Dist[r.last()][next]
			r.nodes = append(r.nodes, next)
			r.load += p.Demands[next]
			visited[next] = true
			remaining--
			extended = true
			break
		}
		if extended {
			continue
		}
		if len(routes) >= p.NumVehicles {
			return nil, false
		}
		routes = append(routes, &openRoute{})
	}

	out := make([][]int, p.NumVehicles)
	for i := range out {
		if i < len(routes) {
			out[i] = routes[i].nodes
		} else {
			out[i] = []int{}
		}
	}
	return out, true
}

// nearestFeasible picks the closest unvisited node whose demand fits the
// route's remaining capacity. Equal-distance candidates are tie-broken by the
// seeded RNG so restarts explore different constructions.
func nearestFeasible(p *Problem, r *openRoute, visited []bool, rng *rand.Rand) int {
	const eps = 1e-9
	last := r.last()
	best := math.Inf(1)
	var ties []int
	for j := 1; j < p.NumNodes; j++ {
		if visited[j] || r.load+p.Demands[j] > p.Capacity {
			continue
		}
		d := p.Dist[last][j]
		switch {
		case d < best-eps:
			best = d
			ties = ties[:0]
			ties = append(ties, j)
		case d <= best+eps:
			ties = append(ties, j)
		}
	}
	if len(ties) == 0 {
		return -1
	}
	return ties[rng.Intn(len(ties))]
}

// twoOptRoute applies intra-route 2-opt edge exchanges until a local optimum
// or the pass cap, whichever comes first. The depot endpoints stay fixed.
func twoOptRoute(p *Problem, route []int) []int {
	n := len(route)
	if n < 3 {
		return route
	}
	out := append([]int(nil), route...)
	for pass := 0; pass < twoOptMaxPasses; pass++ {
		improved := false
		for i := 0; i < n-1; i++ {
			a := 0
			if i > 0 {
				a = out[i-1]
			}
			for k := i + 1; k < n; k++ {
				b := 0
				if k < n-1 {
					b = out[k+1]
				}
				delta := p.Dist[a][out[k]] + p.Dist[out[i]][b] -
					p.Dist[a][out[i]] - p.Dist[out[k]][b]
				if !p.symmetric {
					// Reversing the segment also flips every
					// interior arc, which reprices on
					// asymmetric matrices.
					for x := i; x < k; x++ {
						delta += p.Dist[out[x+1]][out[x]] - p.Dist[out[x]][out[x+1]]
					}
				}
				if delta < -1e-9 {
					for x, y := i, k; x < y; x, y = x+1, y-1 {
						out[x], out[y] = out[y], out[x]
					}
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return out
}

// routeCost is the depot-to-depot travel cost of one route under Dist.
func routeCost(p *Problem, route []int) float64 {
	if len(route) == 0 {
		return 0
	}
	total := p.Dist[0][route[0]]
	for i := 0; i < len(route)-1; i++ {
		total += p.Dist[route[i]][route[i+1]]
	}
	total += p.Dist[route[len(route)-1]][0]
	return total
}

func objective(p *Problem, routes [][]int) float64 {
	total := 0.0
	for _, r := range routes {
		total += routeCost(p, r)
	}
	return total
}
