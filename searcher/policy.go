package searcher

import (
	"math"

	"golang.org/x/exp/rand"

	"tak/game"
)

// Search hyperparameters.
const (
	// DefaultExploration is the PUCT exploration constant c_puct.
	DefaultExploration = 1.0
	// DefaultSimulations is the default simulation budget per search.
	DefaultSimulations = 200
	// DefaultMaxDepth bounds the selection recursion. A branch that reaches
	// it is scored as a draw, which guarantees termination even through pure
	// stack-shuffling move cycles.
	DefaultMaxDepth = 256
	// DrawValue is the leaf value for draws and depth-limited branches.
	// Slightly below zero so the search prefers unresolved positions over
	// certain draws.
	DrawValue = -0.01
	// WinValue and LossValue score decided terminal leaves.
	WinValue  = 1.0
	LossValue = -WinValue
)

// puct scores one edge: mean backpropagated value plus the prior-guided
// exploration bonus c·P·sqrt(ΣN)/(1+N).
func puct(e *edge, exploration, sqrtTotal float64) float64 {
	q := 0.0
	if e.visits > 0 {
		q = e.valueSum / float64(e.visits)
	}
	return q + exploration*e.prior*sqrtTotal/float64(1+e.visits)
}

// ActionStat is one root action's accumulated statistics.
type ActionStat struct {
	Index  int       `json:"index"`
	Move   game.Move `json:"move"`
	Visits int       `json:"visits"`
	Value  float64   `json:"value"`
	Prior  float64   `json:"prior"`
}

// Policy is the search output: per-root-action visit statistics in ascending
// action-index order.
type Policy struct {
	Actions []ActionStat `json:"actions"`
}

// TotalVisits sums the visit counts over all root actions.
func (p Policy) TotalVisits() int {
	total := 0
	for _, a := range p.Actions {
		total += a.Visits
	}
	return total
}

// Best returns the most-visited action. Ties go to the lowest action index,
// keeping move choice reproducible.
func (p Policy) Best() (ActionStat, bool) {
	if len(p.Actions) == 0 {
		return ActionStat{}, false
	}
	best := p.Actions[0]
	for _, a := range p.Actions[1:] {
		if a.Visits > best.Visits {
			best = a
		}
	}
	return best, true
}

// Dist returns the temperature-scaled visit distribution, aligned with
// Actions. Weights are N^(1/τ), renormalized; τ <= 0 collapses onto Best.
func (p Policy) Dist(temperature float64) []float64 {
	dist := make([]float64, len(p.Actions))
	if len(p.Actions) == 0 {
		return dist
	}
	if temperature <= 0 {
		best, _ := p.Best()
		for i, a := range p.Actions {
			if a.Index == best.Index {
				dist[i] = 1
			}
		}
		return dist
	}
	sum := 0.0
	for i, a := range p.Actions {
		dist[i] = math.Pow(float64(a.Visits), 1/temperature)
		sum += dist[i]
	}
	if sum == 0 {
		return dist
	}
	for i := range dist {
		dist[i] /= sum
	}
	return dist
}

// Sample draws an action from the temperature-scaled distribution.
func (p Policy) Sample(rng *rand.Rand, temperature float64) (ActionStat, bool) {
	if len(p.Actions) == 0 {
		return ActionStat{}, false
	}
	if temperature <= 0 {
		return p.Best()
	}
	dist := p.Dist(temperature)
	sum := 0.0
	for _, w := range dist {
		sum += w
	}
	if sum == 0 {
		// No action has been visited; degenerate to the deterministic choice.
		return p.Best()
	}
	r := rng.Float64()
	acc := 0.0
	for i, w := range dist {
		acc += w
		if r < acc {
			return p.Actions[i], true
		}
	}
	return p.Actions[len(p.Actions)-1], true
}
