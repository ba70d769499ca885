package searcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"tak/game"
)

type Option func(*MCTS)

func WithSimulations(simulations int) Option {
	return func(m *MCTS) {
		if simulations > 0 {
			m.simulations = simulations
		}
	}
}

// WithExploration sets the PUCT constant c_puct.
func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c > 0 {
			m.exploration = c
		}
	}
}

// WithMaxDepth sets the selection recursion ceiling.
func WithMaxDepth(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.maxDepth = depth
		}
	}
}

// WithParallelism enables root parallelization: the simulation budget is
// split over independent trees whose root statistics are merged at the end.
func WithParallelism(goroutines int) Option {
	return func(m *MCTS) {
		if goroutines > 0 {
			m.parallelism = goroutines
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewMetricsCollector()
	}
}

// MCTS is the PUCT search driver. It owns no game logic: the rules engine is
// the sole arbiter of legality and termination, and the oracle supplies
// priors and leaf values for ongoing positions.
type MCTS struct {
	space       *game.ActionSpace
	oracle      Oracle
	simulations int
	exploration float64
	maxDepth    int
	parallelism int
	metrics     MetricsCollector
}

func NewMCTS(space *game.ActionSpace, oracle Oracle, options ...Option) *MCTS {
	if space == nil || oracle == nil {
		panic("searcher: action space and oracle are required")
	}
	m := &MCTS{
		space:       space,
		oracle:      oracle,
		simulations: DefaultSimulations,
		exploration: DefaultExploration,
		maxDepth:    DefaultMaxDepth,
		parallelism: 1,
		metrics:     NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Search runs the simulation budget from state and returns the root
// visit-count policy. Cancelling ctx stops the search after the in-flight
// simulation completes; the policy gathered so far is returned. An ErrOracle
// result likewise leaves the partial policy usable, while ErrInvariant
// denotes an engine defect and makes the policy untrustworthy.
func (m *MCTS) Search(ctx context.Context, state *game.GameState) (Policy, SearchMetrics, error) {
	m.metrics.Start()
	if status := state.Status(); status.Outcome != game.Ongoing {
		return Policy{}, m.metrics.Complete(), fmt.Errorf("cannot search a terminal position (%s)", status.Outcome)
	}

	if m.parallelism <= 1 {
		policy, err := m.searchTree(ctx, state, m.simulations)
		return policy, m.metrics.Complete(), err
	}

	policies := make([]Policy, m.parallelism)
	errs := make([]error, m.parallelism)
	share := m.simulations / m.parallelism
	extra := m.simulations % m.parallelism

	var wg sync.WaitGroup
	for i := 0; i < m.parallelism; i++ {
		budget := share
		if i < extra {
			budget++
		}
		wg.Add(1)
		go func(i, budget int) {
			defer wg.Done()
			policies[i], errs[i] = m.searchTree(ctx, state.Clone(), budget)
		}(i, budget)
	}
	wg.Wait()

	var searchErr error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if searchErr == nil || errors.Is(err, ErrInvariant) {
			searchErr = err
		}
	}
	return mergePolicies(policies), m.metrics.Complete(), searchErr
}

// searchTree runs up to budget sequential simulations on a private tree.
// Each simulation completes fully before the next starts; the top of the
// loop is the cooperative cancellation point.
func (m *MCTS) searchTree(ctx context.Context, state *game.GameState, budget int) (Policy, error) {
	t := newTree()
	gs := state.Clone()
	var searchErr error
	for i := 0; i < budget; i++ {
		if ctx.Err() != nil {
			break
		}
		if _, err := m.simulate(t, 0, gs, 0); err != nil {
			if errors.Is(err, ErrOracle) {
				log.Warn().Err(err).Int("completed", i).Msg("oracle failure aborted search")
			}
			searchErr = err
			break
		}
		m.metrics.AddSimulation()
	}
	return rootPolicy(t), searchErr
}

// simulate runs one selection→expansion→backpropagation pass below the node
// at idx, with gs positioned at that node. It returns the leaf value from
// the node's mover perspective; ancestors negate it once per ply.
func (m *MCTS) simulate(t *tree, idx int32, gs *game.GameState, depth int) (float64, error) {
	m.metrics.ObserveDepth(depth)
	if depth >= m.maxDepth {
		m.metrics.AddDepthCutoff()
		return DrawValue, nil
	}

	n := &t.nodes[idx]
	if !n.classified {
		n.classified = true
		if status := gs.Status(); status.Outcome != game.Ongoing {
			n.terminal = true
			switch {
			case status.Outcome == game.Draw:
				n.value = DrawValue
			case status.Winner == gs.Player:
				n.value = WinValue
			default:
				n.value = LossValue
			}
		}
	}
	if n.terminal {
		m.metrics.AddTerminalLeaf()
		return n.value, nil
	}
	if !n.expanded {
		return m.expand(t, idx, gs)
	}

	sqrtTotal := math.Sqrt(float64(n.visits))
	best := 0
	bestScore := math.Inf(-1)
	for i := range n.edges {
		if score := puct(&n.edges[i], m.exploration, sqrtTotal); score > bestScore {
			best, bestScore = i, score
		}
	}

	e := n.edges[best]
	child := e.child
	if child == noChild {
		child = t.add()
		t.nodes[idx].edges[best].child = child
	}
	undo, err := gs.Apply(e.move)
	if err != nil {
		return 0, fmt.Errorf("%w: engine rejected its own move %q: %v", ErrInvariant, e.move, err)
	}
	value, err := m.simulate(t, child, gs, depth+1)
	gs.Revert(undo)
	if err != nil {
		return 0, err
	}

	value = -value
	// The arena may have grown during recursion; re-take the pointer.
	n = &t.nodes[idx]
	n.edges[best].visits++
	n.edges[best].valueSum += value
	n.visits++
	return value, nil
}

// expand queries the oracle for the leaf, masks its priors down to the legal
// moves and renormalizes, and returns the oracle's value estimate.
func (m *MCTS) expand(t *tree, idx int32, gs *game.GameState) (float64, error) {
	moves := gs.LegalMoves()
	if len(moves) == 0 {
		return 0, fmt.Errorf("%w: no legal moves in a non-terminal position", ErrInvariant)
	}

	m.metrics.AddOracleCall()
	eval, err := m.oracle.Evaluate(gs)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOracle, err)
	}
	if len(eval.Priors) != m.space.Total() {
		return 0, fmt.Errorf("%w: got %d priors, want %d", ErrOracle, len(eval.Priors), m.space.Total())
	}
	if math.IsNaN(eval.Value) || eval.Value < -1 || eval.Value > 1 {
		return 0, fmt.Errorf("%w: value %v outside [-1, 1]", ErrOracle, eval.Value)
	}

	edges := make([]edge, 0, len(moves))
	mass := 0.0
	for _, mv := range moves {
		index, err := m.space.Encode(mv)
		if err != nil {
			return 0, fmt.Errorf("%w: legal move %q does not encode: %v", ErrInvariant, mv, err)
		}
		prior := eval.Priors[index]
		if math.IsNaN(prior) || prior < 0 {
			return 0, fmt.Errorf("%w: prior %v for action %d", ErrOracle, prior, index)
		}
		edges = append(edges, edge{action: index, move: mv, prior: prior, child: noChild})
		mass += prior
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].action < edges[j].action })
	if mass > 0 {
		for i := range edges {
			edges[i].prior /= mass
		}
	} else {
		// The oracle put all its mass on illegal actions; fall back to a
		// uniform prior over the legal ones.
		for i := range edges {
			edges[i].prior = 1.0 / float64(len(edges))
		}
	}

	n := &t.nodes[idx]
	n.edges = edges
	n.expanded = true
	return eval.Value, nil
}

func rootPolicy(t *tree) Policy {
	root := t.nodes[0]
	actions := make([]ActionStat, 0, len(root.edges))
	for _, e := range root.edges {
		value := 0.0
		if e.visits > 0 {
			value = e.valueSum / float64(e.visits)
		}
		actions = append(actions, ActionStat{
			Index:  e.action,
			Move:   e.move,
			Visits: e.visits,
			Value:  value,
			Prior:  e.prior,
		})
	}
	return Policy{Actions: actions}
}

// mergePolicies combines per-tree root statistics from a parallel search.
func mergePolicies(policies []Policy) Policy {
	byIndex := make(map[int]*ActionStat)
	for _, p := range policies {
		for _, a := range p.Actions {
			stat, ok := byIndex[a.Index]
			if !ok {
				copied := a
				copied.Value = a.Value * float64(a.Visits)
				byIndex[a.Index] = &copied
				continue
			}
			stat.Visits += a.Visits
			stat.Value += a.Value * float64(a.Visits)
		}
	}
	merged := Policy{Actions: make([]ActionStat, 0, len(byIndex))}
	for _, stat := range byIndex {
		if stat.Visits > 0 {
			stat.Value /= float64(stat.Visits)
		} else {
			stat.Value = 0
		}
		merged.Actions = append(merged.Actions, *stat)
	}
	sort.Slice(merged.Actions, func(i, j int) bool {
		return merged.Actions[i].Index < merged.Actions[j].Index
	})
	return merged
}
