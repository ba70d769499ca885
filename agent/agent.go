package agent

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tak/game"
	"tak/searcher"
)

// Agent picks a move for the side to play in state.
type Agent interface {
	FindMove(ctx context.Context, state *game.GameState) (game.Move, searcher.SearchMetrics, error)
}

// SearchAgent answers with the MCTS visit-count policy, sampled at the
// configured temperature (argmax at temperature 0).
type SearchAgent struct {
	mcts        *searcher.MCTS
	temperature float64

	// The server calls FindMove from concurrent request handlers; the RNG is
	// not safe to share without the lock.
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSearchAgent(mcts *searcher.MCTS, temperature float64, seed uint64) *SearchAgent {
	return &SearchAgent{
		mcts:        mcts,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *SearchAgent) FindMove(ctx context.Context, state *game.GameState) (game.Move, searcher.SearchMetrics, error) {
	policy, metrics, err := a.mcts.Search(ctx, state)
	if err != nil {
		// A partial policy from an aborted oracle batch is still usable; an
		// invariant failure or an empty policy is not.
		if errors.Is(err, searcher.ErrInvariant) || policy.TotalVisits() == 0 {
			return game.Move{}, metrics, err
		}
		log.Warn().Err(err).Int("visits", policy.TotalVisits()).
			Msg("choosing from partial search statistics")
	}
	a.mu.Lock()
	chosen, ok := policy.Sample(a.rng, a.temperature)
	a.mu.Unlock()
	if !ok {
		return game.Move{}, metrics, errors.New("search produced no actions")
	}
	return chosen.Move, metrics, nil
}
