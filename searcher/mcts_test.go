package searcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tak/game"
)

// stubOracle lets a test script arbitrary oracle behavior.
type stubOracle struct {
	fn func(*game.GameState) (Evaluation, error)
}

func (o stubOracle) Evaluate(gs *game.GameState) (Evaluation, error) {
	return o.fn(gs)
}

// winInOne is a 3×3 position where White completes a column road by placing
// a flat at 2,0 (action index 6).
func winInOne(t *testing.T) *game.GameState {
	t.Helper()
	gs, err := game.NewGameState(3)
	require.NoError(t, err)
	gs.Board.Cells[0*3+0] = game.Stack{{Color: game.White, Kind: game.Flat}}
	gs.Board.Cells[1*3+0] = game.Stack{{Color: game.White, Kind: game.Flat}}
	gs.Board.Cells[0*3+1] = game.Stack{{Color: game.Black, Kind: game.Flat}}
	gs.Board.Cells[1*3+1] = game.Stack{{Color: game.Black, Kind: game.Flat}}
	gs.Player = game.White
	gs.Ply = 10
	return gs
}

func TestSearchFindsWinInOne(t *testing.T) {
	space := game.NewActionSpace(3)
	mcts := NewMCTS(space, NewUniform(space), WithSimulations(50))

	gs := winInOne(t)
	policy, _, err := mcts.Search(context.Background(), gs)
	require.NoError(t, err)

	best, ok := policy.Best()
	require.True(t, ok)
	require.Equal(t, 6, best.Index)
	require.Equal(t, game.Move{Type: game.PlaceMove, Kind: game.Flat, Square: game.Square{Row: 2, Col: 0}}, best.Move)

	next, err := gs.Play(best.Move)
	require.NoError(t, err)
	status := next.Status()
	require.Equal(t, game.RoadWin, status.Outcome)
	require.Equal(t, game.White, status.Winner)
}

func TestSearchParallelFindsWinInOne(t *testing.T) {
	space := game.NewActionSpace(3)
	mcts := NewMCTS(space, NewUniform(space),
		WithSimulations(80), WithParallelism(4))

	policy, _, err := mcts.Search(context.Background(), winInOne(t))
	require.NoError(t, err)

	best, ok := policy.Best()
	require.True(t, ok)
	require.Equal(t, 6, best.Index)
	// Each of the 4 trees spends its first simulation expanding the root.
	require.Equal(t, 76, policy.TotalVisits())

	for i := 1; i < len(policy.Actions); i++ {
		require.Greater(t, policy.Actions[i].Index, policy.Actions[i-1].Index, "merged actions stay sorted")
	}
}

func TestSearchRejectsTerminalRoot(t *testing.T) {
	space := game.NewActionSpace(3)
	mcts := NewMCTS(space, NewUniform(space))

	gs := winInOne(t)
	_, err := gs.Apply(game.Move{Type: game.PlaceMove, Kind: game.Flat, Square: game.Square{Row: 2, Col: 0}})
	require.NoError(t, err)

	_, _, err = mcts.Search(context.Background(), gs)
	require.Error(t, err)
}

func TestSearchOracleFailures(t *testing.T) {
	space := game.NewActionSpace(3)

	t.Run("evaluation error", func(t *testing.T) {
		oracle := stubOracle{fn: func(*game.GameState) (Evaluation, error) {
			return Evaluation{}, errors.New("model unavailable")
		}}
		mcts := NewMCTS(space, oracle, WithSimulations(10))
		policy, _, err := mcts.Search(context.Background(), winInOne(t))
		require.ErrorIs(t, err, ErrOracle)
		require.Zero(t, policy.TotalVisits(), "root never expanded")
	})

	t.Run("wrong prior vector length", func(t *testing.T) {
		oracle := stubOracle{fn: func(*game.GameState) (Evaluation, error) {
			return Evaluation{Priors: make([]float64, 5), Value: 0}, nil
		}}
		mcts := NewMCTS(space, oracle, WithSimulations(10))
		_, _, err := mcts.Search(context.Background(), winInOne(t))
		require.ErrorIs(t, err, ErrOracle)
	})

	t.Run("value outside the unit interval", func(t *testing.T) {
		oracle := stubOracle{fn: func(*game.GameState) (Evaluation, error) {
			return Evaluation{Priors: make([]float64, space.Total()), Value: 1.5}, nil
		}}
		mcts := NewMCTS(space, oracle, WithSimulations(10))
		_, _, err := mcts.Search(context.Background(), winInOne(t))
		require.ErrorIs(t, err, ErrOracle)
	})

	t.Run("negative prior", func(t *testing.T) {
		oracle := stubOracle{fn: func(*game.GameState) (Evaluation, error) {
			priors := make([]float64, space.Total())
			priors[6] = -0.5
			return Evaluation{Priors: priors}, nil
		}}
		mcts := NewMCTS(space, oracle, WithSimulations(10))
		_, _, err := mcts.Search(context.Background(), winInOne(t))
		require.ErrorIs(t, err, ErrOracle)
	})
}

func TestSearchUniformFallbackOnZeroMass(t *testing.T) {
	space := game.NewActionSpace(3)
	// All prior mass on illegal actions: the legal moves all get zero.
	oracle := stubOracle{fn: func(*game.GameState) (Evaluation, error) {
		return Evaluation{Priors: make([]float64, space.Total()), Value: 0}, nil
	}}
	mcts := NewMCTS(space, oracle, WithSimulations(30))

	policy, _, err := mcts.Search(context.Background(), winInOne(t))
	require.NoError(t, err)

	sum := 0.0
	for _, a := range policy.Actions {
		sum += a.Prior
	}
	require.InDelta(t, 1.0, sum, 1e-9, "fallback priors renormalize to one")
	require.Positive(t, policy.TotalVisits())
}

func TestSearchCancellation(t *testing.T) {
	space := game.NewActionSpace(3)
	mcts := NewMCTS(space, NewUniform(space), WithSimulations(1000))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	policy, _, err := mcts.Search(ctx, winInOne(t))
	require.NoError(t, err, "cancellation is not a search failure")
	require.Zero(t, policy.TotalVisits())
}

func TestSearchDepthCutoff(t *testing.T) {
	space := game.NewActionSpace(3)
	mcts := NewMCTS(space, NewUniform(space),
		WithSimulations(20), WithMaxDepth(1), WithMetrics())

	policy, metrics, err := mcts.Search(context.Background(), winInOne(t))
	require.NoError(t, err)

	// The first simulation expands the root; every later one hits the depth
	// ceiling one ply down and scores a draw.
	require.Equal(t, 19, policy.TotalVisits())
	require.Equal(t, int64(19), metrics.DepthCutoffs)
	require.Equal(t, int64(20), metrics.Simulations)
	require.Equal(t, int64(1), metrics.OracleCalls)
}

func TestSearchMetricsResetBetweenSearches(t *testing.T) {
	space := game.NewActionSpace(3)
	mcts := NewMCTS(space, NewUniform(space), WithSimulations(50), WithMetrics())
	gs := winInOne(t)

	_, first, err := mcts.Search(context.Background(), gs)
	require.NoError(t, err)
	_, second, err := mcts.Search(context.Background(), gs)
	require.NoError(t, err)

	require.Equal(t, int64(50), first.Simulations)
	require.Equal(t, int64(50), second.Simulations, "counters must not accumulate across searches")
	require.Equal(t, first.OracleCalls, second.OracleCalls)
	require.False(t, second.StartTime.Before(first.StartTime))
}

func TestSearchMetrics(t *testing.T) {
	space := game.NewActionSpace(3)
	mcts := NewMCTS(space, NewUniform(space), WithSimulations(50), WithMetrics())

	_, metrics, err := mcts.Search(context.Background(), winInOne(t))
	require.NoError(t, err)
	require.Equal(t, int64(50), metrics.Simulations)
	require.Positive(t, metrics.OracleCalls)
	require.Positive(t, metrics.TerminalLeaves, "the winning reply gets revisited")
	require.GreaterOrEqual(t, metrics.MaxDepth, int64(1))
	require.False(t, metrics.StartTime.IsZero())
}
