package searcher

import "tak/game"

// Evaluation is the oracle's answer for one position: a prior probability
// per action index and a scalar value in [-1, 1] from the current player's
// perspective. The oracle is not required to respect legality; the driver
// masks illegal indices and renormalizes before use.
type Evaluation struct {
	Priors []float64 `json:"priors"`
	Value  float64   `json:"value"`
}

// Oracle is the pluggable move-quality predictor the driver consults at
// newly expanded leaves. Implementations must be deterministic per state and
// safe for concurrent use when the driver runs parallel root searches.
type Oracle interface {
	Evaluate(state *game.GameState) (Evaluation, error)
}

// Uniform is a deterministic stub oracle: equal prior on every action index
// and a neutral value. Used in tests and as a prior-free baseline.
type Uniform struct {
	Space *game.ActionSpace
}

func NewUniform(space *game.ActionSpace) Uniform {
	return Uniform{Space: space}
}

func (u Uniform) Evaluate(*game.GameState) (Evaluation, error) {
	total := u.Space.Total()
	priors := make([]float64, total)
	for i := range priors {
		priors[i] = 1.0 / float64(total)
	}
	return Evaluation{Priors: priors, Value: 0}, nil
}
