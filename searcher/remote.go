package searcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tak/game"
)

// Remote queries a policy/value service over HTTP. The service receives the
// canonical (perspective-normalized) encoding of the position, so the same
// strategic position yields the same evaluation regardless of whose turn
// began the game.
type Remote struct {
	baseURL string
	space   *game.ActionSpace
	client  *http.Client
}

// NewRemote returns an oracle client for the service at baseURL.
func NewRemote(baseURL string, space *game.ActionSpace) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		space:   space,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type evaluateRequest struct {
	Size      int    `json:"size"`
	Actions   int    `json:"actions"`
	Canonical []byte `json:"canonical"`
}

func (r *Remote) Evaluate(state *game.GameState) (Evaluation, error) {
	payload, err := json.Marshal(evaluateRequest{
		Size:      state.Board.N,
		Actions:   r.space.Total(),
		Canonical: state.CanonicalBytes(),
	})
	if err != nil {
		return Evaluation{}, err
	}

	res, err := r.client.Post(r.baseURL+"/evaluate", "application/json", bytes.NewReader(payload))
	if err != nil {
		return Evaluation{}, fmt.Errorf("oracle request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Evaluation{}, fmt.Errorf("oracle response: %w", err)
	}
	if res.StatusCode >= 400 {
		return Evaluation{}, fmt.Errorf("oracle status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var eval Evaluation
	if err := json.Unmarshal(body, &eval); err != nil {
		return Evaluation{}, fmt.Errorf("oracle response: %w", err)
	}
	return eval, nil
}
