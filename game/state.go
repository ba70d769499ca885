package game

import (
	"fmt"
	"hash/fnv"
)

// GameState is the full position: board, side to move and ply count. The
// first two plies are the opening, where each player places a flat of the
// opponent's color. All mutation goes through Apply; the searcher works on
// private clones.
type GameState struct {
	Board  *Board `json:"board"`
	Player Color  `json:"player"`
	Ply    int    `json:"ply"`
}

// NewGameState returns the start position for an n×n game: empty board, full
// reserves, White to move, opening phase active.
func NewGameState(n int) (*GameState, error) {
	b, err := NewBoard(n)
	if err != nil {
		return nil, err
	}
	return &GameState{Board: b, Player: White}, nil
}

// Validate checks a state assembled outside the engine, such as one decoded
// from JSON, before the rules engine operates on it.
func (gs *GameState) Validate() error {
	if gs.Board == nil {
		return fmt.Errorf("state has no board")
	}
	if _, ok := standardReserves[gs.Board.N]; !ok {
		return fmt.Errorf("unsupported board size %d", gs.Board.N)
	}
	if len(gs.Board.Cells) != gs.Board.N*gs.Board.N {
		return fmt.Errorf("board has %d cells, want %d", len(gs.Board.Cells), gs.Board.N*gs.Board.N)
	}
	for _, res := range gs.Board.Reserves {
		if res.Flats < 0 || res.Capstones < 0 {
			return fmt.Errorf("negative reserve count")
		}
	}
	if gs.Player != White && gs.Player != Black {
		return fmt.Errorf("unknown player %d", gs.Player)
	}
	if gs.Ply < 0 {
		return fmt.Errorf("negative ply count")
	}
	return nil
}

// InOpening reports whether the next placement is an opening placement.
func (gs *GameState) InOpening() bool {
	return gs.Ply < 2
}

// Clone deep-copies the state.
func (gs *GameState) Clone() *GameState {
	return &GameState{Board: gs.Board.Clone(), Player: gs.Player, Ply: gs.Ply}
}

// Piece codes for the canonical encoding, relabeled to the side to move so
// that the same strategic position encodes identically for either player.
const (
	canonSelfFlat = iota + 1
	canonOppFlat
	canonSelfStanding
	canonOppStanding
	canonSelfCapstone
	canonOppCapstone
)

// CanonicalBytes serializes the position from the current player's
// perspective: each cell's stack bottom to top, a zero terminator per cell,
// then the mover's and the opponent's reserves and the opening flag.
func (gs *GameState) CanonicalBytes() []byte {
	b := gs.Board
	out := make([]byte, 0, len(b.Cells)*2+6)
	for _, stack := range b.Cells {
		for _, p := range stack {
			code := byte(0)
			switch p.Kind {
			case Flat:
				code = canonSelfFlat
			case Standing:
				code = canonSelfStanding
			case Capstone:
				code = canonSelfCapstone
			}
			if p.Color != gs.Player {
				code++
			}
			out = append(out, code)
		}
		out = append(out, 0)
	}
	self := b.Reserves[gs.Player]
	opp := b.Reserves[gs.Player.Opponent()]
	out = append(out, byte(self.Flats), byte(self.Capstones), byte(opp.Flats), byte(opp.Capstones))
	if gs.InOpening() {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	return out
}

// Hash returns an FNV-1a digest of the canonical encoding, suitable for
// transposition lookups.
func (gs *GameState) Hash() uint64 {
	h := fnv.New64a()
	h.Write(gs.CanonicalBytes())
	return h.Sum64()
}
