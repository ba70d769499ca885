package game

import "fmt"

// Undo records what Apply changed so Revert can restore the position
// exactly. It is only valid against the state that produced it, with no
// moves applied in between.
type Undo struct {
	move      Move
	flattened bool
}

// LegalMoves enumerates every legal move in the position. The slice is empty
// only in terminal positions.
func (gs *GameState) LegalMoves() []Move {
	var moves []Move
	moves = gs.appendPlacements(moves)
	if !gs.InOpening() {
		moves = gs.appendSlides(moves)
	}
	return moves
}

func (gs *GameState) appendPlacements(moves []Move) []Move {
	b := gs.Board
	kinds := gs.placeableKinds()
	for row := 0; row < b.N; row++ {
		for col := 0; col < b.N; col++ {
			sq := Square{Row: row, Col: col}
			if b.Height(sq) > 0 {
				continue
			}
			for _, kind := range kinds {
				moves = append(moves, Move{Type: PlaceMove, Kind: kind, Square: sq})
			}
		}
	}
	return moves
}

// placeableKinds returns the stone kinds the mover may place, respecting the
// reserve being debited: the opponent's during the opening, the mover's
// afterwards.
func (gs *GameState) placeableKinds() []Kind {
	if gs.InOpening() {
		if gs.Board.Reserves[gs.Player.Opponent()].Flats > 0 {
			return []Kind{Flat}
		}
		return nil
	}
	res := gs.Board.Reserves[gs.Player]
	var kinds []Kind
	if res.Flats > 0 {
		kinds = append(kinds, Flat, Standing)
	}
	if res.Capstones > 0 {
		kinds = append(kinds, Capstone)
	}
	return kinds
}

func (gs *GameState) appendSlides(moves []Move) []Move {
	b := gs.Board
	for row := 0; row < b.N; row++ {
		for col := 0; col < b.N; col++ {
			sq := Square{Row: row, Col: col}
			top, ok := b.Top(sq)
			if !ok || top.Color != gs.Player {
				continue
			}
			limit := b.Height(sq)
			if limit > b.N {
				limit = b.N
			}
			for pickup := 1; pickup <= limit; pickup++ {
				for _, drops := range compositions(pickup) {
					for dir := Up; dir <= Right; dir++ {
						m := Move{Type: SlideMove, Square: sq, Dir: dir, Pickup: pickup, Drops: drops}
						if gs.slideError(m) == nil {
							d := make([]int, len(drops))
							copy(d, drops)
							m.Drops = d
							moves = append(moves, m)
						}
					}
				}
			}
		}
	}
	return moves
}

func (gs *GameState) placeError(m Move) error {
	b := gs.Board
	if !b.InBounds(m.Square) {
		return fmt.Errorf("%w: placement out of bounds", ErrIllegalMove)
	}
	if b.Height(m.Square) > 0 {
		return fmt.Errorf("%w: cell %d,%d is occupied", ErrIllegalMove, m.Square.Row, m.Square.Col)
	}
	if gs.InOpening() {
		if m.Kind != Flat {
			return fmt.Errorf("%w: opening placements must be flats", ErrIllegalMove)
		}
		if b.Reserves[gs.Player.Opponent()].Flats == 0 {
			return fmt.Errorf("%w: opponent reserve exhausted", ErrIllegalMove)
		}
		return nil
	}
	res := b.Reserves[gs.Player]
	switch m.Kind {
	case Flat, Standing:
		if res.Flats == 0 {
			return fmt.Errorf("%w: no flats in reserve", ErrIllegalMove)
		}
	case Capstone:
		if res.Capstones == 0 {
			return fmt.Errorf("%w: no capstone in reserve", ErrIllegalMove)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrIllegalMove, m.Kind)
	}
	return nil
}

func (gs *GameState) slideError(m Move) error {
	b := gs.Board
	if gs.InOpening() {
		return fmt.Errorf("%w: no slides during the opening", ErrIllegalMove)
	}
	if !b.InBounds(m.Square) {
		return fmt.Errorf("%w: slide origin out of bounds", ErrIllegalMove)
	}
	top, ok := b.Top(m.Square)
	if !ok || top.Color != gs.Player {
		return fmt.Errorf("%w: %s does not control %d,%d", ErrIllegalMove, gs.Player, m.Square.Row, m.Square.Col)
	}
	if m.Dir < Up || m.Dir > Right {
		return fmt.Errorf("%w: unknown direction", ErrIllegalMove)
	}
	height := b.Height(m.Square)
	if m.Pickup < 1 || m.Pickup > height || m.Pickup > b.N {
		return fmt.Errorf("%w: cannot pick up %d of %d pieces", ErrIllegalMove, m.Pickup, height)
	}
	if len(m.Drops) == 0 {
		return fmt.Errorf("%w: no drops", ErrIllegalMove)
	}
	sum := 0
	for _, d := range m.Drops {
		if d <= 0 {
			return fmt.Errorf("%w: non-positive drop", ErrIllegalMove)
		}
		sum += d
	}
	if sum != m.Pickup {
		return fmt.Errorf("%w: drops sum to %d, picked up %d", ErrIllegalMove, sum, m.Pickup)
	}

	dr, dc := m.Dir.Delta()
	sq := m.Square
	for i := range m.Drops {
		sq = Square{Row: sq.Row + dr, Col: sq.Col + dc}
		if !b.InBounds(sq) {
			return fmt.Errorf("%w: slide leaves the board", ErrIllegalMove)
		}
		cellTop, occupied := b.Top(sq)
		if !occupied || cellTop.Kind == Flat {
			continue
		}
		if cellTop.Kind == Capstone {
			return fmt.Errorf("%w: cannot enter a capstone cell", ErrIllegalMove)
		}
		// Standing top: only the final drop may enter, and only with the
		// capstone of the moving stack landing on it.
		if i != len(m.Drops)-1 || top.Kind != Capstone {
			return fmt.Errorf("%w: standing stone blocks the slide", ErrIllegalMove)
		}
	}
	return nil
}

// Apply validates the move and mutates the state in place, returning an undo
// token. Validation is defensive and all-or-nothing: an ErrIllegalMove
// result leaves the state untouched even for engine-produced moves, since
// callers may replay cached moves against a different position.
func (gs *GameState) Apply(m Move) (Undo, error) {
	undo := Undo{move: m}
	switch m.Type {
	case PlaceMove:
		if err := gs.placeError(m); err != nil {
			return Undo{}, err
		}
		color := gs.Player
		if gs.InOpening() {
			color = color.Opponent()
		}
		if err := gs.Board.Place(m.Square, m.Kind, color); err != nil {
			return Undo{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
		}
	case SlideMove:
		if err := gs.slideError(m); err != nil {
			return Undo{}, err
		}
		carried := gs.Board.lift(m.Square, m.Pickup)
		dr, dc := m.Dir.Delta()
		sq := m.Square
		dropped := 0
		for _, count := range m.Drops {
			sq = Square{Row: sq.Row + dr, Col: sq.Col + dc}
			if gs.Board.drop(sq, carried[dropped:dropped+count]) {
				undo.flattened = true
			}
			dropped += count
		}
	default:
		return Undo{}, fmt.Errorf("%w: unknown move type %d", ErrIllegalMove, m.Type)
	}
	gs.Player = gs.Player.Opponent()
	gs.Ply++
	return undo, nil
}

// Revert undoes the most recent Apply, restoring board contents, reserves,
// side to move and ply count exactly.
func (gs *GameState) Revert(u Undo) {
	gs.Player = gs.Player.Opponent()
	gs.Ply--
	m := u.move
	if m.Type == PlaceMove {
		gs.Board.removePlaced(m.Square)
		return
	}
	dr, dc := m.Dir.Delta()
	carried := make([]Piece, 0, m.Pickup)
	sq := m.Square
	for i, count := range m.Drops {
		sq = Square{Row: sq.Row + dr, Col: sq.Col + dc}
		carried = append(carried, gs.Board.lift(sq, count)...)
		if u.flattened && i == len(m.Drops)-1 {
			idx := sq.Row*gs.Board.N + sq.Col
			gs.Board.Cells[idx][len(gs.Board.Cells[idx])-1].Kind = Standing
		}
	}
	origin := m.Square.Row*gs.Board.N + m.Square.Col
	gs.Board.Cells[origin] = append(gs.Board.Cells[origin], carried...)
}

// Play is the copy-on-write form of Apply used by the searcher: it clones
// the state, applies the move and returns the successor.
func (gs *GameState) Play(m Move) (*GameState, error) {
	next := gs.Clone()
	if _, err := next.Apply(m); err != nil {
		return nil, err
	}
	return next, nil
}
