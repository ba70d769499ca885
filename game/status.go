package game

// Outcome classifies a position.
type Outcome int8

const (
	Ongoing Outcome = iota
	RoadWin
	FlatWin
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case RoadWin:
		return "road win"
	case FlatWin:
		return "flat win"
	}
	return "draw"
}

// Status is the terminal classification of a position. Winner is meaningful
// for RoadWin and FlatWin only.
type Status struct {
	Outcome Outcome `json:"outcome"`
	Winner  Color   `json:"winner,omitempty"`
}

// Status classifies the position. Road wins take precedence over flat wins;
// when one move completes a road for both players, the mover wins. The flat
// count decides once the board is full or either player has placed their
// last stone.
func (gs *GameState) Status() Status {
	whiteRoad := gs.Board.HasRoad(White)
	blackRoad := gs.Board.HasRoad(Black)
	switch {
	case whiteRoad && blackRoad:
		// Both roads can only complete on a slide; the player who just moved
		// built the winning one.
		return Status{Outcome: RoadWin, Winner: gs.Player.Opponent()}
	case whiteRoad:
		return Status{Outcome: RoadWin, Winner: White}
	case blackRoad:
		return Status{Outcome: RoadWin, Winner: Black}
	}

	if !gs.Board.Full() && !gs.Board.Reserves[White].Empty() && !gs.Board.Reserves[Black].Empty() {
		return Status{Outcome: Ongoing}
	}
	white := gs.Board.TopCount(White)
	black := gs.Board.TopCount(Black)
	switch {
	case white > black:
		return Status{Outcome: FlatWin, Winner: White}
	case black > white:
		return Status{Outcome: FlatWin, Winner: Black}
	}
	return Status{Outcome: Draw}
}

// HasRoad reports whether color has an unbroken chain of flat or capstone
// tops linking two opposite edges, via 4-directional adjacency.
func (b *Board) HasRoad(color Color) bool {
	return b.roadBetween(color, true) || b.roadBetween(color, false)
}

// roadBetween runs a breadth-first search seeded from one edge and reports
// whether it reaches the opposite edge. vertical connects row 0 to row N-1,
// otherwise column 0 to column N-1.
func (b *Board) roadBetween(color Color, vertical bool) bool {
	visited := make([]bool, b.N*b.N)
	var queue []Square
	for i := 0; i < b.N; i++ {
		sq := Square{Row: 0, Col: i}
		if !vertical {
			sq = Square{Row: i, Col: 0}
		}
		if b.roadCell(sq, color) {
			visited[sq.Row*b.N+sq.Col] = true
			queue = append(queue, sq)
		}
	}
	for len(queue) > 0 {
		sq := queue[0]
		queue = queue[1:]
		if vertical && sq.Row == b.N-1 {
			return true
		}
		if !vertical && sq.Col == b.N-1 {
			return true
		}
		for _, d := range [4]Square{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			next := Square{Row: sq.Row + d.Row, Col: sq.Col + d.Col}
			if !b.InBounds(next) || visited[next.Row*b.N+next.Col] {
				continue
			}
			if b.roadCell(next, color) {
				visited[next.Row*b.N+next.Col] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

func (b *Board) roadCell(sq Square, color Color) bool {
	top, ok := b.Top(sq)
	return ok && top.Color == color && top.RoadPiece()
}
