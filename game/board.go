package game

import "fmt"

// Square addresses a cell. Row 0 is the top edge, column 0 the left edge.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Reserves tracks the stones a player has not yet placed. Standing stones
// come out of the flat count.
type Reserves struct {
	Flats     int `json:"flats"`
	Capstones int `json:"capstones"`
}

func (r Reserves) Empty() bool {
	return r.Flats == 0 && r.Capstones == 0
}

// standardReserves is the allotment per board size from the official rules.
var standardReserves = map[int]Reserves{
	3: {Flats: 10, Capstones: 0},
	4: {Flats: 15, Capstones: 0},
	5: {Flats: 21, Capstones: 1},
	6: {Flats: 30, Capstones: 1},
	7: {Flats: 40, Capstones: 1},
	8: {Flats: 50, Capstones: 1},
}

// Board is an N×N grid of stacks plus both players' reserves. Cells is
// row-major: Cells[row*N+col].
type Board struct {
	N        int         `json:"n"`
	Cells    []Stack     `json:"cells"`
	Reserves [2]Reserves `json:"reserves"`
}

// NewBoard returns an empty board with the standard reserve allotment.
// Supported sizes are 3 through 8.
func NewBoard(n int) (*Board, error) {
	res, ok := standardReserves[n]
	if !ok {
		return nil, fmt.Errorf("unsupported board size %d", n)
	}
	return &Board{
		N:        n,
		Cells:    make([]Stack, n*n),
		Reserves: [2]Reserves{res, res},
	}, nil
}

func (b *Board) InBounds(sq Square) bool {
	return sq.Row >= 0 && sq.Row < b.N && sq.Col >= 0 && sq.Col < b.N
}

func (b *Board) at(sq Square) Stack {
	return b.Cells[sq.Row*b.N+sq.Col]
}

// Top returns the controlling piece of the stack at sq, or false if the cell
// is empty or out of bounds.
func (b *Board) Top(sq Square) (Piece, bool) {
	if !b.InBounds(sq) {
		return Piece{}, false
	}
	return b.at(sq).Top()
}

// Height returns the stack height at sq.
func (b *Board) Height(sq Square) int {
	if !b.InBounds(sq) {
		return 0
	}
	return b.at(sq).Height()
}

// CanEnter reports whether a moving piece of the given kind may be dropped
// onto sq: empty cells and flat tops accept anything, a standing top accepts
// only a capstone (which flattens it), and a capstone top accepts nothing.
func (b *Board) CanEnter(sq Square, incoming Kind) bool {
	if !b.InBounds(sq) {
		return false
	}
	top, ok := b.at(sq).Top()
	if !ok {
		return true
	}
	switch top.Kind {
	case Flat:
		return true
	case Standing:
		return incoming == Capstone
	default: // Capstone
		return false
	}
}

// Place pushes a new piece onto an empty cell and debits the reserve of the
// piece's color. The check happens before any mutation.
func (b *Board) Place(sq Square, kind Kind, color Color) error {
	if !b.InBounds(sq) {
		return fmt.Errorf("%w: square %d,%d out of bounds", ErrIllegalMove, sq.Row, sq.Col)
	}
	if b.at(sq).Height() > 0 {
		return fmt.Errorf("%w: square %d,%d", ErrOccupiedCell, sq.Row, sq.Col)
	}
	res := &b.Reserves[color]
	switch kind {
	case Capstone:
		if res.Capstones == 0 {
			return fmt.Errorf("%w: %s has no capstone left", ErrReserveExhausted, color)
		}
		res.Capstones--
	default:
		if res.Flats == 0 {
			return fmt.Errorf("%w: %s has no flats left", ErrReserveExhausted, color)
		}
		res.Flats--
	}
	idx := sq.Row*b.N + sq.Col
	b.Cells[idx] = append(b.Cells[idx], Piece{Color: color, Kind: kind})
	return nil
}

// removePlaced undoes a Place: pops the single piece and refunds the reserve.
func (b *Board) removePlaced(sq Square) {
	idx := sq.Row*b.N + sq.Col
	p := b.Cells[idx][len(b.Cells[idx])-1]
	b.Cells[idx] = normalize(b.Cells[idx][:len(b.Cells[idx])-1])
	res := &b.Reserves[p.Color]
	if p.Kind == Capstone {
		res.Capstones++
	} else {
		res.Flats++
	}
}

// lift pops count pieces off the top of sq, preserving their order.
func (b *Board) lift(sq Square, count int) []Piece {
	idx := sq.Row*b.N + sq.Col
	stack := b.Cells[idx]
	carried := make([]Piece, count)
	copy(carried, stack[len(stack)-count:])
	b.Cells[idx] = normalize(stack[:len(stack)-count])
	return carried
}

// normalize keeps emptied cells indistinguishable from never-used ones, so
// that undoing a move restores the board bit for bit.
func normalize(s Stack) Stack {
	if len(s) == 0 {
		return nil
	}
	return s
}

// drop pushes pieces onto sq. If the landing piece is a capstone and the
// current top is standing, the standing stone is flattened first. Returns
// whether a flatten occurred, for undo accounting.
func (b *Board) drop(sq Square, pieces []Piece) bool {
	idx := sq.Row*b.N + sq.Col
	flattened := false
	if top, ok := b.Cells[idx].Top(); ok && top.Kind == Standing {
		// Only reachable when the single landing piece is a capstone; the
		// rules engine validates before mutating.
		b.Cells[idx][len(b.Cells[idx])-1].Kind = Flat
		flattened = true
	}
	b.Cells[idx] = append(b.Cells[idx], pieces...)
	return flattened
}

// Full reports whether no empty cell remains.
func (b *Board) Full() bool {
	for _, s := range b.Cells {
		if len(s) == 0 {
			return false
		}
	}
	return true
}

// TopCount counts cells whose controlling piece is a flat or capstone of the
// given color. Used for the flat-win tally.
func (b *Board) TopCount(color Color) int {
	count := 0
	for _, s := range b.Cells {
		if top, ok := s.Top(); ok && top.Color == color && top.RoadPiece() {
			count++
		}
	}
	return count
}

// Clone deep-copies the board so a search thread can mutate it privately.
func (b *Board) Clone() *Board {
	cells := make([]Stack, len(b.Cells))
	for i, s := range b.Cells {
		if len(s) == 0 {
			continue
		}
		cells[i] = make(Stack, len(s))
		copy(cells[i], s)
	}
	return &Board{N: b.N, Cells: cells, Reserves: b.Reserves}
}
