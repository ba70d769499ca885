package game

// Color identifies a player. White moves first.
type Color int8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Kind is the stone type. A Standing stone is a flat turned on its side and
// consumes the flat reserve.
type Kind int8

const (
	Flat Kind = iota
	Standing
	Capstone
)

func (k Kind) String() string {
	switch k {
	case Flat:
		return "flat"
	case Standing:
		return "standing"
	case Capstone:
		return "capstone"
	}
	return "unknown"
}

// Piece is an immutable stone value.
type Piece struct {
	Color Color `json:"color"`
	Kind  Kind  `json:"kind"`
}

// RoadPiece reports whether the piece counts toward a road when it is on top
// of a stack. Standing stones block roads.
func (p Piece) RoadPiece() bool {
	return p.Kind == Flat || p.Kind == Capstone
}

// Stack is an ordered pile of pieces, bottom to top. The top piece controls
// the cell. Buried pieces never change once covered; the only in-place
// mutation is a capstone flattening the standing top it lands on.
type Stack []Piece

// Top returns the controlling piece, or false for an empty cell.
func (s Stack) Top() (Piece, bool) {
	if len(s) == 0 {
		return Piece{}, false
	}
	return s[len(s)-1], true
}

func (s Stack) Height() int {
	return len(s)
}
