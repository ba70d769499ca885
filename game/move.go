package game

// MoveType discriminates the two move families.
type MoveType int8

const (
	// PlaceMove puts a new stone from the reserve onto an empty cell.
	PlaceMove MoveType = iota
	// SlideMove picks up part of a controlled stack and drops pieces along a
	// straight line.
	SlideMove
)

// Direction of a slide. Up decreases the row index, Left the column index.
type Direction int8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Delta returns the per-step row/column offsets for the direction.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	default:
		return 0, 1
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "u"
	case Down:
		return "d"
	case Left:
		return "l"
	default:
		return "r"
	}
}

// Move represents a single move of either family. For a placement only Kind
// and Square are meaningful; the placed color is derived from the game state
// (the opponent's during the opening). For a slide, Square is the origin cell
// and Drops holds the pieces left on each successive cell, summing to Pickup.
type Move struct {
	Type   MoveType  `json:"type"`
	Kind   Kind      `json:"kind,omitempty"`
	Square Square    `json:"square"`
	Dir    Direction `json:"dir,omitempty"`
	Pickup int       `json:"pickup,omitempty"`
	Drops  []int     `json:"drops,omitempty"`
}
