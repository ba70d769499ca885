package game

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseMove reads the space-separated move syntax for an n×n board:
//
//	f|s|c <row> <col>                          placement
//	m <row> <col> u|d|l|r <pickup> [drop...]   slide
//
// Omitted drop counts default to a single drop of the full pickup. Malformed
// input fails with ErrParse; legality against a position is a separate
// question answered by Apply.
func ParseMove(input string, n int) (Move, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Move{}, fmt.Errorf("%w: empty input", ErrParse)
	}
	switch fields[0] {
	case "f", "s", "c":
		if len(fields) != 3 {
			return Move{}, fmt.Errorf("%w: placement needs a row and a column", ErrParse)
		}
		sq, err := parseSquare(fields[1], fields[2], n)
		if err != nil {
			return Move{}, err
		}
		kind := map[string]Kind{"f": Flat, "s": Standing, "c": Capstone}[fields[0]]
		return Move{Type: PlaceMove, Kind: kind, Square: sq}, nil
	case "m":
		if len(fields) < 5 {
			return Move{}, fmt.Errorf("%w: slide needs row, column, direction and pickup", ErrParse)
		}
		sq, err := parseSquare(fields[1], fields[2], n)
		if err != nil {
			return Move{}, err
		}
		var dir Direction
		switch fields[3] {
		case "u":
			dir = Up
		case "d":
			dir = Down
		case "l":
			dir = Left
		case "r":
			dir = Right
		default:
			return Move{}, fmt.Errorf("%w: direction %q", ErrParse, fields[3])
		}
		pickup, err := strconv.Atoi(fields[4])
		if err != nil || pickup < 1 || pickup > n {
			return Move{}, fmt.Errorf("%w: pickup %q", ErrParse, fields[4])
		}
		drops := []int{pickup}
		if len(fields) > 5 {
			drops = drops[:0]
			sum := 0
			for _, f := range fields[5:] {
				d, err := strconv.Atoi(f)
				if err != nil || d < 1 {
					return Move{}, fmt.Errorf("%w: drop count %q", ErrParse, f)
				}
				drops = append(drops, d)
				sum += d
			}
			if sum != pickup {
				return Move{}, fmt.Errorf("%w: drops %v do not sum to pickup %d", ErrParse, drops, pickup)
			}
		}
		return Move{Type: SlideMove, Square: sq, Dir: dir, Pickup: pickup, Drops: drops}, nil
	}
	return Move{}, fmt.Errorf("%w: unknown move letter %q", ErrParse, fields[0])
}

func parseSquare(rowField, colField string, n int) (Square, error) {
	row, err := strconv.Atoi(rowField)
	if err != nil {
		return Square{}, fmt.Errorf("%w: row %q", ErrParse, rowField)
	}
	col, err := strconv.Atoi(colField)
	if err != nil {
		return Square{}, fmt.Errorf("%w: column %q", ErrParse, colField)
	}
	if row < 0 || row >= n || col < 0 || col >= n {
		return Square{}, fmt.Errorf("%w: square %d,%d outside %d×%d board", ErrParse, row, col, n, n)
	}
	return Square{Row: row, Col: col}, nil
}

// String renders the move in the same syntax ParseMove accepts.
func (m Move) String() string {
	if m.Type == PlaceMove {
		letter := map[Kind]string{Flat: "f", Standing: "s", Capstone: "c"}[m.Kind]
		return fmt.Sprintf("%s %d %d", letter, m.Square.Row, m.Square.Col)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "m %d %d %s %d", m.Square.Row, m.Square.Col, m.Dir, m.Pickup)
	for _, d := range m.Drops {
		fmt.Fprintf(&sb, " %d", d)
	}
	return sb.String()
}
