package game

import "fmt"

// dropPattern is one way of distributing a pickup over successive cells.
type dropPattern struct {
	pickup int
	drops  []int
}

// ActionSpace is the bijection between action indices and moves for a fixed
// board size. Placements occupy [0, 3n²) as kind·n² + row·n + col. Slides
// follow as 3n² + pattern·4n² + dir·n² + row·n + col, with patterns
// enumerated by ascending pickup and, within a pickup, compositions in
// first-drop-ascending order. There are 2ⁿ−1 patterns for size n.
type ActionSpace struct {
	n        int
	patterns []dropPattern
	ranks    map[string]int
}

// NewActionSpace builds the codec for an n×n board.
func NewActionSpace(n int) *ActionSpace {
	a := &ActionSpace{n: n, ranks: make(map[string]int)}
	for pickup := 1; pickup <= n; pickup++ {
		for _, drops := range compositions(pickup) {
			a.ranks[dropKey(drops)] = len(a.patterns)
			a.patterns = append(a.patterns, dropPattern{pickup: pickup, drops: drops})
		}
	}
	return a
}

// compositions enumerates the ordered positive partitions of total, first
// part ascending, depth first.
func compositions(total int) [][]int {
	if total == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for first := 1; first <= total; first++ {
		for _, rest := range compositions(total - first) {
			c := make([]int, 0, 1+len(rest))
			c = append(c, first)
			c = append(c, rest...)
			out = append(out, c)
		}
	}
	return out
}

func dropKey(drops []int) string {
	key := make([]byte, len(drops))
	for i, d := range drops {
		key[i] = byte(d)
	}
	return string(key)
}

// Size returns the board size the codec was built for.
func (a *ActionSpace) Size() int {
	return a.n
}

// Placements returns the number of placement indices, 3n².
func (a *ActionSpace) Placements() int {
	return 3 * a.n * a.n
}

// Total returns the size of the action index space.
func (a *ActionSpace) Total() int {
	return a.Placements() + a.n*a.n*4*len(a.patterns)
}

// Decode maps an action index to its move. Indices outside [0, Total) fail
// with ErrInvalidActionIndex.
func (a *ActionSpace) Decode(index int) (Move, error) {
	if index < 0 || index >= a.Total() {
		return Move{}, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidActionIndex, index, a.Total())
	}
	cells := a.n * a.n
	if index < a.Placements() {
		return Move{
			Type:   PlaceMove,
			Kind:   Kind(index / cells),
			Square: Square{Row: (index % cells) / a.n, Col: index % a.n},
		}, nil
	}
	offset := index - a.Placements()
	pattern := a.patterns[offset/(4*cells)]
	remainder := offset % (4 * cells)
	drops := make([]int, len(pattern.drops))
	copy(drops, pattern.drops)
	return Move{
		Type:   SlideMove,
		Square: Square{Row: (remainder % cells) / a.n, Col: remainder % a.n},
		Dir:    Direction(remainder / cells),
		Pickup: pattern.pickup,
		Drops:  drops,
	}, nil
}

// Encode maps a move back to its action index. It is the left inverse of
// Decode for every decodable index; moves that no index produces (bad
// square, drops not summing to the pickup) fail with ErrInvalidActionIndex.
func (a *ActionSpace) Encode(m Move) (int, error) {
	cells := a.n * a.n
	if m.Square.Row < 0 || m.Square.Row >= a.n || m.Square.Col < 0 || m.Square.Col >= a.n {
		return 0, fmt.Errorf("%w: square %d,%d out of range", ErrInvalidActionIndex, m.Square.Row, m.Square.Col)
	}
	pos := m.Square.Row*a.n + m.Square.Col
	switch m.Type {
	case PlaceMove:
		if m.Kind < Flat || m.Kind > Capstone {
			return 0, fmt.Errorf("%w: unknown kind %d", ErrInvalidActionIndex, m.Kind)
		}
		return int(m.Kind)*cells + pos, nil
	case SlideMove:
		if m.Dir < Up || m.Dir > Right {
			return 0, fmt.Errorf("%w: unknown direction %d", ErrInvalidActionIndex, m.Dir)
		}
		sum := 0
		for _, d := range m.Drops {
			if d <= 0 {
				return 0, fmt.Errorf("%w: non-positive drop", ErrInvalidActionIndex)
			}
			sum += d
		}
		if sum != m.Pickup || m.Pickup < 1 || m.Pickup > a.n {
			return 0, fmt.Errorf("%w: drops %v do not form a pickup of 1..%d", ErrInvalidActionIndex, m.Drops, a.n)
		}
		rank, ok := a.ranks[dropKey(m.Drops)]
		if !ok {
			return 0, fmt.Errorf("%w: unknown drop pattern %v", ErrInvalidActionIndex, m.Drops)
		}
		return a.Placements() + rank*4*cells + int(m.Dir)*cells + pos, nil
	}
	return 0, fmt.Errorf("%w: unknown move type %d", ErrInvalidActionIndex, m.Type)
}
