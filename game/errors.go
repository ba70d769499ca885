package game

import "errors"

// Engine-level errors are expected, recoverable conditions. They are checked
// before any mutation, so a failed operation never leaves partial state.
var (
	// ErrOccupiedCell rejects a placement onto a non-empty cell.
	ErrOccupiedCell = errors.New("cell is occupied")
	// ErrReserveExhausted rejects a placement with no matching stone left.
	ErrReserveExhausted = errors.New("reserve exhausted")
	// ErrIllegalMove rejects a move that is semantically well-formed but not
	// legal in the current position.
	ErrIllegalMove = errors.New("illegal move")
	// ErrInvalidActionIndex rejects an action index outside [0, Total) or one
	// that does not decode to a well-formed move.
	ErrInvalidActionIndex = errors.New("invalid action index")
	// ErrParse rejects malformed move notation, before any legality check.
	ErrParse = errors.New("malformed move notation")
)
