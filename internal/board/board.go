package board

import (
	"errors"
	"fmt"
)

// Size is the number of cells on the board.
const Size = 9

// Mark is the content of a cell: Empty or one of the two player marks.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

var (
	ErrOutOfRange   = errors.New("position is out of range")
	ErrOccupiedCell = errors.New("cell is already occupied")
	ErrInvalidMark  = errors.New("invalid mark")

	// WinningLines lists every row, column and diagonal by cell index.
	WinningLines = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// InvalidMoveError is returned by Apply when a move is rejected.
type InvalidMoveError struct {
	Position int
	Mark     Mark
	Err      error
}

func (that *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move %s at %d: %v", that.Mark, that.Position, that.Err)
}

func (that *InvalidMoveError) Unwrap() error {
	return that.Err
}

// Valid reports whether m is one of the two player marks.
func (m Mark) Valid() bool {
	return m == X || m == O
}

// Opponent returns the other player mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// ParseMark converts "X"/"O" into a Mark. Anything else is Empty.
func ParseMark(s string) Mark {
	switch s {
	case "X", "x":
		return X
	case "O", "o":
		return O
	default:
		return Empty
	}
}

// Board is a 3x3 grid stored row-major. Position p maps to index p-1.
type Board [Size]Mark

// New returns an empty board.
func New() Board {
	return Board{}
}

func inRange(position int) bool {
	return position >= 1 && position <= Size
}

// Cell returns the mark at a 1-based position, Empty when out of range.
func (b Board) Cell(position int) Mark {
	if !inRange(position) {
		return Empty
	}
	return b[position-1]
}

// IsLegal reports whether position is on the board and still empty.
func (b Board) IsLegal(position int) bool {
	return inRange(position) && b[position-1] == Empty
}

// Apply returns a copy of b with mark placed at position.
// On error the returned board equals b.
func (b Board) Apply(position int, mark Mark) (Board, error) {
	if !inRange(position) {
		return b, &InvalidMoveError{Position: position, Mark: mark, Err: ErrOutOfRange}
	}

	if !mark.Valid() {
		return b, &InvalidMoveError{Position: position, Mark: mark, Err: ErrInvalidMark}
	}

	if b[position-1] != Empty {
		return b, &InvalidMoveError{Position: position, Mark: mark, Err: ErrOccupiedCell}
	}

	next := b
	next[position-1] = mark

	return next, nil
}

// Available returns the empty positions in ascending order.
func (b Board) Available() []int {
	positions := make([]int, 0, Size)
	for i, cell := range b {
		if cell == Empty {
			positions = append(positions, i+1)
		}
	}

	return positions
}

// Filled returns the number of marked cells.
func (b Board) Filled() int {
	filled := 0
	for _, cell := range b {
		if cell != Empty {
			filled++
		}
	}

	return filled
}
