package tictactoe

import "strings"

// Mark - a symbol a player places on the board.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// BoardSize - number of cells on the 3x3 board.
const BoardSize = 9

// Board - cells in row-major order: 0,1,2 top row; 3,4,5 middle; 6,7,8 bottom.
type Board [BoardSize]Mark

// IsValid reports whether the mark can be placed by a player.
func (that Mark) IsValid() bool {
	return that == X || that == O
}

// Opponent - returns the other player's mark.
func Opponent(mark Mark) Mark {
	if mark == X {
		return O
	}
	return X
}

// ParseMark accepts "x" or "o" in any case.
func ParseMark(value string) (Mark, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(X):
		return X, true
	case string(O):
		return O, true
	default:
		return Empty, false
	}
}

// IsFull reports whether no empty cell is left.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}
	return true
}

// Count - number of cells holding mark.
func (that Board) Count(mark Mark) int {
	n := 0
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}
	return n
}

// String renders the board as three rows separated by '|', empty cells as '.'.
func (that Board) String() string {
	var sb strings.Builder
	for i, cell := range that {
		if i > 0 && i%3 == 0 {
			sb.WriteByte('|')
		}
		if cell == Empty {
			sb.WriteByte('.')
			continue
		}
		sb.WriteString(string(cell))
	}
	return sb.String()
}
