package tictactoe

import (
	"errors"
	"fmt"
)

// Result - state of a game derived from its board.
type Result int

const (
	InProgress Result = iota
	Win
	Draw
)

func (that Result) String() string {
	switch that {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrInvalidCell  = fmt.Errorf("%w: invalid cell index", ErrInvalidMove)
	ErrCellOccupied = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)
	ErrGameFinished = fmt.Errorf("%w: game is already finished", ErrInvalidMove)
	ErrInvalidMark  = fmt.Errorf("%w: invalid mark", ErrInvalidMove)

	WinCombos = [8][3]int{
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

// Outcome - result of a board; Winner is set only for Win.
type Outcome struct {
	Result Result
	Winner Mark
}

func (that Outcome) IsTerminal() bool {
	return that.Result != InProgress
}

// IsWinFor reports whether mark has won.
func (that Outcome) IsWinFor(mark Mark) bool {
	return that.Result == Win && that.Winner == mark
}

// Evaluate - checks the winning lines first, then whether the board is full.
func Evaluate(board Board) Outcome {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != Empty && a == b && b == c {
			return Outcome{Result: Win, Winner: a}
		}
	}

	// the game continues until all the squares are full
	if !board.IsFull() {
		return Outcome{Result: InProgress}
	}

	return Outcome{Result: Draw}
}

// AvailableMoves - indices of empty cells in ascending order.
func AvailableMoves(board Board) []int {
	moves := make([]int, 0, BoardSize)
	for i, cell := range board {
		if cell == Empty {
			moves = append(moves, i)
		}
	}
	return moves
}

// ApplyMove - returns a copy of board with mark placed at cell.
// Turn order is not checked here, that is the caller's policy.
func ApplyMove(board Board, cell int, mark Mark) (Board, error) {
	if err := validateMove(board, cell, mark); err != nil {
		return board, err
	}

	board[cell] = mark

	return board, nil
}

// validateMove - checks if the move is valid.
func validateMove(board Board, cell int, mark Mark) error {
	if cell < 0 || cell >= BoardSize {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if !mark.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}

	if Evaluate(board).IsTerminal() {
		return ErrGameFinished
	}

	if board[cell] != Empty {
		return fmt.Errorf("%w: cell %d", ErrCellOccupied, cell)
	}

	return nil
}
