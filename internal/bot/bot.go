package bot

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rocketscienceinc/voice-tictactoe/internal/tictactoe"
)

// Difficulty - strategy tier of the computer opponent.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(value string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(value))); d {
	case Easy, Medium, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", value)
	}
}

// Selector picks the computer's move. Only the easy tier and the medium
// fallback consume randomness; the rest is deterministic.
type Selector struct {
	rnd *rand.Rand
}

func NewSelector(rnd *rand.Rand) *Selector {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // it's ok
	}

	return &Selector{rnd: rnd}
}

// SelectMove returns the cell the computer plays, false when the board has no empty cell.
func (that *Selector) SelectMove(board tictactoe.Board, aiMark tictactoe.Mark, difficulty Difficulty) (int, bool) {
	moves := tictactoe.AvailableMoves(board)
	if len(moves) == 0 {
		return 0, false
	}

	switch difficulty {
	case Medium:
		return that.mediumMove(board, moves, aiMark), true
	case Hard:
		return hardMove(board, moves, aiMark), true
	default:
		return that.randomMove(moves), true
	}
}

func (that *Selector) randomMove(moves []int) int {
	return moves[that.rnd.Intn(len(moves))]
}

// mediumMove - take a win, otherwise block, otherwise play randomly.
func (that *Selector) mediumMove(board tictactoe.Board, moves []int, aiMark tictactoe.Mark) int {
	if cell, ok := firstWinningCell(board, moves, aiMark); ok {
		return cell
	}

	if cell, ok := firstWinningCell(board, moves, tictactoe.Opponent(aiMark)); ok {
		return cell
	}

	return that.randomMove(moves)
}

// hardMove - an immediate win, then a block, then the minimax choice.
// Minimax alone scores a slower forced win like an immediate one, and
// every cell alike in a lost position.
func hardMove(board tictactoe.Board, moves []int, aiMark tictactoe.Mark) int {
	if cell, ok := firstWinningCell(board, moves, aiMark); ok {
		return cell
	}

	if cell, ok := firstWinningCell(board, moves, tictactoe.Opponent(aiMark)); ok {
		return cell
	}

	return bestMove(board, moves, aiMark)
}

// firstWinningCell - smallest cell that wins immediately for mark.
func firstWinningCell(board tictactoe.Board, moves []int, mark tictactoe.Mark) (int, bool) {
	for _, cell := range moves {
		board[cell] = mark
		won := tictactoe.Evaluate(board).IsWinFor(mark)
		board[cell] = tictactoe.Empty

		if won {
			return cell, true
		}
	}

	return 0, false
}
