package bot

import "github.com/rocketscienceinc/voice-tictactoe/internal/tictactoe"

const (
	scoreWin  = 1
	scoreDraw = 0
	scoreLoss = -1
)

// bestMove - exhaustive minimax from the root where aiMark is to move.
// Moves are tried in ascending order and only a strictly better score
// replaces the current best, so ties resolve to the smallest cell.
func bestMove(board tictactoe.Board, moves []int, aiMark tictactoe.Mark) int {
	best, bestScore := moves[0], scoreLoss-1

	for _, cell := range moves {
		board[cell] = aiMark
		score := minimax(board, aiMark, tictactoe.Opponent(aiMark))
		board[cell] = tictactoe.Empty

		if score > bestScore {
			best, bestScore = cell, score
		}
	}

	return best
}

// minimax scores board for aiMark with toMove about to play.
// Board is passed by value, so every branch works on its own copy.
func minimax(board tictactoe.Board, aiMark, toMove tictactoe.Mark) int {
	switch outcome := tictactoe.Evaluate(board); outcome.Result {
	case tictactoe.Win:
		if outcome.Winner == aiMark {
			return scoreWin
		}
		return scoreLoss
	case tictactoe.Draw:
		return scoreDraw
	case tictactoe.InProgress:
	}

	maximizing := toMove == aiMark

	bestScore := scoreWin + 1
	if maximizing {
		bestScore = scoreLoss - 1
	}

	for _, cell := range tictactoe.AvailableMoves(board) {
		board[cell] = toMove
		score := minimax(board, aiMark, tictactoe.Opponent(toMove))
		board[cell] = tictactoe.Empty

		if (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			bestScore = score
		}
	}

	return bestScore
}
