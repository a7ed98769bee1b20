package console

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/rocketscienceinc/voice-tictactoe/internal/entity"
	"github.com/rocketscienceinc/voice-tictactoe/internal/tictactoe"
)

const helpText = `Commands:
  <move>                  e.g. "top left", "center", "row 2 column 3", "b2", "5"
  voice                   listen for a spoken move (type it while listening)
  reset                   clear the board
  new <pvp|pvc> [easy|medium|hard] [x|o]
  board                   show the board
  score                   show the scoreboard
  help                    show this help
  quit                    leave`

// renderBoard - empty cells show their number (1-9) so they can be named.
func renderBoard(au aurora.Aurora, board tictactoe.Board) string {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}

		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteString("|")
			}

			cell := row*3 + col
			fmt.Fprintf(&sb, " %s ", renderMark(au, board[cell], cell))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func renderMark(au aurora.Aurora, mark tictactoe.Mark, cell int) aurora.Value {
	switch mark {
	case tictactoe.X:
		return au.Red("X").Bold()
	case tictactoe.O:
		return au.Blue("O").Bold()
	default:
		return au.Gray(12, strconv.Itoa(cell+1))
	}
}

func renderStatus(au aurora.Aurora, game *entity.Game) string {
	if game.IsFinished() {
		if game.Winner == entity.PlayerTie {
			return au.Yellow("Draw.").String()
		}
		return au.Green(game.Winner + " wins.").String()
	}

	status := fmt.Sprintf("%s to move.", game.Turn)
	if game.Listening {
		status += " " + au.Cyan("(listening)").String()
	}

	return status
}

func renderScores(scores []*entity.Score) string {
	if len(scores) == 0 {
		return "No finished games yet."
	}

	var sb strings.Builder
	for i, score := range scores {
		if i > 0 {
			sb.WriteString("\n")
		}

		fields := make([]string, 0, len(score.Counts))
		for field := range score.Counts {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, fmt.Sprintf("%s=%d", field, score.Counts[field]))
		}

		fmt.Fprintf(&sb, "%-10s %s", score.Bucket, strings.Join(parts, " "))
	}

	return sb.String()
}
