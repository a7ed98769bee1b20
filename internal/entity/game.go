package entity

import (
	"fmt"

	"github.com/rocketscienceinc/voice-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/voice-tictactoe/internal/bot"
	"github.com/rocketscienceinc/voice-tictactoe/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

// Mode - who sits on the two sides of the board.
type Mode string

const (
	ModePvP Mode = "pvp"
	ModePvC Mode = "pvc"
)

// Settings - resolved configuration of one game.
type Settings struct {
	Mode       Mode
	Difficulty bot.Difficulty
	HumanMark  tictactoe.Mark
}

// NewSettings parses the values coming from a config file, a command or a request.
// Difficulty may be empty for a two player game.
func NewSettings(mode, difficulty, humanMark string) (Settings, error) {
	settings := Settings{Mode: Mode(mode)}

	switch settings.Mode {
	case ModePvP, ModePvC:
	default:
		return Settings{}, fmt.Errorf("%w: unknown mode %q", apperror.ErrInvalidSettings, mode)
	}

	mark, ok := tictactoe.ParseMark(humanMark)
	if !ok {
		return Settings{}, fmt.Errorf("%w: unknown mark %q", apperror.ErrInvalidSettings, humanMark)
	}
	settings.HumanMark = mark

	if settings.Mode == ModePvP && difficulty == "" {
		return settings, nil
	}

	d, err := bot.ParseDifficulty(difficulty)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %w", apperror.ErrInvalidSettings, err)
	}
	settings.Difficulty = d

	return settings, nil
}

func (that Settings) IsWithBot() bool {
	return that.Mode == ModePvC
}

// AIMark - the computer always plays the mark the human did not choose.
func (that Settings) AIMark() tictactoe.Mark {
	return tictactoe.Opponent(that.HumanMark)
}

// ScoreBucket groups finished games for the scoreboard.
func (that Settings) ScoreBucket() string {
	if that.IsWithBot() {
		return string(ModePvC) + ":" + string(that.Difficulty)
	}
	return string(ModePvP)
}

// Game - snapshot of a session as shown to a presentation layer.
type Game struct {
	ID         string          `json:"id"`
	Board      tictactoe.Board `json:"board"`
	Winner     string          `json:"winner"`
	Status     string          `json:"status"`
	Turn       tictactoe.Mark  `json:"player_turn"`
	Players    []*Player       `json:"players,omitempty"`
	Mode       Mode            `json:"mode"`
	Difficulty bot.Difficulty  `json:"difficulty,omitempty"`
	Listening  bool            `json:"listening"`
}

// NewGame builds a snapshot from the session state, deriving status and winner from the board.
func NewGame(id string, settings Settings, board tictactoe.Board, turn tictactoe.Mark) *Game {
	game := &Game{
		ID:      id,
		Board:   board,
		Turn:    turn,
		Mode:    settings.Mode,
		Status:  StatusOngoing,
		Players: NewPlayers(settings),
	}

	if settings.IsWithBot() {
		game.Difficulty = settings.Difficulty
	}

	switch outcome := tictactoe.Evaluate(board); outcome.Result {
	case tictactoe.Win:
		game.Winner = string(outcome.Winner)
		game.Status = StatusFinished
		game.Turn = tictactoe.Empty
	case tictactoe.Draw:
		game.Winner = PlayerTie
		game.Status = StatusFinished
		game.Turn = tictactoe.Empty
	case tictactoe.InProgress:
	}

	return game
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWithBot() bool {
	return that.Mode == ModePvC
}
