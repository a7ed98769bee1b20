package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/voice-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/voice-tictactoe/internal/bot"
	"github.com/rocketscienceinc/voice-tictactoe/internal/tictactoe"
)

func TestNewSettings(t *testing.T) {
	t.Run("Computer game", func(t *testing.T) {
		// When: parsing a computer game configuration
		settings, err := NewSettings("pvc", "Hard", "o")

		// Then: all values should be resolved
		require.NoError(t, err)
		assert.Equal(t, Settings{Mode: ModePvC, Difficulty: bot.Hard, HumanMark: tictactoe.O}, settings)
		assert.Equal(t, tictactoe.X, settings.AIMark())
		assert.True(t, settings.IsWithBot())
		assert.Equal(t, "pvc:hard", settings.ScoreBucket())
	})

	t.Run("Two player game without difficulty", func(t *testing.T) {
		settings, err := NewSettings("pvp", "", "x")

		require.NoError(t, err)
		assert.False(t, settings.IsWithBot())
		assert.Equal(t, "pvp", settings.ScoreBucket())
	})

	t.Run("Invalid values", func(t *testing.T) {
		for _, values := range [][3]string{
			{"online", "easy", "x"},
			{"pvc", "easy", "z"},
			{"pvc", "", "x"},
			{"pvc", "nightmare", "x"},
		} {
			_, err := NewSettings(values[0], values[1], values[2])
			assert.ErrorIs(t, err, apperror.ErrInvalidSettings, "%v", values)
		}
	})
}

func TestNewGame(t *testing.T) {
	settings := Settings{Mode: ModePvC, Difficulty: bot.Medium, HumanMark: tictactoe.X}

	t.Run("Ongoing game keeps the turn", func(t *testing.T) {
		// Given: a board in progress
		board := tictactoe.Board{tictactoe.X}

		// When: building a snapshot
		game := NewGame("123", settings, board, tictactoe.O)

		// Then: it should be ongoing with O to move
		assert.True(t, game.IsOngoing())
		assert.True(t, game.IsWithBot())
		assert.Equal(t, tictactoe.O, game.Turn)
		assert.Empty(t, game.Winner)
		assert.Equal(t, bot.Medium, game.Difficulty)
		require.Len(t, game.Players, 2)
		assert.Equal(t, &Player{Kind: KindHuman, Mark: tictactoe.X}, game.Players[0])
		assert.True(t, game.Players[1].IsBot())
	})

	t.Run("Won game is finished", func(t *testing.T) {
		board := tictactoe.Board{
			tictactoe.X, tictactoe.X, tictactoe.X,
			tictactoe.O, tictactoe.O, tictactoe.Empty,
			tictactoe.Empty, tictactoe.Empty, tictactoe.Empty,
		}

		game := NewGame("123", settings, board, tictactoe.O)

		assert.True(t, game.IsFinished())
		assert.Equal(t, "X", game.Winner)
		assert.Equal(t, tictactoe.Empty, game.Turn)
	})

	t.Run("Drawn game is a tie", func(t *testing.T) {
		board := tictactoe.Board{
			tictactoe.X, tictactoe.O, tictactoe.X,
			tictactoe.O, tictactoe.X, tictactoe.O,
			tictactoe.O, tictactoe.X, tictactoe.O,
		}

		game := NewGame("123", Settings{Mode: ModePvP, HumanMark: tictactoe.X}, board, tictactoe.X)

		assert.True(t, game.IsFinished())
		assert.Equal(t, PlayerTie, game.Winner)
		assert.Empty(t, game.Difficulty)
	})
}

func TestNewPlayers(t *testing.T) {
	// When: the human plays O against the computer
	players := NewPlayers(Settings{Mode: ModePvC, Difficulty: bot.Easy, HumanMark: tictactoe.O})

	// Then: the computer moves first with X
	require.Len(t, players, 2)
	assert.Equal(t, &Player{Kind: KindComputer, Mark: tictactoe.X}, players[0])
	assert.Equal(t, &Player{Kind: KindHuman, Mark: tictactoe.O}, players[1])
}
