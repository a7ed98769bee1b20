package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/voice-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/voice-tictactoe/internal/bot"
	"github.com/rocketscienceinc/voice-tictactoe/internal/entity"
	"github.com/rocketscienceinc/voice-tictactoe/internal/repository"
	"github.com/rocketscienceinc/voice-tictactoe/internal/tictactoe"
	"github.com/rocketscienceinc/voice-tictactoe/internal/usecase"
	"github.com/rocketscienceinc/voice-tictactoe/internal/voice"
)

var (
	discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	defaults      = entity.Settings{Mode: entity.ModePvC, Difficulty: bot.Hard, HumanMark: tictactoe.X}
)

type mockManager struct {
	mock.Mock
}

func (that *mockManager) game(args mock.Arguments) (*entity.Game, error) {
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockManager) CreateGame(ctx context.Context, settings entity.Settings) (*entity.Game, error) {
	return that.game(that.Called(ctx, settings))
}

func (that *mockManager) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	return that.game(that.Called(ctx, id))
}

func (that *mockManager) MakeTurn(ctx context.Context, id string, cell int) (*entity.Game, error) {
	return that.game(that.Called(ctx, id, cell))
}

func (that *mockManager) MakeTurnText(ctx context.Context, id, text string) (*entity.Game, error) {
	return that.game(that.Called(ctx, id, text))
}

func (that *mockManager) Listen(ctx context.Context, id string, listener voice.Listener) (*entity.Game, error) {
	return that.game(that.Called(ctx, id, listener))
}

func (that *mockManager) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	return that.game(that.Called(ctx, id))
}

func (that *mockManager) DeleteGame(id string) error {
	return that.Called(id).Error(0)
}

func (that *mockManager) GetScores(ctx context.Context) ([]*entity.Score, error) {
	args := that.Called(ctx)
	scores, _ := args.Get(0).([]*entity.Score)
	return scores, args.Error(1)
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestHandlers_Ping(t *testing.T) {
	router := NewHandlers(discardLogger, &mockManager{}, defaults).Router()

	rec := do(t, router, http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestHandlers_CreateSession(t *testing.T) {
	t.Run("Missing fields use defaults", func(t *testing.T) {
		// Given: a manager expecting the default settings with O for the human
		manager := &mockManager{}
		expected := entity.Settings{Mode: entity.ModePvC, Difficulty: bot.Hard, HumanMark: tictactoe.O}
		manager.On("CreateGame", mock.Anything, expected).Return(&entity.Game{ID: "abc"}, nil).Once()

		router := NewHandlers(discardLogger, manager, defaults).Router()

		// When: only the mark is sent
		rec := do(t, router, http.MethodPost, "/api/sessions", `{"human_mark":"o"}`)

		// Then: the game is created
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"abc"`)
		manager.AssertExpectations(t)
	})

	t.Run("Invalid settings", func(t *testing.T) {
		router := NewHandlers(discardLogger, &mockManager{}, defaults).Router()

		rec := do(t, router, http.MethodPost, "/api/sessions", `{"mode":"pvc","difficulty":"nightmare"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Malformed body", func(t *testing.T) {
		router := NewHandlers(discardLogger, &mockManager{}, defaults).Router()

		rec := do(t, router, http.MethodPost, "/api/sessions", `{"mode":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlers_MakeMove(t *testing.T) {
	t.Run("Cell zero is a valid move", func(t *testing.T) {
		manager := &mockManager{}
		manager.On("MakeTurn", mock.Anything, "abc", 0).Return(&entity.Game{ID: "abc"}, nil).Once()

		router := NewHandlers(discardLogger, manager, defaults).Router()

		rec := do(t, router, http.MethodPost, "/api/sessions/abc/moves", `{"cell":0}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		manager.AssertExpectations(t)
	})

	t.Run("Errors map to status codes", func(t *testing.T) {
		for err, status := range map[error]int{
			apperror.ErrSessionNotFound:   http.StatusNotFound,
			apperror.ErrCellOccupied:      http.StatusConflict,
			apperror.ErrGameFinished:      http.StatusConflict,
			apperror.ErrMoveNotUnderstood: http.StatusUnprocessableEntity,
			apperror.ErrSessionClosed:     http.StatusGone,
			io.ErrUnexpectedEOF:           http.StatusInternalServerError,
		} {
			manager := &mockManager{}
			manager.On("MakeTurnText", mock.Anything, "abc", "top left").Return(nil, err).Once()

			router := NewHandlers(discardLogger, manager, defaults).Router()

			rec := do(t, router, http.MethodPost, "/api/sessions/abc/moves", `{"text":"top left"}`)

			assert.Equal(t, status, rec.Code, err.Error())
		}
	})

	t.Run("Empty move", func(t *testing.T) {
		router := NewHandlers(discardLogger, &mockManager{}, defaults).Router()

		rec := do(t, router, http.MethodPost, "/api/sessions/abc/moves", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlers_Voice(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		manager := &mockManager{}
		manager.On("Listen", mock.Anything, "abc", voice.Transcript{Text: "centre"}).
			Return(&entity.Game{ID: "abc", Listening: true}, nil).Once()

		router := NewHandlers(discardLogger, manager, defaults).Router()

		rec := do(t, router, http.MethodPost, "/api/sessions/abc/voice", `{"transcript":"centre"}`)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Contains(t, rec.Body.String(), `"listening":true`)
		manager.AssertExpectations(t)
	})

	t.Run("Busy", func(t *testing.T) {
		manager := &mockManager{}
		manager.On("Listen", mock.Anything, "abc", mock.Anything).Return(nil, apperror.ErrAlreadyListening).Once()

		router := NewHandlers(discardLogger, manager, defaults).Router()

		rec := do(t, router, http.MethodPost, "/api/sessions/abc/voice", `{"signal":"no_input"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Unknown signal", func(t *testing.T) {
		router := NewHandlers(discardLogger, &mockManager{}, defaults).Router()

		rec := do(t, router, http.MethodPost, "/api/sessions/abc/voice", `{"signal":"static"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlers_DeleteAndScores(t *testing.T) {
	manager := &mockManager{}
	manager.On("DeleteGame", "abc").Return(nil).Once()
	manager.On("GetScores", mock.Anything).Return([]*entity.Score{
		{Bucket: "pvp", Counts: map[string]int64{entity.ScoreXWin: 1}},
	}, nil).Once()

	router := NewHandlers(discardLogger, manager, defaults).Router()

	rec := do(t, router, http.MethodDelete, "/api/sessions/abc", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/scores", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var scores []*entity.Score
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scores))
	require.Len(t, scores, 1)
	assert.Equal(t, int64(1), scores[0].Counts[entity.ScoreXWin])

	manager.AssertExpectations(t)
}

func TestHandlers_FullGame(t *testing.T) {
	// Given: a real game manager behind the router
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	scores := repository.NewMemoryScoreRepository()
	manager := usecase.NewGameManager(ctx, discardLogger, bot.NewSelector(nil), scores, usecase.NewLogAnnouncer(discardLogger), time.Second)
	router := NewHandlers(discardLogger, manager, defaults).Router()

	rec := do(t, router, http.MethodPost, "/api/sessions", `{"mode":"pvp"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var game entity.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))

	// When: X takes the top row while O plays the middle row
	for _, cell := range []int{0, 3, 1, 4, 2} {
		rec = do(t, router, http.MethodPost, "/api/sessions/"+game.ID+"/moves", `{"cell":`+strconv.Itoa(cell)+`}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	// Then: X has won and the scoreboard shows it
	rec = do(t, router, http.MethodGet, "/api/sessions/"+game.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))
	assert.Equal(t, entity.StatusFinished, game.Status)
	assert.Equal(t, "X", game.Winner)

	rec = do(t, router, http.MethodPost, "/api/sessions/"+game.ID+"/moves", `{"cell":8}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	all, err := scores.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(1), all[0].Counts[entity.ScoreXWin])
}
