package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/voice-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/voice-tictactoe/internal/entity"
	"github.com/rocketscienceinc/voice-tictactoe/internal/voice"
)

const maxBodyBytes = 1 << 16

type gameManager interface {
	CreateGame(ctx context.Context, settings entity.Settings) (*entity.Game, error)
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.Game, error)
	MakeTurnText(ctx context.Context, id, text string) (*entity.Game, error)
	Listen(ctx context.Context, id string, listener voice.Listener) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(id string) error
	GetScores(ctx context.Context) ([]*entity.Score, error)
}

type Handlers struct {
	logger   *slog.Logger
	manager  gameManager
	defaults entity.Settings
}

// NewHandlers - defaults fill in whatever a create request leaves out.
func NewHandlers(logger *slog.Logger, manager gameManager, defaults entity.Settings) *Handlers {
	return &Handlers{
		logger:   logger.With("component", "rest"),
		manager:  manager,
		defaults: defaults,
	}
}

func (that *Handlers) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/ping", that.Ping)

	router.Route("/api", func(r chi.Router) {
		r.Get("/scores", that.GetScores)

		r.Post("/sessions", that.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", that.GetSession)
			r.Delete("/", that.DeleteSession)
			r.Post("/moves", that.MakeMove)
			r.Post("/voice", that.Voice)
			r.Post("/reset", that.Reset)
		})
	})

	return router
}

type createRequest struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	HumanMark  string `json:"human_mark"`
}

type moveRequest struct {
	Cell *int   `json:"cell"`
	Text string `json:"text"`
}

type voiceRequest struct {
	Transcript string `json:"transcript"`
	Signal     string `json:"signal"`
}

type errorResponse struct {
	Error string       `json:"error"`
	Game  *entity.Game `json:"game,omitempty"`
}

func (that *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.Mode == "" {
		req.Mode = string(that.defaults.Mode)
	}
	if req.HumanMark == "" {
		req.HumanMark = string(that.defaults.HumanMark)
	}
	if req.Difficulty == "" && entity.Mode(req.Mode) == entity.ModePvC {
		req.Difficulty = string(that.defaults.Difficulty)
	}

	settings, err := entity.NewSettings(req.Mode, req.Difficulty, req.HumanMark)
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	game, err := that.manager.CreateGame(r.Context(), settings)
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	game, err := that.manager.GetGameByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Handlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !that.decode(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")

	var (
		game *entity.Game
		err  error
	)

	switch {
	case req.Cell != nil:
		game, err = that.manager.MakeTurn(r.Context(), id, *req.Cell)
	case req.Text != "":
		game, err = that.manager.MakeTurnText(r.Context(), id, req.Text)
	default:
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell or text is required"})
		return
	}

	if err != nil {
		that.writeError(w, err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

// Voice - the client did the speech recognition; the move is applied
// asynchronously and shows up in later snapshots.
func (that *Handlers) Voice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if !that.decode(w, r, &req) {
		return
	}

	transcript, err := voice.NewTranscript(req.Transcript, req.Signal)
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	game, err := that.manager.Listen(r.Context(), chi.URLParam(r, "id"), transcript)
	if err != nil {
		that.writeError(w, err, game)
		return
	}

	that.writeJSON(w, http.StatusAccepted, game)
}

func (that *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	game, err := that.manager.ResetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.manager.DeleteGame(chi.URLParam(r, "id")); err != nil {
		that.writeError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Handlers) GetScores(w http.ResponseWriter, r *http.Request) {
	scores, err := that.manager.GetScores(r.Context())
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, scores)
}

func (that *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}

	return true
}

func (that *Handlers) writeError(w http.ResponseWriter, err error, game *entity.Game) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error(), Game: game})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, apperror.ErrAlreadyListening),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrMoveNotUnderstood),
		errors.Is(err, apperror.ErrInvalidSettings):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
