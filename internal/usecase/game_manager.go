package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/voice-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/voice-tictactoe/internal/entity"
	"github.com/rocketscienceinc/voice-tictactoe/internal/pkg"
	"github.com/rocketscienceinc/voice-tictactoe/internal/voice"
)

type scoreReader interface {
	GetAll(ctx context.Context) ([]*entity.Score, error)
}

type scoreStore interface {
	scoreRepo
	scoreReader
}

type managedSession struct {
	session *Session
	cancel  context.CancelFunc
}

// GameManager keeps the sessions of an HTTP server, each with its own owner goroutine.
type GameManager struct {
	logger *slog.Logger

	selector     moveSelector
	scoreStore   scoreStore
	announcer    Announcer
	voiceTimeout time.Duration

	ctx context.Context

	mu       sync.RWMutex
	sessions map[string]*managedSession
}

// NewGameManager - sessions live until deleted or until ctx is canceled.
func NewGameManager(ctx context.Context, logger *slog.Logger, selector moveSelector, scoreStore scoreStore, announcer Announcer, voiceTimeout time.Duration) *GameManager {
	return &GameManager{
		logger: logger.With("component", "gameManager"),

		selector:     selector,
		scoreStore:   scoreStore,
		announcer:    announcer,
		voiceTimeout: voiceTimeout,

		ctx:      ctx,
		sessions: make(map[string]*managedSession),
	}
}

func (that *GameManager) CreateGame(ctx context.Context, settings entity.Settings) (*entity.Game, error) {
	log := that.logger.With("method", "CreateGame")

	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("error generating game ID: %w", err)
	}

	session := NewSession(that.logger, gameID, settings, SessionDeps{
		Selector:  that.selector,
		ScoreRepo: that.scoreStore,
		Announcer: that.announcer,
		Worker:    voice.NewWorker(that.logger, that.voiceTimeout),
	})

	sessionCtx, cancel := context.WithCancel(that.ctx)
	go session.Run(sessionCtx)

	that.mu.Lock()
	that.sessions[gameID] = &managedSession{session: session, cancel: cancel}
	that.mu.Unlock()

	log.Info("game created", "gameID", gameID, "mode", string(settings.Mode), "difficulty", string(settings.Difficulty))

	return session.State(ctx)
}

func (that *GameManager) GetSession(id string) (*Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	managed, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	return managed.session, nil
}

func (that *GameManager) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	session, err := that.GetSession(id)
	if err != nil {
		return nil, err
	}

	return session.State(ctx)
}

func (that *GameManager) MakeTurn(ctx context.Context, id string, cell int) (*entity.Game, error) {
	session, err := that.GetSession(id)
	if err != nil {
		return nil, err
	}

	game, err := session.Move(ctx, cell)
	if err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	return game, nil
}

func (that *GameManager) MakeTurnText(ctx context.Context, id, text string) (*entity.Game, error) {
	session, err := that.GetSession(id)
	if err != nil {
		return nil, err
	}

	game, err := session.MoveText(ctx, text)
	if err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	return game, nil
}

func (that *GameManager) Listen(ctx context.Context, id string, listener voice.Listener) (*entity.Game, error) {
	session, err := that.GetSession(id)
	if err != nil {
		return nil, err
	}

	game, err := session.Listen(ctx, listener)
	if err != nil {
		return game, fmt.Errorf("failed to listen: %w", err)
	}

	return game, nil
}

func (that *GameManager) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	session, err := that.GetSession(id)
	if err != nil {
		return nil, err
	}

	return session.Reset(ctx)
}

// DeleteGame stops the session's owner and forgets it.
func (that *GameManager) DeleteGame(id string) error {
	that.mu.Lock()
	managed, ok := that.sessions[id]
	delete(that.sessions, id)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	managed.cancel()
	<-managed.session.Done()

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

func (that *GameManager) GetScores(ctx context.Context) ([]*entity.Score, error) {
	scores, err := that.scoreStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}

	return scores, nil
}
