package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/voice-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/voice-tictactoe/internal/bot"
	"github.com/rocketscienceinc/voice-tictactoe/internal/entity"
	"github.com/rocketscienceinc/voice-tictactoe/internal/phrase"
	"github.com/rocketscienceinc/voice-tictactoe/internal/tictactoe"
	"github.com/rocketscienceinc/voice-tictactoe/internal/voice"
)

type moveSelector interface {
	SelectMove(board tictactoe.Board, aiMark tictactoe.Mark, difficulty bot.Difficulty) (int, bool)
}

type scoreRepo interface {
	Increment(ctx context.Context, bucket, field string) error
}

// Announcer speaks (or prints) messages to the players.
type Announcer interface {
	Announce(ctx context.Context, text string)
}

type command struct {
	fn    func(ctx context.Context) error
	ctx   context.Context
	reply chan commandReply
}

type commandReply struct {
	game *entity.Game
	err  error
}

// Session owns one game. All state below the channels is touched only by the
// goroutine running Run; callers and the voice worker send it commands.
type Session struct {
	id     string
	logger *slog.Logger

	selector  moveSelector
	scoreRepo scoreRepo
	announcer Announcer
	worker    *voice.Worker
	listener  voice.Listener

	commands     chan command
	voiceResults chan voice.Result
	updates      []func(*entity.Game)
	done         chan struct{}
	runCtx       context.Context

	settings entity.Settings
	board    tictactoe.Board
	turn     tictactoe.Mark
}

type SessionDeps struct {
	Selector  moveSelector
	ScoreRepo scoreRepo
	Announcer Announcer
	Worker    *voice.Worker

	// Listener is used when Listen is called without one; may be nil.
	Listener voice.Listener
}

func NewSession(logger *slog.Logger, id string, settings entity.Settings, deps SessionDeps) *Session {
	return &Session{
		id:     id,
		logger: logger.With("component", "session", "sessionID", id),

		selector:  deps.Selector,
		scoreRepo: deps.ScoreRepo,
		announcer: deps.Announcer,
		worker:    deps.Worker,
		listener:  deps.Listener,

		commands:     make(chan command),
		voiceResults: make(chan voice.Result, 1),
		done:         make(chan struct{}),

		settings: settings,
		turn:     tictactoe.X,
	}
}

func (that *Session) ID() string {
	return that.id
}

// OnUpdate registers fn to be called after the owner changes the game on its
// own, e.g. after a voice move. Must be called before Run.
func (that *Session) OnUpdate(fn func(*entity.Game)) {
	that.updates = append(that.updates, fn)
}

// Run processes commands until ctx is canceled. It announces the game and
// lets the computer open when it plays X.
func (that *Session) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	that.runCtx = ctx
	defer close(that.done)

	that.startGame(ctx)
	that.notify()

	for {
		select {
		case cmd := <-that.commands:
			err := cmd.fn(cmd.ctx)
			cmd.reply <- commandReply{game: that.snapshot(), err: err}
		case result := <-that.voiceResults:
			that.handleVoiceResult(ctx, result)
			that.notify()
		case <-ctx.Done():
			log.Info("session stopped")
			return
		}
	}
}

// Done is closed once Run has returned.
func (that *Session) Done() <-chan struct{} {
	return that.done
}

func (that *Session) State(ctx context.Context) (*entity.Game, error) {
	return that.exec(ctx, func(context.Context) error { return nil })
}

// Move places the current player's mark, then lets the computer answer.
func (that *Session) Move(ctx context.Context, cell int) (*entity.Game, error) {
	return that.exec(ctx, func(ctx context.Context) error {
		return that.playHuman(ctx, cell)
	})
}

// MoveText parses a typed or spoken phrase and plays it.
func (that *Session) MoveText(ctx context.Context, text string) (*entity.Game, error) {
	cell, ok := phrase.Parse(text)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrMoveNotUnderstood, text)
	}

	return that.Move(ctx, cell)
}

// Listen starts a voice capture. The move it yields is applied later by the
// owner; listener may be nil to use the session's default one.
func (that *Session) Listen(ctx context.Context, listener voice.Listener) (*entity.Game, error) {
	if listener == nil {
		listener = that.listener
	}

	if listener == nil || that.worker == nil {
		return nil, apperror.ErrVoiceUnavailable
	}

	return that.exec(ctx, func(ctx context.Context) error {
		err := that.worker.Start(that.runCtx, listener, that.deliverVoiceResult)
		if errors.Is(err, voice.ErrBusy) {
			return apperror.ErrAlreadyListening
		}
		if err != nil {
			return fmt.Errorf("failed to start listening: %w", err)
		}

		that.announce(ctx, "Listening for your move. Speak now.")

		return nil
	})
}

// Reset clears the board keeping the settings.
func (that *Session) Reset(ctx context.Context) (*entity.Game, error) {
	return that.exec(ctx, func(ctx context.Context) error {
		that.resetBoard(ctx)
		that.announce(ctx, "Board reset.")
		return nil
	})
}

// NewGame replaces the settings and starts over.
func (that *Session) NewGame(ctx context.Context, settings entity.Settings) (*entity.Game, error) {
	return that.exec(ctx, func(ctx context.Context) error {
		that.settings = settings
		that.startGame(ctx)
		return nil
	})
}

func (that *Session) exec(ctx context.Context, fn func(ctx context.Context) error) (*entity.Game, error) {
	cmd := command{fn: fn, ctx: ctx, reply: make(chan commandReply, 1)}

	select {
	case that.commands <- cmd:
	case <-that.done:
		return nil, apperror.ErrSessionClosed
	case <-ctx.Done():
		return nil, fmt.Errorf("session busy: %w", ctx.Err())
	}

	select {
	case reply := <-cmd.reply:
		return reply.game, reply.err
	case <-ctx.Done():
		return nil, fmt.Errorf("session did not reply: %w", ctx.Err())
	}
}

func (that *Session) startGame(ctx context.Context) {
	if that.settings.IsWithBot() {
		that.announce(ctx, fmt.Sprintf("Game started. You are %s. %s difficulty.", that.settings.HumanMark, that.settings.Difficulty))
	} else {
		that.announce(ctx, "Two player mode started. X plays first.")
	}

	that.resetBoard(ctx)
}

// resetBoard - X always moves first, so the computer opens when it holds X.
func (that *Session) resetBoard(ctx context.Context) {
	that.board = tictactoe.Board{}
	that.turn = tictactoe.X

	if that.settings.IsWithBot() && that.settings.AIMark() == tictactoe.X {
		that.playComputer(ctx)
	}
}

func (that *Session) playHuman(ctx context.Context, cell int) error {
	if err := that.placeHuman(cell); err != nil {
		return err
	}

	that.afterMove(ctx)

	return nil
}

// placeHuman - validates and places the mark of the player to move.
func (that *Session) placeHuman(cell int) error {
	if tictactoe.Evaluate(that.board).IsTerminal() {
		return apperror.ErrGameFinished
	}

	if that.settings.IsWithBot() && that.turn != that.settings.HumanMark {
		return apperror.ErrNotYourTurn
	}

	board, err := tictactoe.ApplyMove(that.board, cell, that.turn)
	switch {
	case errors.Is(err, tictactoe.ErrCellOccupied):
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	case errors.Is(err, tictactoe.ErrInvalidCell):
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	case err != nil:
		return fmt.Errorf("failed to make move: %w", err)
	}

	that.board = board

	return nil
}

func (that *Session) playComputer(ctx context.Context) {
	log := that.logger.With("method", "playComputer")

	cell, ok := that.selector.SelectMove(that.board, that.turn, that.settings.Difficulty)
	if !ok {
		// the board was checked before asking, so this is a broken invariant
		log.Error("no legal move for computer", "board", that.board.String())
		return
	}

	board, err := tictactoe.ApplyMove(that.board, cell, that.turn)
	if err != nil {
		log.Error("computer chose an illegal move", "cell", cell, "board", that.board.String(), "error", err)
		return
	}

	log.Debug("computer moved", "cell", cell, "difficulty", that.settings.Difficulty)

	that.board = board
	that.afterMove(ctx)
}

// afterMove - finish the game or pass the turn, letting the computer answer.
func (that *Session) afterMove(ctx context.Context) {
	outcome := tictactoe.Evaluate(that.board)
	if outcome.IsTerminal() {
		that.finishGame(ctx, outcome)
		return
	}

	that.turn = tictactoe.Opponent(that.turn)

	if that.settings.IsWithBot() && that.turn == that.settings.AIMark() {
		that.playComputer(ctx)
	}
}

func (that *Session) finishGame(ctx context.Context, outcome tictactoe.Outcome) {
	log := that.logger.With("method", "finishGame")

	if outcome.Result == tictactoe.Draw {
		that.announce(ctx, "It's a draw.")
	} else {
		that.announce(ctx, fmt.Sprintf("%s wins.", outcome.Winner))
	}

	log.Info("game finished", "result", outcome.Result.String(), "winner", string(outcome.Winner), "board", that.board.String())

	if that.scoreRepo == nil {
		return
	}

	if err := that.scoreRepo.Increment(ctx, that.settings.ScoreBucket(), that.scoreField(outcome)); err != nil {
		log.Error("failed to record score", "error", err)
	}
}

func (that *Session) scoreField(outcome tictactoe.Outcome) string {
	switch {
	case outcome.Result == tictactoe.Draw:
		return entity.ScoreDraw
	case that.settings.IsWithBot() && outcome.Winner == that.settings.HumanMark:
		return entity.ScoreHumanWin
	case that.settings.IsWithBot():
		return entity.ScoreComputerWin
	case outcome.Winner == tictactoe.X:
		return entity.ScoreXWin
	default:
		return entity.ScoreOWin
	}
}

// deliverVoiceResult runs on the worker goroutine and only hands the result over.
func (that *Session) deliverVoiceResult(result voice.Result) {
	select {
	case that.voiceResults <- result:
	case <-that.done:
	}
}

func (that *Session) handleVoiceResult(ctx context.Context, result voice.Result) {
	log := that.logger.With("method", "handleVoiceResult")

	if result.Status != voice.StatusOK {
		log.Info("voice move rejected", "status", string(result.Status), "transcript", result.Transcript)
		that.announce(ctx, result.Message())
		return
	}

	err := that.placeHuman(result.Cell)
	switch {
	case err == nil:
		that.announce(ctx, "Move placed.")
		that.afterMove(ctx)
	case errors.Is(err, apperror.ErrGameFinished):
		that.announce(ctx, "Game over. Reset to play again.")
	case errors.Is(err, apperror.ErrCellOccupied):
		that.announce(ctx, "That cell is occupied. Try another move.")
	case errors.Is(err, apperror.ErrNotYourTurn):
		that.announce(ctx, "It's not your turn.")
	default:
		log.Error("failed to apply voice move", "cell", result.Cell, "error", err)
		that.announce(ctx, "Could not place that move.")
	}
}

func (that *Session) snapshot() *entity.Game {
	game := entity.NewGame(that.id, that.settings, that.board, that.turn)
	game.Listening = that.worker != nil && that.worker.Busy()

	return game
}

func (that *Session) notify() {
	if len(that.updates) == 0 {
		return
	}

	game := that.snapshot()
	for _, fn := range that.updates {
		fn(game)
	}
}

func (that *Session) announce(ctx context.Context, text string) {
	if that.announcer != nil {
		that.announcer.Announce(ctx, text)
	}
}
