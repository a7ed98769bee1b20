// Package console plays a session in a terminal. While a voice capture is
// running, the next typed line stands in for the spoken phrase.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/logrusorgru/aurora"

	"github.com/rocketscienceinc/voice-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/voice-tictactoe/internal/entity"
	"github.com/rocketscienceinc/voice-tictactoe/internal/phrase"
	"github.com/rocketscienceinc/voice-tictactoe/internal/tictactoe"
	"github.com/rocketscienceinc/voice-tictactoe/internal/voice"
)

var errQuit = errors.New("quit")

type session interface {
	OnUpdate(fn func(*entity.Game))
	Run(ctx context.Context)
	Done() <-chan struct{}

	State(ctx context.Context) (*entity.Game, error)
	Move(ctx context.Context, cell int) (*entity.Game, error)
	MoveText(ctx context.Context, text string) (*entity.Game, error)
	Listen(ctx context.Context, listener voice.Listener) (*entity.Game, error)
	Reset(ctx context.Context) (*entity.Game, error)
	NewGame(ctx context.Context, settings entity.Settings) (*entity.Game, error)
}

type scoreReader interface {
	GetAll(ctx context.Context) ([]*entity.Score, error)
}

type Console struct {
	logger   *slog.Logger
	in       io.Reader
	out      io.Writer
	au       aurora.Aurora
	scores   scoreReader
	defaults entity.Settings

	// how long a typed line waits for the voice capture to take it
	listenWait time.Duration

	mu        sync.Mutex
	spoken    chan string
	listening atomic.Bool

	handlers map[string]func(ctx context.Context, s session, args []string) error
}

func New(logger *slog.Logger, in io.Reader, out io.Writer, scores scoreReader, defaults entity.Settings, listenWait time.Duration, colored bool) *Console {
	console := &Console{
		logger:   logger.With("component", "console"),
		in:       in,
		out:      out,
		au:       aurora.NewAurora(colored),
		scores:   scores,
		defaults: defaults,

		listenWait: listenWait,

		spoken: make(chan string),

		handlers: make(map[string]func(context.Context, session, []string) error),
	}

	console.handlers["voice"] = console.handleVoice
	console.handlers["listen"] = console.handleVoice
	console.handlers["reset"] = console.handleReset
	console.handlers["new"] = console.handleNewGame
	console.handlers["board"] = console.handleBoard
	console.handlers["score"] = console.handleScore
	console.handlers["help"] = console.handleHelp
	console.handlers["quit"] = console.handleQuit
	console.handlers["exit"] = console.handleQuit

	return console
}

// Listener - voice input for the session; it receives lines typed while listening.
func (that *Console) Listener() voice.Listener {
	return voice.NewLineListener(that.spoken)
}

// Announce prints a spoken message.
func (that *Console) Announce(_ context.Context, text string) {
	that.println(that.au.Magenta("> " + text).String())
}

// Play runs s and reads commands until quit, end of input or ctx is canceled.
func (that *Console) Play(ctx context.Context, s session) error {
	log := that.logger.With("method", "Play")

	s.OnUpdate(that.redraw)

	sessionCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		<-s.Done()
	}()

	go s.Run(sessionCtx)

	lines := that.readLines()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				log.Info("input closed")
				return nil
			}

			if that.forwardSpoken(ctx, line) {
				continue
			}

			err := that.handle(ctx, s, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				that.reportError(err)
			}
		}
	}
}

func (that *Console) readLines() <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}

		if err := scanner.Err(); err != nil {
			that.logger.Error("failed to read input", "error", err)
		}
	}()

	return lines
}

// forwardSpoken hands line to a running voice capture, if there is one.
func (that *Console) forwardSpoken(ctx context.Context, line string) bool {
	if !that.listening.Load() {
		return false
	}

	timer := time.NewTimer(that.listenWait)
	defer timer.Stop()

	select {
	case that.spoken <- line:
		return true
	case <-timer.C:
		that.listening.Store(false)
		return false
	case <-ctx.Done():
		return true
	}
}

func (that *Console) handle(ctx context.Context, s session, line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil
	}

	if handler, ok := that.handlers[fields[0]]; ok {
		return handler(ctx, s, fields[1:])
	}

	game, err := that.playLine(ctx, s, line)
	if err != nil {
		return err
	}

	that.show(game)

	return nil
}

// playLine - a phrase, or the number the board shows on an empty cell.
func (that *Console) playLine(ctx context.Context, s session, line string) (*entity.Game, error) {
	if _, ok := phrase.Parse(line); !ok {
		if cell, ok := phrase.ParseWithFallback(line); ok {
			return s.Move(ctx, cell)
		}
	}

	return s.MoveText(ctx, line)
}

func (that *Console) handleVoice(ctx context.Context, s session, _ []string) error {
	game, err := s.Listen(ctx, nil)
	if err != nil {
		return err
	}

	that.listening.Store(game.Listening)

	return nil
}

func (that *Console) handleReset(ctx context.Context, s session, _ []string) error {
	game, err := s.Reset(ctx)
	if err != nil {
		return err
	}

	that.show(game)

	return nil
}

func (that *Console) handleNewGame(ctx context.Context, s session, args []string) error {
	settings, err := parseSettings(args, that.defaults)
	if err != nil {
		return err
	}

	game, err := s.NewGame(ctx, settings)
	if err != nil {
		return err
	}

	that.show(game)

	return nil
}

func (that *Console) handleBoard(ctx context.Context, s session, _ []string) error {
	game, err := s.State(ctx)
	if err != nil {
		return err
	}

	that.show(game)

	return nil
}

func (that *Console) handleScore(ctx context.Context, _ session, _ []string) error {
	scores, err := that.scores.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to get scores: %w", err)
	}

	that.println(renderScores(scores))

	return nil
}

func (that *Console) handleHelp(_ context.Context, _ session, _ []string) error {
	that.println(helpText)
	return nil
}

func (that *Console) handleQuit(_ context.Context, _ session, _ []string) error {
	return errQuit
}

// parseSettings reads "<pvp|pvc> [difficulty] [x|o]" in any order after the mode.
func parseSettings(args []string, defaults entity.Settings) (entity.Settings, error) {
	if len(args) == 0 {
		return entity.Settings{}, fmt.Errorf("%w: usage: new <pvp|pvc> [easy|medium|hard] [x|o]", apperror.ErrInvalidSettings)
	}

	mode, difficulty, mark := args[0], "", string(defaults.HumanMark)
	for _, arg := range args[1:] {
		if _, ok := tictactoe.ParseMark(arg); ok {
			mark = arg
			continue
		}
		difficulty = arg
	}

	if difficulty == "" && entity.Mode(mode) == entity.ModePvC {
		difficulty = string(defaults.Difficulty)
	}

	return entity.NewSettings(mode, difficulty, mark)
}

func (that *Console) reportError(err error) {
	switch {
	case errors.Is(err, apperror.ErrMoveNotUnderstood):
		that.println("Move not understood. Type help for commands.")
	case errors.Is(err, apperror.ErrCellOccupied):
		that.println("That cell is occupied. Try another move.")
	case errors.Is(err, apperror.ErrInvalidCell):
		that.println("There is no such cell.")
	case errors.Is(err, apperror.ErrGameFinished):
		that.println("Game over. Type reset or new to play again.")
	case errors.Is(err, apperror.ErrNotYourTurn):
		that.println("It's not your turn.")
	case errors.Is(err, apperror.ErrAlreadyListening):
		that.println("Already listening.")
	case errors.Is(err, apperror.ErrVoiceUnavailable):
		that.println("Voice input is not available.")
	case errors.Is(err, apperror.ErrInvalidSettings):
		that.println(err.Error())
	default:
		that.logger.Error("command failed", "error", err)
		that.println("Error: " + err.Error())
	}
}

// redraw runs on the session goroutine after moves the console did not ask for.
func (that *Console) redraw(game *entity.Game) {
	that.listening.Store(game.Listening)
	that.show(game)
}

func (that *Console) show(game *entity.Game) {
	that.println(renderBoard(that.au, game.Board) + renderStatus(that.au, game))
}

func (that *Console) println(text string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, err := fmt.Fprintln(that.out, text); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
