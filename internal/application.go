package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/voice-tictactoe/internal/bot"
	"github.com/rocketscienceinc/voice-tictactoe/internal/config"
	"github.com/rocketscienceinc/voice-tictactoe/internal/entity"
	"github.com/rocketscienceinc/voice-tictactoe/internal/repository"
	"github.com/rocketscienceinc/voice-tictactoe/internal/repository/storage"
	"github.com/rocketscienceinc/voice-tictactoe/internal/usecase"
	"github.com/rocketscienceinc/voice-tictactoe/internal/voice"
	"github.com/rocketscienceinc/voice-tictactoe/transport/console"
	"github.com/rocketscienceinc/voice-tictactoe/transport/rest"
)

var ErrUnknownInterface = errors.New("unknown interface")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	settings, err := entity.NewSettings(conf.Game.Mode, conf.Game.Difficulty, conf.Game.HumanMark)
	if err != nil {
		return fmt.Errorf("bad game config: %w", err)
	}

	scoreRepo, closeScores, err := newScoreRepository(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeScores()

	selector := bot.NewSelector(rand.New(rand.NewSource(time.Now().UnixNano()))) //nolint: gosec // it's ok

	switch conf.Interface {
	case config.InterfaceConsole:
		return runConsole(ctx, logger, conf, settings, selector, scoreRepo)
	case config.InterfaceHTTP:
		return runHTTP(ctx, logger, conf, settings, selector, scoreRepo)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInterface, conf.Interface)
	}
}

// newScoreRepository - Redis when enabled, memory otherwise.
func newScoreRepository(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.ScoreRepository, func(), error) {
	log := logger.With("component", "app")

	if !conf.Redis.Enabled {
		log.Info("Redis disabled, scores are kept in memory")
		return repository.NewMemoryScoreRepository(), func() {}, nil
	}

	client, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewScoreRepository(client), closeFn, nil
}

func runConsole(ctx context.Context, logger *slog.Logger, conf *config.Config, settings entity.Settings, selector *bot.Selector, scoreRepo repository.ScoreRepository) error {
	cli := console.New(logger, os.Stdin, os.Stdout, scoreRepo, settings, conf.Voice.Timeout, true)

	session := usecase.NewSession(logger, "console", settings, usecase.SessionDeps{
		Selector:  selector,
		ScoreRepo: scoreRepo,
		Announcer: cli,
		Worker:    voice.NewWorker(logger, conf.Voice.Timeout),
		Listener:  cli.Listener(),
	})

	if err := cli.Play(ctx, session); err != nil {
		return fmt.Errorf("console error: %w", err)
	}

	return nil
}

func runHTTP(ctx context.Context, logger *slog.Logger, conf *config.Config, settings entity.Settings, selector *bot.Selector, scoreRepo repository.ScoreRepository) error {
	log := logger.With("component", "app")

	manager := usecase.NewGameManager(ctx, logger, selector, scoreRepo, usecase.NewLogAnnouncer(logger), conf.Voice.Timeout)
	handlers := rest.NewHandlers(logger, manager, settings)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err := rest.Start(ctx, conf.HTTPPort, handlers.Router()); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
