// Package voice runs one capture-then-transcribe attempt at a time and hands
// the parsed move back to whoever owns the game.
package voice

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rocketscienceinc/voice-tictactoe/internal/phrase"
)

// DefaultTimeout - how long a capture may take before it counts as no input.
const DefaultTimeout = 5 * time.Second

var (
	ErrNoInput      = errors.New("no speech input")
	ErrUnrecognized = errors.New("speech was not recognized")
	ErrService      = errors.New("speech recognition service error")
	ErrBusy         = errors.New("already listening")
)

// Listener captures speech and returns its transcript.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

type Status string

const (
	StatusOK            Status = "ok"
	StatusNoInput       Status = "no_input"
	StatusUnrecognized  Status = "unrecognized"
	StatusServiceError  Status = "service_error"
	StatusNotUnderstood Status = "not_understood"
)

// Result - outcome of one listening attempt. Cell is valid only for StatusOK.
type Result struct {
	Status     Status
	Cell       int
	Transcript string
}

// Message - what to tell the player about a failed attempt.
func (that Result) Message() string {
	switch that.Status {
	case StatusOK:
		return "Move understood."
	case StatusNoInput:
		return "Timed out. Try again."
	case StatusUnrecognized:
		return "I didn't understand. Try again."
	case StatusServiceError:
		return "Speech recognition service error."
	default:
		return "Could not parse move. Try again."
	}
}

type Worker struct {
	logger  *slog.Logger
	timeout time.Duration

	busy atomic.Bool
}

func NewWorker(logger *slog.Logger, timeout time.Duration) *Worker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Worker{
		logger:  logger.With("component", "voice"),
		timeout: timeout,
	}
}

// Busy reports whether a capture is in flight.
func (that *Worker) Busy() bool {
	return that.busy.Load()
}

// Start launches a single capture in the background. deliver is called exactly
// once with the result, after the busy flag has been released.
func (that *Worker) Start(ctx context.Context, listener Listener, deliver func(Result)) error {
	if !that.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}

	go func() {
		result := that.capture(ctx, listener)
		that.busy.Store(false)
		deliver(result)
	}()

	return nil
}

func (that *Worker) capture(ctx context.Context, listener Listener) Result {
	log := that.logger.With("method", "capture")

	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	type heard struct {
		text string
		err  error
	}

	// the listener may ignore ctx, so the timeout is enforced here
	heardCh := make(chan heard, 1)
	go func() {
		text, err := listener.Listen(ctx)
		heardCh <- heard{text: text, err: err}
	}()

	var h heard
	select {
	case h = <-heardCh:
	case <-ctx.Done():
		h.err = ErrNoInput
	}

	switch {
	case h.err == nil:
	case errors.Is(h.err, ErrNoInput), errors.Is(h.err, context.DeadlineExceeded):
		return Result{Status: StatusNoInput}
	case errors.Is(h.err, ErrUnrecognized):
		return Result{Status: StatusUnrecognized}
	default:
		log.Error("speech capture failed", "error", h.err)
		return Result{Status: StatusServiceError}
	}

	log.Debug("transcript received", "transcript", h.text)

	cell, ok := phrase.ParseWithFallback(h.text)
	if !ok {
		return Result{Status: StatusNotUnderstood, Transcript: h.text}
	}

	return Result{Status: StatusOK, Cell: cell, Transcript: h.text}
}
