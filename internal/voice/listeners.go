package voice

import (
	"context"
	"fmt"
	"strings"
)

// LineListener treats the next line of text as the spoken phrase. The sender
// should not queue lines, so that only text entered while listening counts.
type LineListener struct {
	lines <-chan string
}

func NewLineListener(lines <-chan string) *LineListener {
	return &LineListener{lines: lines}
}

func (that *LineListener) Listen(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ErrNoInput
	case line, ok := <-that.lines:
		if !ok {
			return "", fmt.Errorf("%w: input closed", ErrService)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			return "", ErrUnrecognized
		}

		return line, nil
	}
}

// Transcript is speech already transcribed by the client, or the signal it
// reported instead of text.
type Transcript struct {
	Text string
	Err  error
}

// NewTranscript builds a transcript from text or a status signal such as "no_input".
func NewTranscript(text, signal string) (Transcript, error) {
	switch Status(signal) {
	case "", StatusOK:
		if strings.TrimSpace(text) == "" {
			return Transcript{Err: ErrUnrecognized}, nil
		}
		return Transcript{Text: text}, nil
	case StatusNoInput:
		return Transcript{Err: ErrNoInput}, nil
	case StatusUnrecognized:
		return Transcript{Err: ErrUnrecognized}, nil
	case StatusServiceError:
		return Transcript{Err: ErrService}, nil
	default:
		return Transcript{}, fmt.Errorf("unknown signal %q", signal)
	}
}

func (that Transcript) Listen(_ context.Context) (string, error) {
	return that.Text, that.Err
}
