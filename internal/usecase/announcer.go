package usecase

import (
	"context"
	"log/slog"
)

// LogAnnouncer writes announcements to the log, for servers where the
// client does its own speech output.
type LogAnnouncer struct {
	logger *slog.Logger
}

func NewLogAnnouncer(logger *slog.Logger) *LogAnnouncer {
	return &LogAnnouncer{logger: logger.With("component", "announcer")}
}

func (that *LogAnnouncer) Announce(ctx context.Context, text string) {
	that.logger.InfoContext(ctx, "announce", "text", text)
}
