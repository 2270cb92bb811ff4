package audit

import (
	"context"
	"log/slog"
	"time"
)

// Logger writes one structured line per state-changing action.
// A nil *Logger discards everything, so callers need not check the flag.
type Logger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With(slog.String("component", "audit")), now: time.Now}
}

func (al *Logger) LogAction(ctx context.Context, requestID, userID, action, resource, resourceID, status string) {
	if al == nil {
		return
	}

	al.logger.InfoContext(ctx, "audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("request_id", requestID),
		slog.Time("timestamp", al.now().UTC()),
	)
}
