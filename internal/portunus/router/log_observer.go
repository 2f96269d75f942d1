package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

// LogObserver writes one structured log line per decision. Grants log at
// info level, denials at warn.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnDecision(req types.AccessRequest, resp types.AccessResponse) {
	level := slog.LevelInfo
	if !resp.Granted {
		level = slog.LevelWarn
	}
	o.logger.Log(context.Background(), level, "access decision",
		"reader_id", req.ReaderID,
		"resource_id", req.ResourceID,
		"swiped_at", req.Timestamp.Format(time.RFC3339),
		"granted", resp.Granted,
		"code", resp.Code,
		"reason", resp.Message,
		"profile", resp.Profile)
}
