package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/logging"
)

// Reloader rebuilds and publishes the policy snapshot.
// *engine.Processor satisfies it.
type Reloader interface {
	ReloadData(ctx context.Context) error
}

// ReloadStatus summarises reload activity since start-up.
type ReloadStatus struct {
	Reloads     uint64    `json:"reloads"`
	Failures    uint64    `json:"failures"`
	LastAttempt time.Time `json:"last_attempt,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
}

// ReloadService is the single entry point for policy reloads, whether
// triggered by an operator, a file watcher or a timer.
type ReloadService struct {
	target Reloader
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	status ReloadStatus
}

func NewReloadService(target Reloader, logger *slog.Logger) *ReloadService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ReloadService{target: target, logger: logger, now: time.Now}
}

// Reload rebuilds the snapshot. trigger names the caller in the log.
func (s *ReloadService) Reload(ctx context.Context, trigger string) error {
	err := s.target.ReloadData(ctx)

	s.mu.Lock()
	s.status.LastAttempt = s.now().UTC()
	if err != nil {
		s.status.Failures++
		s.status.LastError = err.Error()
	} else {
		s.status.Reloads++
		s.status.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("policy reload rejected", "trigger", trigger, "error", err)
		return err
	}
	s.logger.Debug("policy reloaded", "trigger", trigger)
	return nil
}

func (s *ReloadService) Status() ReloadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// RunEvery reloads on every tick of interval until ctx is done. A
// non-positive interval returns immediately.
func (s *ReloadService) RunEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Reload(ctx, "interval")
		}
	}
}
