package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/logging"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store"
)

// EventPruner periodically deletes audit events and heartbeats older than
// a configurable retention period. It runs as a background goroutine and
// is stopped via its context or the Stop method.
//
// A retention of 0 disables pruning entirely.
type EventPruner struct {
	events     store.AccessEventStore
	heartbeats store.HeartbeatStore
	retention  time.Duration
	interval   time.Duration
	now        func() time.Time
	logger     *slog.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

// PrunerConfig holds the parameters for NewEventPruner.
type PrunerConfig struct {
	// RetentionDays is how many days of history to keep.
	// 0 means keep everything (pruner will not start).
	RetentionDays int

	// IntervalHours is how often the pruner runs. Defaults to 6.
	IntervalHours int
}

// NewEventPruner creates a pruner but does not start it. Either store may
// be nil.
func NewEventPruner(events store.AccessEventStore, heartbeats store.HeartbeatStore, cfg PrunerConfig, logger *slog.Logger) *EventPruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &EventPruner{
		events:     events,
		heartbeats: heartbeats,
		retention:  time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:   interval,
		now:        time.Now,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start begins the background loop. It prunes once immediately, then on
// every interval, until ctx is cancelled or Stop is called.
func (p *EventPruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		p.logger.Info("event pruner disabled", "retention_days", 0)
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)

	go p.loop(ctx)

	p.logger.Info("event pruner started",
		"retention_days", int(p.retention.Hours()/24),
		"interval_hours", int(p.interval.Hours()))
}

// Stop signals the pruner to exit and waits for it to finish. It is a
// no-op if Start was never called.
func (p *EventPruner) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

func (p *EventPruner) loop(ctx context.Context) {
	defer close(p.done)

	p.PruneOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PruneOnce(ctx)
		}
	}
}

// PruneOnce deletes everything older than the retention and returns the
// number of audit events and heartbeats removed.
func (p *EventPruner) PruneOnce(ctx context.Context) (events, heartbeats int64) {
	cutoff := p.now().UTC().Add(-p.retention)

	if p.events != nil {
		n, err := p.events.PruneOlderThan(ctx, cutoff)
		if err != nil {
			p.logger.Error("access event prune failed", "error", err)
		}
		events = n
	}
	if p.heartbeats != nil {
		n, err := p.heartbeats.PruneOlderThan(ctx, cutoff)
		if err != nil {
			p.logger.Error("heartbeat prune failed", "error", err)
		}
		heartbeats = n
	}

	if events > 0 || heartbeats > 0 {
		p.logger.Info("pruned old records",
			"access_events", events,
			"heartbeats", heartbeats,
			"cutoff", cutoff.Format(time.RFC3339))
	}
	return events, heartbeats
}
