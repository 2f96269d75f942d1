package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

var ErrNilLoader = errors.New("engine: loader is required")

// Processor answers access requests against the currently published
// Snapshot. ProcessRequest never blocks on a reload: it loads the snapshot
// pointer once and evaluates against that snapshot only.
type Processor struct {
	loader Loader
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time

	current  atomic.Pointer[Snapshot]
	reloadMu sync.Mutex // serialises builds so versions publish in order
	version  uint64
}

type Option func(*Processor)

// WithLocation converts every request timestamp to loc before the
// temporal rules are evaluated. Without it the timestamp's own location
// is used.
func WithLocation(loc *time.Location) Option {
	return func(p *Processor) { p.loc = loc }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock sets the clock used to stamp snapshot build times.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// New builds the initial snapshot from loader and returns a Processor
// serving it.
func New(ctx context.Context, loader Loader, opts ...Option) (*Processor, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}
	p := &Processor{
		loader: loader,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.ReloadData(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// ProcessRequest decides req against the current snapshot.
func (p *Processor) ProcessRequest(req types.AccessRequest) types.AccessResponse {
	if p.loc != nil {
		req.Timestamp = req.Timestamp.In(p.loc)
	}
	return Decide(p.current.Load(), req)
}

// ReloadData rebuilds the snapshot from the loader and publishes it with a
// single atomic store. On error the previous snapshot stays active.
func (p *Processor) ReloadData(ctx context.Context) error {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	start := time.Now()
	next, err := Build(ctx, p.loader, p.now().UTC())
	if err != nil {
		p.logger.Error("policy reload failed; keeping previous snapshot",
			"version", p.version, "error", err)
		return err
	}

	p.version++
	next.version = p.version
	p.current.Store(next)

	st := next.Stats()
	p.logger.Info("policy snapshot published",
		"version", st.Version,
		"badges", st.Badges,
		"resources", st.Resources,
		"profiles", st.Profiles,
		"missing_profiles", len(st.MissingProfiles),
		"took", time.Since(start))
	return nil
}

// Snapshot returns the snapshot currently in use.
func (p *Processor) Snapshot() *Snapshot {
	return p.current.Load()
}
