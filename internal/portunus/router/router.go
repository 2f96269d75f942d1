// Package router connects readers to the decision engine. Each swipe a
// registered reader emits is decided synchronously, fanned out to the
// observers in registration order, and delivered back to the reader.
package router

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

var (
	ErrNilReader       = errors.New("router: reader is nil")
	ErrReaderIDMissing = errors.New("router: reader id is required")
)

// Reader is a badge reader, physical or simulated.
type Reader interface {
	ID() string
	// Active is informational; the router dispatches swipes from inactive
	// readers like any other.
	Active() bool
	// Subscribe registers fn to receive every swipe the reader produces
	// and returns a function that cancels the subscription.
	Subscribe(fn func(types.AccessRequest)) (unsubscribe func())
	Deliver(resp types.AccessResponse)
}

// Observer is notified of every decision. Implementations must not call
// AddListener or RemoveListener from OnDecision.
type Observer interface {
	OnDecision(req types.AccessRequest, resp types.AccessResponse)
}

// Decider is the decision engine as seen by the router.
type Decider interface {
	ProcessRequest(req types.AccessRequest) types.AccessResponse
}

type registration struct {
	reader      Reader
	unsubscribe func()
}

type Router struct {
	decider Decider
	logger  *slog.Logger

	mu      sync.RWMutex
	readers map[string]registration

	listenersMu sync.Mutex
	listeners   []Observer
}

func New(decider Decider, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Router{
		decider: decider,
		logger:  logger,
		readers: make(map[string]registration),
	}
}

// RegisterReader adds r to the directory and subscribes to its swipes. A
// reader already registered under the same id is replaced and its
// subscription cancelled.
func (rt *Router) RegisterReader(r Reader) error {
	if r == nil {
		return ErrNilReader
	}
	id := r.ID()
	if id == "" {
		return ErrReaderIDMissing
	}

	unsubscribe := r.Subscribe(func(req types.AccessRequest) {
		rt.OnSwipeEvent(req)
	})

	rt.mu.Lock()
	prev, replaced := rt.readers[id]
	rt.readers[id] = registration{reader: r, unsubscribe: unsubscribe}
	rt.mu.Unlock()

	if replaced {
		prev.unsubscribe()
	}
	rt.logger.Info("reader registered", "reader_id", id, "active", r.Active(), "replaced", replaced)
	return nil
}

// UnregisterReader removes the reader and cancels its subscription. It
// reports whether a reader was registered under id.
func (rt *Router) UnregisterReader(id string) bool {
	rt.mu.Lock()
	reg, ok := rt.readers[id]
	delete(rt.readers, id)
	rt.mu.Unlock()

	if !ok {
		return false
	}
	reg.unsubscribe()
	rt.logger.Info("reader unregistered", "reader_id", id)
	return true
}

func (rt *Router) Reader(id string) (Reader, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	reg, ok := rt.readers[id]
	return reg.reader, ok
}

// Readers returns the registered readers sorted by id.
func (rt *Router) Readers() []Reader {
	rt.mu.RLock()
	out := make([]Reader, 0, len(rt.readers))
	for _, reg := range rt.readers {
		out = append(out, reg.reader)
	}
	rt.mu.RUnlock()

	slices.SortFunc(out, func(a, b Reader) int { return strings.Compare(a.ID(), b.ID()) })
	return out
}

// OnSwipeEvent decides req, notifies every observer, then delivers the
// response to the reader named in req.ReaderID if it is still registered.
// The response is also returned to the caller.
func (rt *Router) OnSwipeEvent(req types.AccessRequest) types.AccessResponse {
	resp := rt.decider.ProcessRequest(req)

	rt.listenersMu.Lock()
	listeners := slices.Clone(rt.listeners)
	rt.listenersMu.Unlock()

	for _, l := range listeners {
		rt.notify(l, req, resp)
	}

	if r, ok := rt.Reader(req.ReaderID); ok {
		r.Deliver(resp)
	}
	return resp
}

func (rt *Router) notify(l Observer, req types.AccessRequest, resp types.AccessResponse) {
	defer func() {
		if v := recover(); v != nil {
			rt.logger.Error("observer panicked", "reader_id", req.ReaderID, "panic", v)
		}
	}()
	l.OnDecision(req, resp)
}

// AddListener appends l. The same observer may be added more than once and
// is then notified once per registration.
func (rt *Router) AddListener(l Observer) {
	if l == nil {
		return
	}
	rt.listenersMu.Lock()
	defer rt.listenersMu.Unlock()
	rt.listeners = append(rt.listeners, l)
}

// RemoveListener removes the first registration of l. Observers are
// compared with ==, so they should be pointers.
func (rt *Router) RemoveListener(l Observer) bool {
	rt.listenersMu.Lock()
	defer rt.listenersMu.Unlock()
	for i, existing := range rt.listeners {
		if existing == l {
			rt.listeners = slices.Delete(rt.listeners, i, i+1)
			return true
		}
	}
	return false
}
