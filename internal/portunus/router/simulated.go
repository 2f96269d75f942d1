package router

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

// SimulatedReader is an in-process Reader driven by calls to Swipe. It is
// used by the simulate command and by tests.
type SimulatedReader struct {
	id     string
	active atomic.Bool

	mu          sync.Mutex
	subscribers map[int]func(types.AccessRequest)
	nextSub     int
	delivered   []types.AccessResponse
}

func NewSimulatedReader(id string) *SimulatedReader {
	r := &SimulatedReader{id: id, subscribers: make(map[int]func(types.AccessRequest))}
	r.active.Store(true)
	return r
}

func (r *SimulatedReader) ID() string { return r.id }
func (r *SimulatedReader) Active() bool { return r.active.Load() }
func (r *SimulatedReader) SetActive(active bool) { r.active.Store(active) }

func (r *SimulatedReader) Subscribe(fn func(types.AccessRequest)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.subscribers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subscribers, id)
			r.mu.Unlock()
		})
	}
}

// Swipe emits a swipe of badge at resource to every subscriber. Nothing
// happens while the reader is inactive. It returns the number of
// subscribers notified.
func (r *SimulatedReader) Swipe(badge, resourceID string, at time.Time) int {
	if !r.Active() {
		return 0
	}
	req := types.AccessRequest{
		BadgeCode:  badge,
		ReaderID:   r.id,
		ResourceID: resourceID,
		Timestamp:  at,
	}

	r.mu.Lock()
	subs := make([]func(types.AccessRequest), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(req)
	}
	return len(subs)
}

func (r *SimulatedReader) Deliver(resp types.AccessResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, resp)
}

// Delivered returns a copy of every response delivered so far.
func (r *SimulatedReader) Delivered() []types.AccessResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.AccessResponse, len(r.delivered))
	copy(out, r.delivered)
	return out
}
