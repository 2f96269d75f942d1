package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

// RemoteReader stands in for a networked reader in the router directory.
// Swipes arrive over HTTP or gRPC and AccessService emits them on the
// reader's event stream; the router's deliveries are kept so operators can
// see the last outcome.
type RemoteReader struct {
	id     string
	active atomic.Bool

	// emitMu serialises Emit so each swipe captures its own delivery.
	emitMu sync.Mutex

	mu          sync.Mutex
	capturing   bool
	captured    *types.AccessResponse
	subscribers map[int]func(types.AccessRequest)
	nextSub     int
	lastSeen    time.Time
	firmware    string
	last        *types.AccessResponse
	delivered   int
}

func NewRemoteReader(id string) *RemoteReader {
	return &RemoteReader{id: id, subscribers: make(map[int]func(types.AccessRequest))}
}

func (r *RemoteReader) ID() string   { return r.id }
func (r *RemoteReader) Active() bool { return r.active.Load() }

func (r *RemoteReader) Subscribe(fn func(types.AccessRequest)) func() {
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

// Emit hands req to every subscriber and returns the response delivered
// back to this reader while it did so. n is the number of subscribers
// notified; ok is false when nothing was delivered.
func (r *RemoteReader) Emit(req types.AccessRequest) (resp types.AccessResponse, n int, ok bool) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	r.mu.Lock()
	subs := make([]func(types.AccessRequest), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subs = append(subs, fn)
	}
	r.capturing, r.captured = true, nil
	r.mu.Unlock()

	for _, fn := range subs {
		fn(req)
	}

	r.mu.Lock()
	captured := r.captured
	r.capturing, r.captured = false, nil
	r.mu.Unlock()

	if captured == nil {
		return types.AccessResponse{}, len(subs), false
	}
	return *captured, len(subs), true
}

func (r *RemoteReader) Deliver(resp types.AccessResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = &resp
	r.delivered++
	if r.capturing && r.captured == nil {
		c := resp
		r.captured = &c
	}
}

// Touch records a heartbeat and marks the reader active.
func (r *RemoteReader) Touch(at time.Time, firmware string) {
	r.mu.Lock()
	r.lastSeen = at
	if firmware != "" {
		r.firmware = firmware
	}
	r.mu.Unlock()
	r.active.Store(true)
}

// ExpireIfSilentSince marks the reader inactive when its last heartbeat is
// older than cutoff. It reports whether the reader changed state.
func (r *RemoteReader) ExpireIfSilentSince(cutoff time.Time) bool {
	r.mu.Lock()
	silent := r.lastSeen.Before(cutoff)
	r.mu.Unlock()
	if !silent {
		return false
	}
	return r.active.CompareAndSwap(true, false)
}

// ReaderStatus is a point-in-time view of a RemoteReader.
type ReaderStatus struct {
	ReaderID     string                `json:"reader_id"`
	Active       bool                  `json:"active"`
	LastSeen     time.Time             `json:"last_seen"`
	Firmware     string                `json:"firmware_version,omitempty"`
	Deliveries   int                   `json:"deliveries"`
	LastResponse *types.AccessResponse `json:"last_response,omitempty"`
}

func (r *RemoteReader) Status() ReaderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := ReaderStatus{
		ReaderID:   r.id,
		Active:     r.active.Load(),
		LastSeen:   r.lastSeen,
		Firmware:   r.firmware,
		Deliveries: r.delivered,
	}
	if r.last != nil {
		last := *r.last
		st.LastResponse = &last
	}
	return st
}
