package service

import (
	"context"
	"strings"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/engine"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store"
)

// SnapshotSource exposes the policy snapshot currently being served.
// *engine.Processor satisfies it.
type SnapshotSource interface {
	Snapshot() *engine.Snapshot
}

// ReaderRegistry decides whether a reader id is commissioned. A reader is
// known if the ReaderStore lists it or if the active policy attaches it to
// a resource.
type ReaderRegistry struct {
	store  store.ReaderStore
	policy SnapshotSource
	now    func() time.Time
}

// NewReaderRegistry returns a registry over st. policy may be nil, in which
// case only the store is consulted.
func NewReaderRegistry(st store.ReaderStore, policy SnapshotSource, now func() time.Time) *ReaderRegistry {
	if now == nil {
		now = time.Now
	}
	return &ReaderRegistry{store: st, policy: policy, now: now}
}

func (r *ReaderRegistry) IsKnown(ctx context.Context, readerID string) (bool, error) {
	readerID = strings.TrimSpace(readerID)
	if readerID == "" {
		return false, nil
	}
	if _, ok := r.ResourceFor(readerID); ok {
		return true, nil
	}
	return r.store.IsKnown(ctx, readerID)
}

// ResourceFor returns the resource the active policy attaches readerID to.
func (r *ReaderRegistry) ResourceFor(readerID string) (string, bool) {
	if r.policy == nil {
		return "", false
	}
	snap := r.policy.Snapshot()
	if snap == nil {
		return "", false
	}
	return snap.ResourceForReader(readerID)
}

func (r *ReaderRegistry) NoteSeen(ctx context.Context, readerID string, known bool) error {
	readerID = strings.TrimSpace(readerID)
	if readerID == "" {
		return nil
	}
	return r.store.MarkSeen(ctx, readerID, known, r.now().UTC())
}
