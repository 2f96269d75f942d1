package store

import (
	"context"
	"time"
)

// AccessEventRecord captures a single access decision for the audit log.
// The badge code itself is never stored; BadgeHash is its BLAKE2b-256 digest.
type AccessEventRecord struct {
	EventID    string
	ReaderID   string
	ResourceID string
	BadgeHash  []byte
	SwipedAt   time.Time
	DoorClosed *bool
	Granted    bool
	Code       string
	Reason     string
	Profile    string
	DecidedAt  time.Time
}

// AccessEventStore persists access decisions as an append-only audit log.
type AccessEventStore interface {
	RecordEvent(ctx context.Context, rec AccessEventRecord) error
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
