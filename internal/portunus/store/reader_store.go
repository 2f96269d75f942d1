package store

import (
	"context"
	"time"
)

type ReaderRecord struct {
	ReaderID string
	Known    bool
	LastSeen time.Time
}

// ReaderStore tracks which reader ids are commissioned and when each was
// last heard from.
type ReaderStore interface {
	IsKnown(ctx context.Context, readerID string) (bool, error)
	MarkSeen(ctx context.Context, readerID string, known bool, t time.Time) error
}
