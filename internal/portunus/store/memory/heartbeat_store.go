package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store"
)

// HeartbeatStore keeps the latest heartbeat per reader.
type HeartbeatStore struct {
	mu   sync.RWMutex
	data map[string]store.HeartbeatRecord
}

func NewHeartbeatStore() *HeartbeatStore {
	return &HeartbeatStore{
		data: make(map[string]store.HeartbeatRecord),
	}
}

func (s *HeartbeatStore) UpsertHeartbeat(_ context.Context, readerID string, rec store.HeartbeatRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}
	s.data[readerID] = rec
	return nil
}

func (s *HeartbeatStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, rec := range s.data {
		if rec.ReceivedAt.Before(cutoff) {
			delete(s.data, id)
			deleted++
		}
	}
	return deleted, nil
}

// Latest returns the most recent heartbeat from readerID.
func (s *HeartbeatStore) Latest(readerID string) (store.HeartbeatRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[readerID]
	return rec, ok
}
