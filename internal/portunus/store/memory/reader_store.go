package memory

import (
	"context"
	"strings"
	"sync"
	"time"
)

type ReaderStore struct {
	mu    sync.RWMutex
	known map[string]struct{}
	seen  map[string]time.Time
}

func NewReaderStore(knownReaders []string) *ReaderStore {
	k := make(map[string]struct{}, len(knownReaders))
	for _, r := range knownReaders {
		r = strings.TrimSpace(r)
		if r != "" {
			k[r] = struct{}{}
		}
	}
	return &ReaderStore{
		known: k,
		seen:  make(map[string]time.Time),
	}
}

func (s *ReaderStore) IsKnown(_ context.Context, readerID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.known[readerID]
	return ok, nil
}

func (s *ReaderStore) MarkSeen(_ context.Context, readerID string, _ bool, t time.Time) error {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[readerID] = t
	return nil
}

// LastSeen reports when readerID was last marked seen.
func (s *ReaderStore) LastSeen(readerID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.seen[readerID]
	return t, ok
}
