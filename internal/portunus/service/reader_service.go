package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/logging"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/router"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

// ReaderService handles reader heartbeats and keeps the router directory
// in step with the readers that are actually talking to us.
type ReaderService struct {
	heartbeatStore store.HeartbeatStore
	registry       *ReaderRegistry
	router         *router.Router
	now            func() time.Time
	logger         *slog.Logger
}

func NewReaderService(hs store.HeartbeatStore, reg *ReaderRegistry, rt *router.Router, now func() time.Time, logger *slog.Logger) *ReaderService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &ReaderService{heartbeatStore: hs, registry: reg, router: rt, now: now, logger: logger}
}

// Heartbeat records req. Unknown readers are answered with Known=false and
// are not added to the router; a known reader is registered as a
// RemoteReader on first contact and marked active on every heartbeat.
func (s *ReaderService) Heartbeat(ctx context.Context, req types.HeartbeatRequest) (types.HeartbeatResponse, error) {
	readerID := strings.TrimSpace(req.ReaderID)
	if readerID == "" {
		return types.HeartbeatResponse{}, ErrInvalidReaderID
	}
	req.ReaderID = readerID

	known, err := s.registry.IsKnown(ctx, readerID)
	if err != nil {
		return types.HeartbeatResponse{}, err
	}
	if err := s.registry.NoteSeen(ctx, readerID, known); err != nil {
		logging.From(ctx).Warn("note reader seen", "reader_id", readerID, "error", err)
	}

	now := s.now().UTC()
	rec := store.HeartbeatRecord{ReceivedAt: now, Request: req}
	if err := s.heartbeatStore.UpsertHeartbeat(ctx, readerID, rec); err != nil {
		return types.HeartbeatResponse{}, err
	}

	if known {
		if err := s.touch(readerID, now, req.FirmwareVersion); err != nil {
			return types.HeartbeatResponse{}, err
		}
	}

	return types.HeartbeatResponse{
		OK:         true,
		Known:      known,
		ReaderID:   readerID,
		ServerTime: now.Format(time.RFC3339Nano),
	}, nil
}

func (s *ReaderService) touch(readerID string, at time.Time, firmware string) error {
	if existing, ok := s.router.Reader(readerID); ok {
		if rr, ok := existing.(*RemoteReader); ok {
			rr.Touch(at, firmware)
		}
		// A simulated reader owns this id; leave it alone.
		return nil
	}
	rr := NewRemoteReader(readerID)
	rr.Touch(at, firmware)
	return s.router.RegisterReader(rr)
}

// ExpireSilent marks every RemoteReader that has not sent a heartbeat
// within silence as inactive and returns how many changed state.
func (s *ReaderService) ExpireSilent(silence time.Duration) int {
	cutoff := s.now().UTC().Add(-silence)
	n := 0
	for _, r := range s.router.Readers() {
		rr, ok := r.(*RemoteReader)
		if !ok {
			continue
		}
		if rr.ExpireIfSilentSince(cutoff) {
			s.logger.Info("reader went silent", "reader_id", rr.ID(), "cutoff", cutoff.Format(time.RFC3339))
			n++
		}
	}
	return n
}

// Statuses lists every registered reader. Readers that are not remote
// report only their id and active flag.
func (s *ReaderService) Statuses() []ReaderStatus {
	readers := s.router.Readers()
	out := make([]ReaderStatus, 0, len(readers))
	for _, r := range readers {
		if rr, ok := r.(*RemoteReader); ok {
			out = append(out, rr.Status())
			continue
		}
		out = append(out, ReaderStatus{ReaderID: r.ID(), Active: r.Active()})
	}
	return out
}
