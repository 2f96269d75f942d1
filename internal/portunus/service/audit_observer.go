package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/logging"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

const auditWriteTimeout = 2 * time.Second

// AuditObserver writes every routed decision to an AccessEventStore. A
// failed write is logged; the decision has already been made and is
// delivered regardless.
type AuditObserver struct {
	store  store.AccessEventStore
	logger *slog.Logger
	now    func() time.Time
}

func NewAuditObserver(st store.AccessEventStore, logger *slog.Logger, now func() time.Time) *AuditObserver {
	if logger == nil {
		logger = logging.Discard()
	}
	if now == nil {
		now = time.Now
	}
	return &AuditObserver{store: st, logger: logger, now: now}
}

func (o *AuditObserver) OnDecision(req types.AccessRequest, resp types.AccessResponse) {
	rec := store.AccessEventRecord{
		EventID:    uuid.NewString(),
		ReaderID:   req.ReaderID,
		ResourceID: req.ResourceID,
		BadgeHash:  HashBadge(req.BadgeCode),
		SwipedAt:   req.Timestamp.UTC(),
		DoorClosed: req.DoorClosed,
		Granted:    resp.Granted,
		Code:       resp.Code,
		Reason:     resp.Message,
		Profile:    resp.Profile,
		DecidedAt:  o.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()
	if err := o.store.RecordEvent(ctx, rec); err != nil {
		o.logger.Error("audit write failed", "event_id", rec.EventID, "reader_id", rec.ReaderID, "error", err)
	}
}

// HashBadge returns the BLAKE2b-256 digest of a badge code. Empty codes
// hash to nil.
func HashBadge(code string) []byte {
	if code == "" {
		return nil
	}
	sum := blake2b.Sum256([]byte(code))
	return sum[:]
}
