package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/logging"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/router"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

var (
	ErrInvalidReaderID  = errors.New("reader_id is required")
	ErrInvalidBadgeCode = errors.New("badge_code is required")
	ErrUnknownReader    = errors.New("unknown reader")
)

// Dispatcher routes a swipe to the decision engine and its observers.
// *router.Router satisfies it.
type Dispatcher interface {
	OnSwipeEvent(req types.AccessRequest) types.AccessResponse
	Reader(id string) (router.Reader, bool)
}

type AccessService struct {
	registry *ReaderRegistry
	router   Dispatcher
	refused  router.Observer // sees swipes refused before the engine
	now      func() time.Time
	logger   *slog.Logger
}

func NewAccessService(reg *ReaderRegistry, rt Dispatcher, now func() time.Time, logger *slog.Logger) *AccessService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &AccessService{registry: reg, router: rt, now: now, logger: logger}
}

// SetRefusedObserver registers o to record swipes from unknown readers,
// which never reach the router's observers. Pass the audit observer to
// keep them in the access log.
func (s *AccessService) SetRefusedObserver(o router.Observer) {
	s.refused = o
}

// Decide validates req, fills in what the reader left out and dispatches
// it. Requests from unknown readers are refused with ErrUnknownReader and
// a response carrying CodeUnknownReader; they never reach the engine but
// are passed to the refused-swipe observer, if any.
func (s *AccessService) Decide(ctx context.Context, req types.AccessRequest) (types.AccessResponse, error) {
	req.ReaderID = strings.TrimSpace(req.ReaderID)
	req.BadgeCode = strings.TrimSpace(req.BadgeCode)
	req.ResourceID = strings.TrimSpace(req.ResourceID)

	if req.ReaderID == "" {
		return types.AccessResponse{}, ErrInvalidReaderID
	}
	if req.BadgeCode == "" {
		return types.AccessResponse{}, ErrInvalidBadgeCode
	}

	known, err := s.registry.IsKnown(ctx, req.ReaderID)
	if err != nil {
		return types.AccessResponse{}, err
	}
	if err := s.registry.NoteSeen(ctx, req.ReaderID, known); err != nil {
		logging.From(ctx).Warn("note reader seen", "reader_id", req.ReaderID, "error", err)
	}

	if req.Timestamp.IsZero() {
		req.Timestamp = s.now()
	}

	if !known {
		s.logger.Warn("swipe from unknown reader", "reader_id", req.ReaderID)
		resp := types.AccessResponse{
			ReaderID: req.ReaderID,
			Message:  "unknown reader",
			Code:     types.CodeUnknownReader,
		}
		if s.refused != nil {
			s.refused.OnDecision(req, resp)
		}
		return resp, ErrUnknownReader
	}
	if req.ResourceID == "" {
		if id, ok := s.registry.ResourceFor(req.ReaderID); ok {
			req.ResourceID = id
		}
	}

	// A reader that has sent a heartbeat is in the router directory; its
	// swipes travel its own event stream. Readers known only from policy
	// go to the router directly until their first heartbeat.
	if r, ok := s.router.Reader(req.ReaderID); ok {
		if rr, ok := r.(*RemoteReader); ok {
			resp, n, delivered := rr.Emit(req)
			if delivered {
				return resp, nil
			}
			if n > 0 {
				return types.AccessResponse{}, fmt.Errorf("reader %s: decision was not delivered", req.ReaderID)
			}
		}
	}
	return s.router.OnSwipeEvent(req), nil
}
