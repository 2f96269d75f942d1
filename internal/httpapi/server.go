// Package httpapi is the HTTP face of the policy server: readers post
// swipes and heartbeats, operators inspect and reload policy.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	pb "github.com/BrandonDHaskell/Portunus/policyd/api/portunus/v1"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/logging"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/engine"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/service"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/wire"
)

type Dependencies struct {
	Logger        *slog.Logger
	Addr          string
	AccessService *service.AccessService
	ReaderService *service.ReaderService
	ReloadService *service.ReloadService
	Policy        service.SnapshotSource
}

type Server struct {
	httpServer    *http.Server
	logger        *slog.Logger
	accessService *service.AccessService
	readerService *service.ReaderService
	reloadService *service.ReloadService
	policy        service.SnapshotSource
}

func NewServer(d Dependencies) *Server {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	s := &Server{
		logger:        d.Logger,
		accessService: d.AccessService,
		readerService: d.ReaderService,
		reloadService: d.ReloadService,
		policy:        d.Policy,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/access_request", s.handleAccessRequest)
		v1.Post("/heartbeat", s.handleHeartbeat)
		v1.Get("/readers", s.handleReaders)
		v1.Get("/policy", s.handlePolicy)
		v1.Post("/policy/reload", s.handleReload)
	})

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ── Reader endpoints ─────────────────────────────────────────────────────────

func (s *Server) handleAccessRequest(w http.ResponseWriter, r *http.Request) {
	proto := isProtobuf(r)

	var req types.AccessRequest
	if proto {
		var msg pb.AccessRequest
		if err := readProto(r, &msg); err != nil {
			writeError(w, http.StatusBadRequest, "bad_protobuf", "invalid protobuf body")
			return
		}
		req = wire.AccessRequestFromProto(&msg)
	} else if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.accessService.Decide(r.Context(), req)
	status := http.StatusOK
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReaderID):
			writeError(w, http.StatusBadRequest, "invalid_reader_id", err.Error())
			return
		case errors.Is(err, service.ErrInvalidBadgeCode):
			writeError(w, http.StatusBadRequest, "invalid_badge_code", err.Error())
			return
		case errors.Is(err, service.ErrUnknownReader):
			// The reader still gets a decision body it can act on.
			status = http.StatusForbidden
		default:
			logging.From(r.Context()).Error("access_request failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
			return
		}
	}

	if proto {
		writeProto(w, status, wire.AccessResponseToProto(resp))
		return
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	proto := isProtobuf(r)

	var req types.HeartbeatRequest
	if proto {
		var msg pb.HeartbeatRequest
		if err := readProto(r, &msg); err != nil {
			writeError(w, http.StatusBadRequest, "bad_protobuf", "invalid protobuf body")
			return
		}
		req = wire.HeartbeatRequestFromProto(&msg)
	} else if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.readerService.Heartbeat(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReaderID) {
			writeError(w, http.StatusBadRequest, "invalid_reader_id", err.Error())
			return
		}
		logging.From(r.Context()).Error("heartbeat failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	if proto {
		writeProto(w, http.StatusOK, wire.HeartbeatResponseToProto(resp))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ── Operator endpoints ───────────────────────────────────────────────────────

func (s *Server) handleReaders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"readers": s.readerService.Statuses()})
}

type policyView struct {
	Snapshot engine.Stats          `json:"snapshot"`
	Reload   *service.ReloadStatus `json:"reload,omitempty"`
}

func (s *Server) handlePolicy(w http.ResponseWriter, _ *http.Request) {
	view := policyView{Snapshot: s.policy.Snapshot().Stats()}
	if s.reloadService != nil {
		st := s.reloadService.Status()
		view.Reload = &st
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reloadService == nil {
		writeError(w, http.StatusNotImplemented, "reload_unavailable", "policy reload is not configured")
		return
	}
	if err := s.reloadService.Reload(r.Context(), "http"); err != nil {
		// The previous snapshot is still being served.
		writeError(w, http.StatusUnprocessableEntity, "reload_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.policy.Snapshot().Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"policy_version": s.policy.Snapshot().Version(),
	})
}

// ── Encoding ─────────────────────────────────────────────────────────────────

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return false
	}
	return true
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
