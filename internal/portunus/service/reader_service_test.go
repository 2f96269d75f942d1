package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/router"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/service"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

func TestHeartbeat_RequiresReaderID(t *testing.T) {
	h := newHarness(t)
	if _, err := h.readers.Heartbeat(context.Background(), types.HeartbeatRequest{}); !errors.Is(err, service.ErrInvalidReaderID) {
		t.Fatalf("expected ErrInvalidReaderID, got %v", err)
	}
}

func TestHeartbeat_KnownReaderIsRegistered(t *testing.T) {
	h := newHarness(t)

	resp, err := h.readers.Heartbeat(context.Background(), types.HeartbeatRequest{
		ReaderID:        " door-001 ",
		FirmwareVersion: "1.4.2",
		UptimeSeconds:   3600,
	})
	if err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if !resp.OK || !resp.Known || resp.ReaderID != "door-001" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.ServerTime != wednesday.Format(time.RFC3339Nano) {
		t.Errorf("unexpected server time %q", resp.ServerTime)
	}

	r, ok := h.router.Reader("door-001")
	if !ok {
		t.Fatal("known reader was not registered with the router")
	}
	if !r.Active() {
		t.Error("expected reader to be active after a heartbeat")
	}

	rec, ok := h.heartbeats.Latest("door-001")
	if !ok || rec.Request.UptimeSeconds != 3600 {
		t.Errorf("heartbeat not stored: %+v", rec)
	}
}

func TestHeartbeat_UnknownReaderStoredButNotRouted(t *testing.T) {
	h := newHarness(t)

	resp, err := h.readers.Heartbeat(context.Background(), types.HeartbeatRequest{ReaderID: "stranger"})
	if err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if !resp.OK || resp.Known {
		t.Errorf("expected ok=true known=false, got %+v", resp)
	}
	if _, ok := h.router.Reader("stranger"); ok {
		t.Error("unknown reader must not enter the router directory")
	}
	if _, ok := h.heartbeats.Latest("stranger"); !ok {
		t.Error("heartbeat from unknown reader should still be stored")
	}
}

func TestHeartbeat_RoutedDecisionReachesRemoteReader(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.readers.Heartbeat(ctx, types.HeartbeatRequest{ReaderID: "door-001", FirmwareVersion: "1.4.2"}); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if _, err := h.access.Decide(ctx, types.AccessRequest{BadgeCode: "ABC123", ReaderID: "door-001"}); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	statuses := h.readers.Statuses()
	if len(statuses) != 1 {
		t.Fatalf("expected 1 reader, got %d", len(statuses))
	}
	st := statuses[0]
	if st.Deliveries != 1 || st.LastResponse == nil || !st.LastResponse.Granted {
		t.Errorf("expected the grant to be delivered, got %+v", st)
	}
	if st.Firmware != "1.4.2" {
		t.Errorf("expected firmware 1.4.2, got %q", st.Firmware)
	}
}

func TestHeartbeat_LeavesSimulatedReaderInPlace(t *testing.T) {
	h := newHarness(t)
	sim := router.NewSimulatedReader("door-001")
	if err := h.router.RegisterReader(sim); err != nil {
		t.Fatalf("RegisterReader: %v", err)
	}

	if _, err := h.readers.Heartbeat(context.Background(), types.HeartbeatRequest{ReaderID: "door-001"}); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if r, _ := h.router.Reader("door-001"); r != router.Reader(sim) {
		t.Error("heartbeat replaced a simulated reader")
	}
}

func TestExpireSilent(t *testing.T) {
	h := newHarness(t, "door-002")
	ctx := context.Background()
	for _, id := range []string{"door-001", "door-002"} {
		if _, err := h.readers.Heartbeat(ctx, types.HeartbeatRequest{ReaderID: id}); err != nil {
			t.Fatalf("Heartbeat %s: %v", id, err)
		}
	}

	// Heartbeats were stamped at the harness clock; a later service sees
	// them as two minutes old.
	later := service.NewReaderService(h.heartbeats, h.registry, h.router, fixedClock(wednesday.Add(2*time.Minute)), nil)
	if n := later.ExpireSilent(time.Minute); n != 2 {
		t.Errorf("expected 2 readers expired, got %d", n)
	}
	if n := later.ExpireSilent(time.Minute); n != 0 {
		t.Errorf("second sweep should change nothing, got %d", n)
	}
	for _, st := range later.Statuses() {
		if st.Active {
			t.Errorf("%s still active", st.ReaderID)
		}
	}
}

func TestRemoteReader_SwipeTravelsItsEventStream(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.readers.Heartbeat(ctx, types.HeartbeatRequest{ReaderID: "door-001"}); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	r, _ := h.router.Reader("door-001")
	rr, ok := r.(*service.RemoteReader)
	if !ok {
		t.Fatalf("expected a RemoteReader, got %T", r)
	}

	var seen []types.AccessRequest
	unsubscribe := rr.Subscribe(func(req types.AccessRequest) { seen = append(seen, req) })
	defer unsubscribe()

	resp, err := h.access.Decide(ctx, types.AccessRequest{BadgeCode: "ABC123", ReaderID: "door-001"})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !resp.Granted || resp.Profile != "Employee" {
		t.Fatalf("expected the delivered grant, got %+v", resp)
	}
	if len(seen) != 1 {
		t.Fatalf("expected the swipe on the reader's stream once, got %d", len(seen))
	}
	if seen[0].ResourceID != "R1" || !seen[0].Timestamp.Equal(wednesday) {
		t.Errorf("swipe was emitted before resolution: %+v", seen[0])
	}

	// Once the reader leaves the directory the router is called directly.
	h.router.UnregisterReader("door-001")
	resp, err = h.access.Decide(ctx, types.AccessRequest{BadgeCode: "ABC123", ReaderID: "door-001"})
	if err != nil || !resp.Granted {
		t.Fatalf("expected a direct grant, got %+v %v", resp, err)
	}
	if len(seen) != 1 {
		t.Errorf("unregistered reader still emitted, saw %d swipes", len(seen))
	}
	if n := len(h.events.Events()); n != 2 {
		t.Errorf("expected each swipe audited once, got %d events", n)
	}
}

func TestRemoteReader_EmitWithoutSubscribers(t *testing.T) {
	rr := service.NewRemoteReader("door-009")
	if _, n, ok := rr.Emit(types.AccessRequest{ReaderID: "door-009"}); n != 0 || ok {
		t.Errorf("expected nothing emitted, got n=%d ok=%v", n, ok)
	}
}
