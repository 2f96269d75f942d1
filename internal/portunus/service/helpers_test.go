package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/engine"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/policy"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/router"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/service"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store/memory"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/timefilter"
)

var (
	issued    = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	wednesday = time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)
)

func ptr[T any](v T) *T { return &v }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

// harness wires the service layer over in-memory stores. Badge ABC123
// opens R1 (reader door-001) on weekdays 08:00-18:00.
type harness struct {
	processor  *engine.Processor
	router     *router.Router
	registry   *service.ReaderRegistry
	access     *service.AccessService
	readers    *service.ReaderService
	events     *memory.AccessEventStore
	heartbeats *memory.HeartbeatStore
	readerDB   *memory.ReaderStore
}

func newHarness(t *testing.T, knownReaders ...string) *harness {
	t.Helper()

	ps := memory.NewPolicyStore(fixedClock(issued))
	ps.PutUser(policy.User{ID: "U1", FirstName: "Ada", LastName: "Lovelace", Type: policy.Employee})
	ps.PutBadge(policy.NewBadge("ABC123", "U1", issued))
	ps.AssignProfiles("U1", "Employee")
	ps.PutResource(policy.Resource{ID: "R1", Name: "Office door", Type: policy.Door, State: policy.Controlled, ReaderID: ptr("door-001")})
	ps.PutGroup(policy.ResourceGroup{Name: "Office", Members: []string{"R1"}})
	employee := policy.NewProfile("Employee")
	employee.SetRule("Office", timefilter.TimeFilter{
		DaysOfWeek: timefilter.WorkWeek(),
		TimeRanges: timefilter.Between("08:00", "18:00"),
	})
	ps.PutProfile(employee)

	p, err := engine.New(context.Background(), ps)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	h := &harness{
		processor:  p,
		router:     router.New(p, nil),
		events:     memory.NewAccessEventStore(),
		heartbeats: memory.NewHeartbeatStore(),
		readerDB:   memory.NewReaderStore(knownReaders),
	}
	audit := service.NewAuditObserver(h.events, nil, fixedClock(wednesday))
	h.router.AddListener(audit)
	h.registry = service.NewReaderRegistry(h.readerDB, p, fixedClock(wednesday))
	h.access = service.NewAccessService(h.registry, h.router, fixedClock(wednesday), nil)
	h.access.SetRefusedObserver(audit)
	h.readers = service.NewReaderService(h.heartbeats, h.registry, h.router, fixedClock(wednesday), nil)
	return h
}
