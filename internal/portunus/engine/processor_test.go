package engine_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/engine"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/policy"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store/memory"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/timefilter"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

// flakyLoader fails LoadResourceGroups while fail is set.
type flakyLoader struct {
	*memory.PolicyStore
	fail atomic.Bool
}

var errStoreDown = errors.New("store down")

func (l *flakyLoader) LoadResourceGroups(ctx context.Context) (map[string]string, error) {
	if l.fail.Load() {
		return nil, errStoreDown
	}
	return l.PolicyStore.LoadResourceGroups(ctx)
}

func TestNew_RequiresLoader(t *testing.T) {
	if _, err := engine.New(context.Background(), nil); !errors.Is(err, engine.ErrNilLoader) {
		t.Fatalf("expected ErrNilLoader, got %v", err)
	}
}

func TestNew_FailsWhenInitialBuildFails(t *testing.T) {
	l := &flakyLoader{PolicyStore: newOfficeStore()}
	l.fail.Store(true)

	if _, err := engine.New(context.Background(), l); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped errStoreDown, got %v", err)
	}
}

func TestProcessor_ReloadPicksUpChanges(t *testing.T) {
	st := newOfficeStore()
	p, err := engine.New(context.Background(), st)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if resp := p.ProcessRequest(swipe("ABC123", "R1", saturday)); resp.Granted {
		t.Fatal("expected Saturday denial before reload")
	}

	weekend := policy.NewProfile("Employee")
	weekend.SetRule("Office", timefilter.TimeFilter{})
	st.PutProfile(weekend)

	// Store changes are invisible until reload.
	if resp := p.ProcessRequest(swipe("ABC123", "R1", saturday)); resp.Granted {
		t.Fatal("snapshot must not change without ReloadData")
	}

	if err := p.ReloadData(context.Background()); err != nil {
		t.Fatalf("ReloadData: %v", err)
	}
	if resp := p.ProcessRequest(swipe("ABC123", "R1", saturday)); !resp.Granted {
		t.Fatalf("expected grant after reload, got %q", resp.Message)
	}
	if v := p.Snapshot().Version(); v != 2 {
		t.Errorf("expected snapshot version 2, got %d", v)
	}
}

func TestProcessor_FailedReloadKeepsSnapshot(t *testing.T) {
	l := &flakyLoader{PolicyStore: newOfficeStore()}
	p, err := engine.New(context.Background(), l)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := p.Snapshot()

	l.DeleteProfile("Employee")
	l.fail.Store(true)

	if err := p.ReloadData(context.Background()); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected errStoreDown, got %v", err)
	}
	if p.Snapshot() != before {
		t.Fatal("failed reload replaced the active snapshot")
	}
	if resp := p.ProcessRequest(swipe("ABC123", "R1", wednesday)); !resp.Granted {
		t.Fatalf("expected old snapshot to keep granting, got %q", resp.Message)
	}
}

func TestProcessor_WithLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	p, err := engine.New(context.Background(), newOfficeStore(), engine.WithLocation(tokyo))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Tuesday 23:30 UTC is Wednesday 08:30 in Tokyo.
	at := time.Date(2026, 10, 20, 23, 30, 0, 0, time.UTC)
	if resp := p.ProcessRequest(swipe("ABC123", "R1", at)); !resp.Granted {
		t.Fatalf("expected grant in site timezone, got %q", resp.Message)
	}
}

func TestSnapshot_StatsAndReaderIndex(t *testing.T) {
	st := newOfficeStore()
	st.AssignProfiles("U1", "Employee", "Ghost")
	snap := mustSnapshot(t, st)

	got := snap.Stats()
	want := engine.Stats{
		BuiltAt:         issued,
		Badges:          1,
		Users:           1,
		Resources:       2,
		GroupedResource: 1,
		Profiles:        1,
		MissingProfiles: []string{"Ghost"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	if id, ok := snap.ResourceForReader("reader-1"); !ok || id != "R1" {
		t.Errorf("expected reader-1 -> R1, got %q %v", id, ok)
	}
	if diff := cmp.Diff([]string{"Employee", "Ghost"}, snap.ProfileNames("U1")); diff != "" {
		t.Errorf("profile order mismatch (-want +got):\n%s", diff)
	}
}

// alternatingLoader serves two internally consistent policies on
// alternate builds. In generation A user U1 holds profile Alpha, which
// opens Office; in generation B U1 holds Beta, which does not cover Office.
// A snapshot mixing the user table of one generation with the profile
// table of the other would report a missing profile.
type alternatingLoader struct {
	builds atomic.Int64
	gen    atomic.Int64 // generation of the build in progress
}

func (l *alternatingLoader) LoadUsersByBadgeCode(context.Context) (map[string]policy.User, error) {
	l.gen.Store(l.builds.Add(1) % 2)
	return map[string]policy.User{"ABC123": {ID: "U1"}}, nil
}

func (l *alternatingLoader) LoadUserProfiles(context.Context) (map[string][]string, error) {
	if l.gen.Load() == 0 {
		return map[string][]string{"U1": {"Alpha"}}, nil
	}
	return map[string][]string{"U1": {"Beta"}}, nil
}

func (l *alternatingLoader) LoadAllResources(context.Context) (map[string]policy.Resource, error) {
	return map[string]policy.Resource{"R1": {ID: "R1", State: policy.Controlled}}, nil
}

func (l *alternatingLoader) LoadResourceGroups(context.Context) (map[string]string, error) {
	return map[string]string{"R1": "Office"}, nil
}

func (l *alternatingLoader) LoadProfile(_ context.Context, name string) (*policy.Profile, error) {
	p := policy.NewProfile(name)
	switch name {
	case "Alpha":
		p.SetRule("Office", timefilter.TimeFilter{})
	case "Beta":
		p.SetRule("Lab", timefilter.TimeFilter{})
	}
	return p, nil
}

func TestProcessor_ReloadIsAtomic(t *testing.T) {
	p, err := engine.New(context.Background(), &alternatingLoader{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			if err := p.ReloadData(context.Background()); err != nil {
				t.Errorf("ReloadData: %v", err)
				return
			}
		}
	}()

	var granted, denied atomic.Int64
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				resp := p.ProcessRequest(swipe("ABC123", "R1", wednesday))
				switch {
				case resp.Granted && resp.Profile == "Alpha":
					granted.Add(1)
				case !resp.Granted && resp.Code == types.CodeGroupNotCovered &&
					strings.HasPrefix(resp.Message, "profile Beta"):
					denied.Add(1)
				default:
					t.Errorf("inconsistent snapshot observed: %+v", resp)
					return
				}
			}
		}()
	}
	wg.Wait()

	if granted.Load()+denied.Load() == 0 {
		t.Fatal("no requests were processed")
	}
}

func TestProcessor_SnapshotIgnoresCallerMutation(t *testing.T) {
	st := memory.NewPolicyStore(func() time.Time { return issued })
	st.PutUser(policy.User{ID: "U1"})
	st.PutBadge(policy.NewBadge("ABC123", "U1", issued))
	st.AssignProfiles("U1", "Employee")
	st.PutResource(policy.Resource{ID: "R1", State: policy.Controlled})
	st.PutGroup(policy.ResourceGroup{Name: "Office", Members: []string{"R1"}})

	days := timefilter.Weekdays(time.Wednesday)
	hours := timefilter.Between("08:00", "18:00")
	employee := policy.NewProfile("Employee")
	employee.SetRule("Office", timefilter.TimeFilter{DaysOfWeek: days, TimeRanges: hours})
	st.PutProfile(employee)

	p, err := engine.New(context.Background(), st)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if resp := p.ProcessRequest(swipe("ABC123", "R1", wednesday)); !resp.Granted {
		t.Fatalf("expected grant, got %q", resp.Message)
	}

	// Editing the filter the profile was built from must not reach the
	// published snapshot, nor the store's copy on the next reload.
	days.Values[0] = time.Sunday
	hours.Values[0] = timefilter.MustRange("00:00-00:01")

	if resp := p.ProcessRequest(swipe("ABC123", "R1", wednesday)); !resp.Granted {
		t.Fatalf("snapshot changed without reload: %q", resp.Message)
	}
	if err := p.ReloadData(context.Background()); err != nil {
		t.Fatalf("ReloadData: %v", err)
	}
	if resp := p.ProcessRequest(swipe("ABC123", "R1", wednesday)); !resp.Granted {
		t.Fatalf("store aliased the caller's filter: %q", resp.Message)
	}
}

// viewLoader hands out the office store as a view and counts how many
// views are opened and released.
type viewLoader struct {
	*flakyLoader
	opened, released atomic.Int64
	direct           atomic.Int64
}

func (l *viewLoader) LoadUsersByBadgeCode(context.Context) (map[string]policy.User, error) {
	l.direct.Add(1)
	return nil, errors.New("read outside the view")
}

func (l *viewLoader) View(context.Context) (engine.Loader, func(), error) {
	l.opened.Add(1)
	return l.flakyLoader, func() { l.released.Add(1) }, nil
}

func TestBuild_ReadsThroughOneView(t *testing.T) {
	l := &viewLoader{flakyLoader: &flakyLoader{PolicyStore: newOfficeStore()}}

	snap, err := engine.Build(context.Background(), l, issued)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if resp := engine.Decide(snap, swipe("ABC123", "R1", wednesday)); !resp.Granted {
		t.Errorf("expected grant from the view, got %+v", resp)
	}
	if l.direct.Load() != 0 {
		t.Error("Build read the loader directly instead of its view")
	}

	// A failing read still releases the view.
	l.fail.Store(true)
	if _, err := engine.Build(context.Background(), l, issued); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped errStoreDown, got %v", err)
	}
	if got := []int64{l.opened.Load(), l.released.Load()}; !cmp.Equal(got, []int64{2, 2}) {
		t.Errorf("views opened/released = %v, want [2 2]", got)
	}
}
