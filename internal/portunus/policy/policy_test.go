package policy_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/policy"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/timefilter"
)

func TestNewBadge_OneYearValidity(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := policy.NewBadge("ABC123", "u1", issued)

	if !b.IsValidAt(issued) {
		t.Error("expected badge valid at issue time")
	}
	if !b.IsValidAt(issued.Add(policy.BadgeLifetime)) {
		t.Error("expected badge valid at the expiration instant")
	}
	if b.IsValidAt(issued.Add(policy.BadgeLifetime + time.Second)) {
		t.Error("expected badge invalid after expiration")
	}
}

func TestBadge_UpdateCodeKeepsValidity(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := policy.NewBadge("ABC123", "u1", issued)
	b.Revoke(issued.Add(time.Hour))
	b.UpdateCode("XYZ789", issued.Add(2*time.Hour))

	if b.Code != "XYZ789" {
		t.Errorf("expected rotated code, got %q", b.Code)
	}
	if b.IsValidAt(issued.Add(3 * time.Hour)) {
		t.Error("rotating the code must not restore validity")
	}
	if !b.UpdatedAt.Equal(issued.Add(2 * time.Hour)) {
		t.Errorf("unexpected updated_at %v", b.UpdatedAt)
	}
}

func TestResourceGroup_AddRemovePreservesOrder(t *testing.T) {
	g := policy.ResourceGroup{Name: "Office"}
	for _, id := range []string{"r3", "r1", "r2", "r1"} {
		g.Add(id)
	}
	g.Remove("r1")

	if diff := cmp.Diff([]string{"r3", "r2"}, g.Members); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
}

func TestProfile_Covers(t *testing.T) {
	p := policy.NewProfile("Employee")
	p.SetRule("Office", timefilter.TimeFilter{DaysOfWeek: timefilter.WorkWeek()})

	if !p.Covers("Office") {
		t.Error("expected profile to cover Office")
	}
	if p.Covers("Lab") {
		t.Error("expected profile not to cover Lab")
	}
}

func TestParseEnums(t *testing.T) {
	ut, err := policy.ParseUserType("PROJECT_MANAGER")
	if err != nil || ut != policy.ProjectManager {
		t.Fatalf("ParseUserType: %v %v", ut, err)
	}
	rt, err := policy.ParseResourceType("beveragedispenser")
	if err != nil || rt != policy.BeverageDispenser {
		t.Fatalf("ParseResourceType: %v %v", rt, err)
	}
	st, err := policy.ParseResourceState("Uncontrolled")
	if err != nil || st != policy.Uncontrolled {
		t.Fatalf("ParseResourceState: %v %v", st, err)
	}
	if _, err := policy.ParseResourceType("Teleporter"); err == nil {
		t.Error("expected error for unknown resource type")
	}
	if g, err := policy.ParseGender(""); err != nil || g != policy.GenderUnspecified {
		t.Errorf("ParseGender(\"\"): %v %v", g, err)
	}
	if got := policy.UserType(42).String(); got != "Unknown(42)" {
		t.Errorf("unexpected String for out-of-range value: %q", got)
	}
}
