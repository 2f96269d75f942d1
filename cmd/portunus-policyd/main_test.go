package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

const officePolicy = `users:
  - id: U1
    first_name: Ada
    last_name: Lovelace
    type: employee
    profiles: [Employee]
badges:
  - code: ABC123
    user: U1
    issued: 2026-01-05T08:00:00Z
resources:
  - id: R1
    name: Office door
    type: door
    reader: door-001
groups:
  - name: Office
    members: [R1]
profiles:
  - name: Employee
    rules:
      Office:
        days_of_week: {values: [MONDAY, TUESDAY, WEDNESDAY, THURSDAY, FRIDAY]}
        time_ranges: {values: ["08:00-18:00"]}
`

// writeConfig lays out a YAML-backed configuration in a temp dir and
// returns the config file path.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	policyPath := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(policyPath, []byte(officePolicy), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := strings.Join([]string{
		"policy_source: yaml",
		"policy_file: " + policyPath,
		"db_path: " + filepath.Join(dir, "portunus.db"),
		"log_level: error",
	}, "\n")
	path := filepath.Join(dir, "portunus.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// ── decide ───────────────────────────────────────────────────────────────────

func TestDecide_WeekdayGranted(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "decide", "ABC123", "--at", "2026-10-21T10:00:00Z")
	if err != nil {
		t.Fatalf("decide: %v\n%s", err, out)
	}
	var resp types.AccessResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !resp.Granted || resp.Profile != "Employee" {
		t.Errorf("expected grant via Employee, got %+v", resp)
	}
}

func TestDecide_WeekendDenied(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "decide", "ABC123", "--at", "2026-10-24T10:00:00Z")
	if err != nil {
		t.Fatalf("decide: %v\n%s", err, out)
	}
	var resp types.AccessResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if resp.Granted || resp.Code != types.CodeTimeFilterRejected {
		t.Errorf("expected time_filter_rejected, got %+v", resp)
	}
}

func TestDecide_UnmappedReaderNeedsResource(t *testing.T) {
	cfg := writeConfig(t)

	if _, err := run(t, "--config", cfg, "decide", "ABC123", "--reader", "nowhere"); err == nil {
		t.Fatal("expected error for a reader without a resource")
	}
}

// ── simulate ─────────────────────────────────────────────────────────────────

func TestSimulate_OneLinePerSwipe(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "simulate", "ABC123", "NOPE", "--at", "2026-10-21T10:00:00Z")
	if err != nil {
		t.Fatalf("simulate: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 decisions, got %d:\n%s", len(lines), out)
	}
	var first, second types.AccessResponse
	_ = json.Unmarshal([]byte(lines[0]), &first)
	_ = json.Unmarshal([]byte(lines[1]), &second)
	if !first.Granted || second.Code != types.CodeUserNotFound {
		t.Errorf("unexpected decisions %+v %+v", first, second)
	}
}

// ── readers / migrate ────────────────────────────────────────────────────────

func TestReaders_CommissionThenList(t *testing.T) {
	cfg := writeConfig(t)

	if out, err := run(t, "--config", cfg, "readers", "commission", "door-009", "--name", "Loading dock"); err != nil {
		t.Fatalf("commission: %v\n%s", err, out)
	}
	out, err := run(t, "--config", cfg, "readers", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "door-009") || !strings.Contains(out, "true") {
		t.Errorf("expected commissioned reader in listing:\n%s", out)
	}
}

func TestMigrate_ReportsVersion(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.HasPrefix(out, "schema version ") {
		t.Errorf("unexpected output %q", out)
	}
}
