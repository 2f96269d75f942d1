package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/policy"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/timefilter"
)

type SeedDevOptions struct {
	// KnownReaders are commissioned in addition to the seeded door reader.
	KnownReaders []string
	// Now stamps the seeded rows and issues the badge. Defaults to time.Now.
	Now time.Time
}

// SeedDev loads a small office policy: badge ABC123 belongs to Ada
// Lovelace, whose Employee profile opens the Office group on weekdays
// 08:00-18:00. R1 is the office door behind reader door-001; LOBBY is an
// uncontrolled gate. Running it again refreshes the rows in place.
func SeedDev(ctx context.Context, w *Worker, opt SeedDevOptions) error {
	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}
	nowMs := now.UTC().UnixMilli()
	badge := policy.NewBadge("ABC123", "U1", now)

	employee, err := json.Marshal(timefilter.TimeFilter{
		DaysOfWeek: timefilter.WorkWeek(),
		TimeRanges: timefilter.Between("08:00", "18:00"),
	}.Spec())
	if err != nil {
		return fmt.Errorf("encode employee rule: %w", err)
	}

	return w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stmts := []struct {
			what string
			sql  string
			args []any
		}{
			{"user", `
INSERT INTO users(user_id, first_name, last_name, gender, user_type, created_at_ms, updated_at_ms)
VALUES ('U1', 'Ada', 'Lovelace', 'FEMALE', 'EMPLOYEE', ?, ?)
ON CONFLICT(user_id) DO UPDATE SET updated_at_ms = excluded.updated_at_ms;`,
				[]any{nowMs, nowMs}},
			{"badge", `
INSERT INTO badges(badge_code, user_id, valid, created_at_ms, expires_at_ms, updated_at_ms)
VALUES (?, 'U1', 1, ?, ?, ?)
ON CONFLICT(badge_code) DO UPDATE SET
  valid = 1,
  expires_at_ms = excluded.expires_at_ms,
  updated_at_ms = excluded.updated_at_ms;`,
				[]any{badge.Code, nowMs, badge.ExpiresAt.UnixMilli(), nowMs}},
			{"resource R1", `
INSERT INTO resources(resource_id, name, resource_type, location, state, reader_id, created_at_ms, updated_at_ms)
VALUES ('R1', 'Office door', 'DOOR', 'Main office', 'CONTROLLED', 'door-001', ?, ?)
ON CONFLICT(resource_id) DO UPDATE SET updated_at_ms = excluded.updated_at_ms;`,
				[]any{nowMs, nowMs}},
			{"resource LOBBY", `
INSERT INTO resources(resource_id, name, resource_type, location, state, created_at_ms, updated_at_ms)
VALUES ('LOBBY', 'Lobby gate', 'GATE', 'Ground floor', 'UNCONTROLLED', ?, ?)
ON CONFLICT(resource_id) DO UPDATE SET updated_at_ms = excluded.updated_at_ms;`,
				[]any{nowMs, nowMs}},
			{"group", `INSERT OR IGNORE INTO resource_groups(group_name, security_level) VALUES ('Office', 1);`, nil},
			{"group member", `INSERT OR IGNORE INTO resource_group_members(group_name, resource_id) VALUES ('Office', 'R1');`, nil},
			{"profile", `
INSERT INTO profiles(profile_name, created_at_ms, updated_at_ms) VALUES ('Employee', ?, ?)
ON CONFLICT(profile_name) DO UPDATE SET updated_at_ms = excluded.updated_at_ms;`,
				[]any{nowMs, nowMs}},
			{"profile rule", `
INSERT INTO profile_rules(profile_name, group_name, time_filter) VALUES ('Employee', 'Office', ?)
ON CONFLICT(profile_name, group_name) DO UPDATE SET time_filter = excluded.time_filter;`,
				[]any{string(employee)}},
			{"user profile", `INSERT OR IGNORE INTO user_profiles(user_id, profile_name) VALUES ('U1', 'Employee');`, nil},
		}
		for _, s := range stmts {
			if _, err := tx.ExecContext(ctx, s.sql, s.args...); err != nil {
				return fmt.Errorf("seed %s: %w", s.what, err)
			}
		}

		readers := append([]string{"door-001"}, opt.KnownReaders...)
		for _, id := range readers {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, `
INSERT INTO readers(reader_id, display_name, enabled, commissioned_at_ms, created_at_ms, updated_at_ms)
VALUES (?, ?, 1, ?, ?, ?)
ON CONFLICT(reader_id) DO UPDATE SET
  enabled = 1,
  revoked_at_ms = NULL,
  commissioned_at_ms = COALESCE(readers.commissioned_at_ms, excluded.commissioned_at_ms),
  updated_at_ms = excluded.updated_at_ms;
`, id, id, nowMs, nowMs, nowMs); err != nil {
				return fmt.Errorf("seed reader %s: %w", id, err)
			}
		}
		return nil
	})
}
