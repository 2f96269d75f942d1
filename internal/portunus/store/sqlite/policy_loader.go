package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/engine"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/policy"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/timefilter"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PolicyLoader reads the policy tables for the decision engine. It only
// reads, so it goes straight to the *sql.DB rather than the writer.
type PolicyLoader struct {
	conn *sql.DB
	db   querier
	now  func() time.Time
}

// NewPolicyLoader returns a loader over db. now decides which badges are
// still valid; nil means time.Now.
func NewPolicyLoader(db *sql.DB, now func() time.Time) *PolicyLoader {
	if now == nil {
		now = time.Now
	}
	return &PolicyLoader{conn: db, db: db, now: now}
}

// View opens a read-only transaction and returns a loader bound to it, so
// every table of one snapshot comes from the same database state. The
// connection is held until release is called.
func (l *PolicyLoader) View(ctx context.Context) (engine.Loader, func(), error) {
	if l.conn == nil {
		return l, func() {}, nil
	}
	tx, err := l.conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, nil, fmt.Errorf("begin read-only tx: %w", err)
	}
	release := func() { _ = tx.Rollback() }
	return &PolicyLoader{db: tx, now: l.now}, release, nil
}

// LoadUsersByBadgeCode indexes users by the code of every badge that is
// valid and unexpired at load time.
func (l *PolicyLoader) LoadUsersByBadgeCode(ctx context.Context) (map[string]policy.User, error) {
	rows, err := l.db.QueryContext(ctx, `
SELECT b.badge_code, u.user_id, u.first_name, u.last_name, u.gender, u.user_type
FROM badges b
JOIN users u ON u.user_id = b.user_id
WHERE b.valid = 1 AND b.expires_at_ms >= ?;
`, l.now().UTC().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("LoadUsersByBadgeCode query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]policy.User)
	for rows.Next() {
		var code, gender, userType string
		var u policy.User
		if err := rows.Scan(&code, &u.ID, &u.FirstName, &u.LastName, &gender, &userType); err != nil {
			return nil, fmt.Errorf("LoadUsersByBadgeCode scan: %w", err)
		}
		if u.Gender, err = policy.ParseGender(gender); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.ID, err)
		}
		if u.Type, err = policy.ParseUserType(userType); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.ID, err)
		}
		u.BadgeID = &code
		out[code] = u
	}
	return out, rows.Err()
}

func (l *PolicyLoader) LoadUserProfiles(ctx context.Context) (map[string][]string, error) {
	rows, err := l.db.QueryContext(ctx, `
SELECT user_id, profile_name FROM user_profiles ORDER BY user_id, profile_name;
`)
	if err != nil {
		return nil, fmt.Errorf("LoadUserProfiles query: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var userID, name string
		if err := rows.Scan(&userID, &name); err != nil {
			return nil, fmt.Errorf("LoadUserProfiles scan: %w", err)
		}
		out[userID] = append(out[userID], name)
	}
	return out, rows.Err()
}

func (l *PolicyLoader) LoadAllResources(ctx context.Context) (map[string]policy.Resource, error) {
	rows, err := l.db.QueryContext(ctx, `
SELECT resource_id, name, resource_type, location, building, floor, state, reader_id
FROM resources;
`)
	if err != nil {
		return nil, fmt.Errorf("LoadAllResources query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]policy.Resource)
	for rows.Next() {
		var r policy.Resource
		var typ, state string
		var readerID sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &typ, &r.Location, &r.Building, &r.Floor, &state, &readerID); err != nil {
			return nil, fmt.Errorf("LoadAllResources scan: %w", err)
		}
		if r.Type, err = policy.ParseResourceType(typ); err != nil {
			return nil, fmt.Errorf("resource %s: %w", r.ID, err)
		}
		if r.State, err = policy.ParseResourceState(state); err != nil {
			return nil, fmt.Errorf("resource %s: %w", r.ID, err)
		}
		if readerID.Valid && readerID.String != "" {
			id := readerID.String
			r.ReaderID = &id
		}
		out[r.ID] = r
	}
	return out, rows.Err()
}

// LoadResourceGroups maps each grouped resource to its group. A resource
// listed in several groups is assigned to the first by group name.
func (l *PolicyLoader) LoadResourceGroups(ctx context.Context) (map[string]string, error) {
	rows, err := l.db.QueryContext(ctx, `
SELECT resource_id, group_name FROM resource_group_members ORDER BY group_name, resource_id;
`)
	if err != nil {
		return nil, fmt.Errorf("LoadResourceGroups query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var resourceID, group string
		if err := rows.Scan(&resourceID, &group); err != nil {
			return nil, fmt.Errorf("LoadResourceGroups scan: %w", err)
		}
		if _, taken := out[resourceID]; !taken {
			out[resourceID] = group
		}
	}
	return out, rows.Err()
}

// LoadProfile returns nil, nil when no profile is named name.
func (l *PolicyLoader) LoadProfile(ctx context.Context, name string) (*policy.Profile, error) {
	var exists string
	err := l.db.QueryRowContext(ctx, `SELECT profile_name FROM profiles WHERE profile_name = ?;`, name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LoadProfile %s: %w", name, err)
	}

	rows, err := l.db.QueryContext(ctx, `
SELECT group_name, time_filter FROM profile_rules WHERE profile_name = ?;
`, name)
	if err != nil {
		return nil, fmt.Errorf("LoadProfile %s rules: %w", name, err)
	}
	defer rows.Close()

	p := policy.NewProfile(name)
	for rows.Next() {
		var group, raw string
		if err := rows.Scan(&group, &raw); err != nil {
			return nil, fmt.Errorf("LoadProfile %s scan: %w", name, err)
		}
		var spec timefilter.Spec
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			return nil, fmt.Errorf("profile %s group %s: decode time filter: %w", name, group, err)
		}
		f, err := spec.Compile()
		if err != nil {
			return nil, fmt.Errorf("profile %s group %s: %w", name, group, err)
		}
		p.SetRule(group, f)
	}
	return p, rows.Err()
}
