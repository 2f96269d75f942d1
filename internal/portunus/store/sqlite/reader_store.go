package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/BrandonDHaskell/Portunus/policyd/internal/db"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store"
)

type ReaderStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewReaderStore(db *sql.DB, writer *dbpkg.Worker) *ReaderStore {
	return &ReaderStore{db: db, writer: writer}
}

// IsKnown treats a reader as known when it is enabled, commissioned and
// not revoked.
func (s *ReaderStore) IsKnown(ctx context.Context, readerID string) (bool, error) {
	readerID = strings.TrimSpace(readerID)
	if readerID == "" {
		return false, nil
	}

	var enabled int
	var commissioned, revoked sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
SELECT enabled, commissioned_at_ms, revoked_at_ms
FROM readers
WHERE reader_id = ?;
`, readerID).Scan(&enabled, &commissioned, &revoked)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("IsKnown query: %w", err)
	}

	return enabled == 1 && commissioned.Valid && !revoked.Valid, nil
}

// MarkSeen creates the reader row if needed and updates last_seen.
func (s *ReaderStore) MarkSeen(ctx context.Context, readerID string, _ bool, t time.Time) error {
	readerID = strings.TrimSpace(readerID)
	if readerID == "" {
		return nil
	}
	if t.IsZero() {
		t = time.Now().UTC()
	}
	ms := t.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureReader(ctx, tx, readerID, ms); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE readers
SET last_seen_at_ms = ?,
    updated_at_ms   = ?
WHERE reader_id = ?;
`, ms, ms, readerID); err != nil {
			return fmt.Errorf("MarkSeen update reader: %w", err)
		}
		return nil
	})
}

// Commission enables readerID, creating it if needed.
func (s *ReaderStore) Commission(ctx context.Context, readerID, displayName string, t time.Time) error {
	readerID = strings.TrimSpace(readerID)
	if readerID == "" {
		return errors.New("reader id is required")
	}
	ms := t.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO readers(reader_id, display_name, enabled, commissioned_at_ms, created_at_ms, updated_at_ms)
VALUES (?, ?, 1, ?, ?, ?)
ON CONFLICT(reader_id) DO UPDATE SET
  display_name = COALESCE(excluded.display_name, readers.display_name),
  enabled = 1,
  revoked_at_ms = NULL,
  commissioned_at_ms = COALESCE(readers.commissioned_at_ms, excluded.commissioned_at_ms),
  updated_at_ms = excluded.updated_at_ms;
`, readerID, nullableString(displayName), ms, ms, ms); err != nil {
			return fmt.Errorf("Commission %s: %w", readerID, err)
		}
		return nil
	})
}

// Revoke stops readerID from being treated as known.
func (s *ReaderStore) Revoke(ctx context.Context, readerID string, t time.Time) error {
	ms := t.UTC().UnixMilli()
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
UPDATE readers SET revoked_at_ms = ?, updated_at_ms = ? WHERE reader_id = ?;
`, ms, ms, readerID); err != nil {
			return fmt.Errorf("Revoke %s: %w", readerID, err)
		}
		return nil
	})
}

// List returns every reader row ordered by id.
func (s *ReaderStore) List(ctx context.Context) ([]store.ReaderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT reader_id, enabled, commissioned_at_ms, revoked_at_ms, last_seen_at_ms
FROM readers
ORDER BY reader_id;
`)
	if err != nil {
		return nil, fmt.Errorf("List readers: %w", err)
	}
	defer rows.Close()

	var out []store.ReaderRecord
	for rows.Next() {
		var rec store.ReaderRecord
		var enabled int
		var commissioned, revoked, lastSeen sql.NullInt64
		if err := rows.Scan(&rec.ReaderID, &enabled, &commissioned, &revoked, &lastSeen); err != nil {
			return nil, fmt.Errorf("List readers scan: %w", err)
		}
		rec.Known = enabled == 1 && commissioned.Valid && !revoked.Valid
		if lastSeen.Valid {
			rec.LastSeen = time.UnixMilli(lastSeen.Int64).UTC()
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
