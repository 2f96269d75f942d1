package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	dbpkg "github.com/BrandonDHaskell/Portunus/policyd/internal/db"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store"
)

type AccessEventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAccessEventStore(db *sql.DB, writer *dbpkg.Worker) *AccessEventStore {
	return &AccessEventStore{db: db, writer: writer}
}

func (s *AccessEventStore) RecordEvent(ctx context.Context, rec store.AccessEventRecord) error {
	if rec.EventID == "" {
		rec.EventID = uuid.NewString()
	}
	if rec.DecidedAt.IsZero() {
		rec.DecidedAt = time.Now().UTC()
	}
	if rec.SwipedAt.IsZero() {
		rec.SwipedAt = rec.DecidedAt
	}
	decidedMs := rec.DecidedAt.UTC().UnixMilli()

	var granted int
	if rec.Granted {
		granted = 1
	}

	var badgeHash any
	if len(rec.BadgeHash) == 32 {
		badgeHash = rec.BadgeHash
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureReader(ctx, tx, rec.ReaderID, decidedMs); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO access_events(
  event_id, reader_id, resource_id, badge_hash, swiped_at_ms, door_closed,
  decision_granted, decision_code, decision_reason, profile_name, decided_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.EventID, rec.ReaderID, nullableString(rec.ResourceID), badgeHash,
			rec.SwipedAt.UTC().UnixMilli(), nullableBool(rec.DoorClosed),
			granted, rec.Code, rec.Reason, nullableString(rec.Profile), decidedMs,
		); err != nil {
			return fmt.Errorf("RecordEvent insert: %w", err)
		}

		return nil
	})
}

// PruneOlderThan deletes events decided before cutoff and returns the
// number deleted.
func (s *AccessEventStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM access_events WHERE decided_at_ms < ?;`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}

// Recent returns up to limit events for readerID, newest first. An empty
// readerID matches every reader.
func (s *AccessEventStore) Recent(ctx context.Context, readerID string, limit int) ([]store.AccessEventRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT event_id, reader_id, resource_id, badge_hash, swiped_at_ms, door_closed,
       decision_granted, decision_code, decision_reason, profile_name, decided_at_ms
FROM access_events
WHERE ? = '' OR reader_id = ?
ORDER BY decided_at_ms DESC, event_id
LIMIT ?;
`, readerID, readerID, limit)
	if err != nil {
		return nil, fmt.Errorf("Recent query: %w", err)
	}
	defer rows.Close()

	var out []store.AccessEventRecord
	for rows.Next() {
		var (
			rec                 store.AccessEventRecord
			resourceID, profile sql.NullString
			doorClosed          sql.NullInt64
			granted             int
			swipedMs, decidedMs int64
		)
		if err := rows.Scan(&rec.EventID, &rec.ReaderID, &resourceID, &rec.BadgeHash, &swipedMs,
			&doorClosed, &granted, &rec.Code, &rec.Reason, &profile, &decidedMs); err != nil {
			return nil, fmt.Errorf("Recent scan: %w", err)
		}
		rec.ResourceID = resourceID.String
		rec.Profile = profile.String
		rec.Granted = granted == 1
		rec.SwipedAt = time.UnixMilli(swipedMs).UTC()
		rec.DecidedAt = time.UnixMilli(decidedMs).UTC()
		if doorClosed.Valid {
			closed := doorClosed.Int64 == 1
			rec.DoorClosed = &closed
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
