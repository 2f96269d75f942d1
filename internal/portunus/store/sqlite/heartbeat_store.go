package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/BrandonDHaskell/Portunus/policyd/internal/db"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store"
)

type HeartbeatStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewHeartbeatStore(db *sql.DB, writer *dbpkg.Worker) *HeartbeatStore {
	return &HeartbeatStore{db: db, writer: writer}
}

// UpsertHeartbeat appends the heartbeat and refreshes the reader's
// last-known status columns.
func (s *HeartbeatStore) UpsertHeartbeat(ctx context.Context, readerID string, rec store.HeartbeatRecord) error {
	readerID = strings.TrimSpace(readerID)
	if readerID == "" {
		return nil
	}

	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}
	recvMs := rec.ReceivedAt.UTC().UnixMilli()

	fw := nullableString(strings.TrimSpace(rec.Request.FirmwareVersion))
	ip := nullableString(strings.TrimSpace(rec.Request.IP))

	var rssi any
	if rec.Request.RSSIDbm != nil {
		rssi = *rec.Request.RSSIDbm
	}

	var uptimeMs any
	if rec.Request.UptimeSeconds != 0 {
		uptimeMs = int64(rec.Request.UptimeSeconds) * 1000
	}

	var seq any
	if rec.Request.Sequence != 0 {
		seq = rec.Request.Sequence
	}

	var freeHeap any
	if rec.Request.FreeHeapBytes != 0 {
		freeHeap = rec.Request.FreeHeapBytes
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureReader(ctx, tx, readerID, recvMs); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO reader_heartbeats(
  reader_id, received_at_ms, seq, uptime_ms, fw_version, wifi_rssi, ip, free_heap_bytes
) VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`, readerID, recvMs, seq, uptimeMs, fw, rssi, ip, freeHeap); err != nil {
			return fmt.Errorf("UpsertHeartbeat insert heartbeat: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE readers
SET last_seen_at_ms = ?,
    last_ip = COALESCE(?, last_ip),
    last_fw_version = COALESCE(?, last_fw_version),
    last_wifi_rssi = COALESCE(?, last_wifi_rssi),
    updated_at_ms = ?
WHERE reader_id = ?;
`, recvMs, ip, fw, rssi, recvMs, readerID); err != nil {
			return fmt.Errorf("UpsertHeartbeat update reader status: %w", err)
		}

		return nil
	})
}

// PruneOlderThan deletes heartbeat rows received before cutoff and returns
// the number deleted.
func (s *HeartbeatStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM reader_heartbeats
WHERE received_at_ms < ?;
`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}
