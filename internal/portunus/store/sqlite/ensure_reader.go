package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// ensureReader guarantees a readers row exists for readerID so that foreign
// keys from heartbeats and access_events are satisfied. New rows start
// disabled and uncommissioned; only an operator or the dev seeder enables
// a reader.
//
// Must be called inside an existing transaction.
func ensureReader(ctx context.Context, tx *sql.Tx, readerID string, nowMs int64) error {
	if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO readers(
  reader_id, enabled, created_at_ms, updated_at_ms
) VALUES (?, 0, ?, ?);
`, readerID, nowMs, nowMs); err != nil {
		return fmt.Errorf("ensureReader %s: %w", readerID, err)
	}
	return nil
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	if *b {
		return 1
	}
	return 0
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
