package sqlite_test

import (
	"context"
	"testing"
	"time"

	sqlitestore "github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store/sqlite"
)

func TestReaderStore_Lifecycle(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	rs := sqlitestore.NewReaderStore(conn, w)
	ctx := context.Background()
	now := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)

	known, err := rs.IsKnown(ctx, "door-001")
	if err != nil || known {
		t.Fatalf("fresh reader should be unknown, got %v %v", known, err)
	}

	// Seen but never commissioned: row exists, still unknown.
	if err := rs.MarkSeen(ctx, "door-001", false, now); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if known, _ := rs.IsKnown(ctx, "door-001"); known {
		t.Error("uncommissioned reader reported known")
	}

	if err := rs.Commission(ctx, "door-001", "Main Entrance", now); err != nil {
		t.Fatalf("Commission: %v", err)
	}
	if known, _ := rs.IsKnown(ctx, "door-001"); !known {
		t.Error("commissioned reader reported unknown")
	}

	if err := rs.Revoke(ctx, "door-001", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if known, _ := rs.IsKnown(ctx, "door-001"); known {
		t.Error("revoked reader reported known")
	}

	list, err := rs.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Known || !list[0].LastSeen.Equal(now) {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestReaderStore_EmptyID(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	rs := sqlitestore.NewReaderStore(conn, w)

	if known, err := rs.IsKnown(context.Background(), " "); known || err != nil {
		t.Errorf("expected false, nil; got %v, %v", known, err)
	}
	if err := rs.MarkSeen(context.Background(), "", false, time.Now()); err != nil {
		t.Errorf("MarkSeen on empty id: %v", err)
	}
}
