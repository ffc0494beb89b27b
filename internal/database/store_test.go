package database_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"tagalert/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("failed to close database: %v", closeErr)
		}
	})

	db.MustExec(`CREATE TABLE users (id INTEGER PRIMARY KEY, username TEXT NOT NULL);`)

	return database.NewStore(db, nil)
}

func TestUpsertSubscriber(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("insert and case-insensitive lookup", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		if err := store.UpsertSubscriber(ctx, 42, "Alice"); err != nil {
			t.Fatalf("UpsertSubscriber failed: %v", err)
		}

		ids, err := store.FindIDsByUsername(ctx, "ALICE")
		if err != nil {
			t.Fatalf("FindIDsByUsername failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != 42 {
			t.Fatalf("FindIDsByUsername = %v, want [42]", ids)
		}
	})

	t.Run("updates username on conflict", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		if err := store.UpsertSubscriber(ctx, 42, "alice"); err != nil {
			t.Fatalf("initial upsert failed: %v", err)
		}
		if err := store.UpsertSubscriber(ctx, 42, "alice_renamed"); err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}

		ids, err := store.FindIDsByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("FindIDsByUsername failed: %v", err)
		}
		if len(ids) != 0 {
			t.Fatalf("old username still resolves: %v", ids)
		}

		ids, err = store.FindIDsByUsername(ctx, "Alice_Renamed")
		if err != nil {
			t.Fatalf("FindIDsByUsername failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != 42 {
			t.Fatalf("FindIDsByUsername = %v, want [42]", ids)
		}
	})

	t.Run("empty username is a no-op", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		if err := store.UpsertSubscriber(ctx, 42, ""); err != nil {
			t.Fatalf("UpsertSubscriber failed: %v", err)
		}

		ids, err := store.FindIDsByUsername(ctx, "")
		if err != nil {
			t.Fatalf("FindIDsByUsername failed: %v", err)
		}
		if len(ids) != 0 {
			t.Fatalf("expected no subscribers, got %v", ids)
		}
	})

	t.Run("zero user id is a no-op", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		if err := store.UpsertSubscriber(ctx, 0, "alice"); err != nil {
			t.Fatalf("UpsertSubscriber failed: %v", err)
		}

		ids, err := store.FindIDsByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("FindIDsByUsername failed: %v", err)
		}
		if len(ids) != 0 {
			t.Fatalf("expected no subscribers, got %v", ids)
		}
	})

	t.Run("same username across ids returns all", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		if err := store.UpsertSubscriber(ctx, 42, "alice"); err != nil {
			t.Fatalf("UpsertSubscriber failed: %v", err)
		}
		if err := store.UpsertSubscriber(ctx, 43, "alice"); err != nil {
			t.Fatalf("UpsertSubscriber failed: %v", err)
		}

		ids, err := store.FindIDsByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("FindIDsByUsername failed: %v", err)
		}
		if len(ids) != 2 {
			t.Fatalf("FindIDsByUsername = %v, want two ids", ids)
		}
	})
}

func TestFindIDsByUsernameMissReturnsEmpty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	ids, err := store.FindIDsByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("FindIDsByUsername failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty result for miss, got %v", ids)
	}
}

func TestRemoveByUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	if err := store.UpsertSubscriber(ctx, 42, "alice"); err != nil {
		t.Fatalf("UpsertSubscriber failed: %v", err)
	}
	if err := store.UpsertSubscriber(ctx, 43, "alice"); err != nil {
		t.Fatalf("UpsertSubscriber failed: %v", err)
	}

	// Empty input is a no-op and must not touch existing rows.
	if err := store.RemoveByUsername(ctx, ""); err != nil {
		t.Fatalf("RemoveByUsername with empty input failed: %v", err)
	}
	ids, err := store.FindIDsByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindIDsByUsername failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("empty remove deleted rows: %v", ids)
	}

	if err := store.RemoveByUsername(ctx, "ALICE"); err != nil {
		t.Fatalf("RemoveByUsername failed: %v", err)
	}
	ids, err = store.FindIDsByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindIDsByUsername failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected all matching rows removed, got %v", ids)
	}
}
