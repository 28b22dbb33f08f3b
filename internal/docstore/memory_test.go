package docstore

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "things", "a", &testDoc{Name: "first", Count: 1}); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got testDoc
	if err := store.Get(ctx, "things", "a", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "first" || got.Count != 1 {
		t.Fatalf("got %+v", got)
	}

	if err := store.Delete(ctx, "things", "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Get(ctx, "things", "a", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing document is not an error.
	if err := store.Delete(ctx, "things", "a"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, id := range []string{"b", "a", "c"} {
		if err := store.Set(ctx, "things", id, &testDoc{Name: id}); err != nil {
			t.Fatalf("set %s: %v", id, err)
		}
	}

	var docs []testDoc
	if err := store.List(ctx, "things", &docs); err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(docs))
	}
	// Order is by id.
	if docs[0].Name != "a" || docs[1].Name != "b" || docs[2].Name != "c" {
		t.Fatalf("unexpected order: %+v", docs)
	}

	var empty []testDoc
	if err := store.List(ctx, "nothing", &empty); err != nil {
		t.Fatalf("list empty collection: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty, got %d", len(empty))
	}
}

func TestMemoryTransactionAtomicity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Set(ctx, "things", "a", &testDoc{Name: "before"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	boom := errors.New("boom")
	err := store.RunTransaction(ctx, func(tx Tx) error {
		if err := tx.Set("things", "a", &testDoc{Name: "after"}); err != nil {
			return err
		}
		if err := tx.Set("things", "b", &testDoc{Name: "new"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var a testDoc
	if err := store.Get(ctx, "things", "a", &a); err != nil {
		t.Fatalf("get a: %v", err)
	}
	if a.Name != "before" {
		t.Fatalf("rollback failed: a = %+v", a)
	}
	var b testDoc
	if err := store.Get(ctx, "things", "b", &b); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected b to not exist, got %v", err)
	}
}

func TestMemoryTransactionReadsOwnWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.RunTransaction(ctx, func(tx Tx) error {
		if err := tx.Set("things", "a", &testDoc{Name: "staged", Count: 5}); err != nil {
			return err
		}
		var got testDoc
		if err := tx.Get("things", "a", &got); err != nil {
			return err
		}
		if got.Name != "staged" {
			t.Fatalf("tx did not observe its own write: %+v", got)
		}

		if err := tx.Delete("things", "a"); err != nil {
			return err
		}
		if err := tx.Get("things", "a", &got); !errors.Is(err, ErrNotFound) {
			t.Fatalf("tx did not observe its own delete: %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
}

func TestMemoryIncrement(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Set(ctx, "things", "a", &testDoc{Name: "counter", Count: 10}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := store.RunTransaction(ctx, func(tx Tx) error {
		return tx.Increment("things", "a", "count", -3)
	})
	if err != nil {
		t.Fatalf("increment: %v", err)
	}

	var got testDoc
	if err := store.Get(ctx, "things", "a", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Count != 7 {
		t.Fatalf("count = %d, want 7", got.Count)
	}
	if got.Name != "counter" {
		t.Fatalf("increment clobbered other fields: %+v", got)
	}

	err = store.RunTransaction(ctx, func(tx Tx) error {
		return tx.Increment("things", "missing", "count", 1)
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing doc, got %v", err)
	}
}

func TestMemoryConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Set(ctx, "things", "a", &testDoc{Count: 0}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.RunTransaction(ctx, func(tx Tx) error {
				return tx.Increment("things", "a", "count", 1)
			})
		}()
	}
	wg.Wait()

	var got testDoc
	if err := store.Get(ctx, "things", "a", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Count != workers {
		t.Fatalf("count = %d, want %d (lost updates)", got.Count, workers)
	}
}
