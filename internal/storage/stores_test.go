package storage

import (
	"context"
	"reflect"
	"sync"
	"testing"
)

func TestChecklistStorePutGetDelete(t *testing.T) {
	for name, setup := range backends {
		t.Run(name, func(t *testing.T) {
			store := NewChecklistStore(setup(t))
			ctx := context.Background()

			empty, err := store.Get(ctx, "2026-01-13")
			if err != nil {
				t.Fatalf("get missing: %v", err)
			}
			if empty == nil || len(empty) != 0 {
				t.Fatalf("expected empty non-nil list, got %#v", empty)
			}

			items := []string{"Buy milk", "Pay rent"}
			if err := store.Put(ctx, "2026-01-13", items); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, err := store.Get(ctx, "2026-01-13")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !reflect.DeepEqual(got, items) {
				t.Fatalf("unexpected items: %#v", got)
			}

			if err := store.Put(ctx, "2026-01-13", []string{"Only"}); err != nil {
				t.Fatalf("replace: %v", err)
			}
			got, _ = store.Get(ctx, "2026-01-13")
			if !reflect.DeepEqual(got, []string{"Only"}) {
				t.Fatalf("put must replace in full, got %#v", got)
			}

			if err := store.Delete(ctx, "2026-01-13"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			got, _ = store.Get(ctx, "2026-01-13")
			if len(got) != 0 {
				t.Fatalf("expected empty after delete, got %#v", got)
			}
		})
	}
}

func TestCompletionStoreMarkDoneIsIdempotent(t *testing.T) {
	for name, setup := range backends {
		t.Run(name, func(t *testing.T) {
			store := NewCompletionStore(setup(t))
			ctx := context.Background()

			set, err := store.Get(ctx, "2026-01-13")
			if err != nil || set.Len() != 0 {
				t.Fatalf("expected empty set, got %v %v", set.Strings(), err)
			}

			added, err := store.MarkDone(ctx, "2026-01-13", 0)
			if err != nil || !added {
				t.Fatalf("first mark: added=%v err=%v", added, err)
			}
			added, err = store.MarkDone(ctx, "2026-01-13", 0)
			if err != nil || added {
				t.Fatalf("second mark: added=%v err=%v", added, err)
			}
			if _, err := store.MarkDone(ctx, "2026-01-13", 2); err != nil {
				t.Fatalf("mark 2: %v", err)
			}

			set, err = store.Get(ctx, "2026-01-13")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !reflect.DeepEqual(set.Strings(), []string{"0", "2"}) {
				t.Fatalf("unexpected set: %#v", set.Strings())
			}
		})
	}
}

func TestCompletionStoreRejectsNegativeIndex(t *testing.T) {
	store := NewCompletionStore(NewMemoryKV())
	if _, err := store.MarkDone(context.Background(), "mon", -1); err == nil {
		t.Fatal("expected error for negative index")
	}
}

func TestCompletionStoreReadsNumericIndices(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	if err := kv.Put(ctx, "done:mon", `[1, "3", 1]`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	set, err := NewCompletionStore(kv).Get(ctx, "mon")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(set.Strings(), []string{"1", "3"}) {
		t.Fatalf("unexpected set: %#v", set.Strings())
	}
}

func TestCompletionStoreConcurrentMarksKeepEveryIndex(t *testing.T) {
	for name, setup := range backends {
		t.Run(name, func(t *testing.T) {
			store := NewCompletionStore(setup(t))
			ctx := context.Background()

			const items = 20
			var wg sync.WaitGroup
			wg.Add(items)
			for i := 0; i < items; i++ {
				go func(idx int) {
					defer wg.Done()
					if _, err := store.MarkDone(ctx, "2026-01-13", idx); err != nil {
						t.Errorf("mark %d: %v", idx, err)
					}
				}(i)
			}
			wg.Wait()

			set, err := store.Get(ctx, "2026-01-13")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if set.Len() != items {
				t.Fatalf("lost completion updates: got %d want %d", set.Len(), items)
			}
		})
	}
}
