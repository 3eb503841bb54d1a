package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/campshare/internal/persistence"
)

func TestStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()

	if _, err := store.Get(ctx, persistence.BucketEvents); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	payload := []byte(`[]`)
	if err := store.Set(ctx, persistence.BucketEvents, payload); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	payload[0] = 'x'

	got, err := store.Get(ctx, persistence.BucketEvents)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("expected stored copy to be isolated, got %q", got)
	}

	got[0] = 'y'
	again, _ := store.Get(ctx, persistence.BucketEvents)
	if string(again) != "[]" {
		t.Fatalf("expected returned copy to be isolated, got %q", again)
	}

	if err := store.Delete(ctx, persistence.BucketEvents); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := store.Delete(ctx, persistence.BucketEvents); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()
	repo := persistence.NewRepository(store)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = repo.Save(ctx, persistence.BucketCleaning, []int{n})
			var out []int
			_, _ = repo.Load(ctx, persistence.BucketCleaning, &out)
		}(i)
	}
	wg.Wait()

	var out []int
	found, err := repo.Load(ctx, persistence.BucketCleaning, &out)
	if err != nil || !found || len(out) != 1 {
		t.Fatalf("unexpected final state: found=%v err=%v out=%v", found, err, out)
	}
}
