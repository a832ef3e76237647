package provider

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type choice struct {
	Name    string
	Handles []string
}

func TestMemoryStoreSaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[choice]()

	if err := s.Save(ctx, "c1", &choice{Name: "Саш"}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load(ctx, "c1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil || got.Name != "Саш" {
		t.Fatalf("expected stored value, got %+v", got)
	}

	s.Delete(ctx, "c1")
	if got, _ := s.Load(ctx, "c1"); got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	got, err := NewMemoryStore[choice]().Load(context.Background(), "nope")
	if got != nil || err != nil {
		t.Errorf("expected (nil, nil), got (%v, %v)", got, err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[choice]()
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	s.Save(ctx, "c1", &choice{Name: "x"}, time.Minute)
	if got, _ := s.Load(ctx, "c1"); got == nil {
		t.Fatal("expected value before expiry")
	}

	now = now.Add(2 * time.Minute)
	if got, _ := s.Load(ctx, "c1"); got != nil {
		t.Error("expected nil after expiry")
	}
	if s.Len() != 0 {
		t.Errorf("expected expired entry to be dropped, len=%d", s.Len())
	}
}

func TestMemoryStoreTakeOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[choice]()
	s.Save(ctx, "c1", &choice{Name: "x"}, 0)

	got, err := s.Take(ctx, "c1")
	if err != nil || got == nil {
		t.Fatalf("expected value on first take, got (%v, %v)", got, err)
	}
	if again, _ := s.Take(ctx, "c1"); again != nil {
		t.Error("expected nil on second take")
	}
}

func TestMemoryStoreTakeConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[choice]()
	s.Save(ctx, "c1", &choice{Name: "x"}, 0)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, _ := s.Take(ctx, "c1"); v != nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("expected exactly one winner, got %d", wins.Load())
	}
}
