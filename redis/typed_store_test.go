package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	apperrors "github.com/kbukum/voicemention/errors"
	"github.com/kbukum/voicemention/mention"
)

// newTestClient creates a Client backed by miniredis.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client, err := New(Config{Enabled: true, Addr: mini.Addr()})
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mini
}

type testState struct {
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

func TestTypedStore_SaveAndLoad(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewTypedStore[testState](client, "test")
	ctx := context.Background()

	if err := store.Save(ctx, "k1", &testState{Count: 5, Tags: []string{"a", "b"}}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load(ctx, "k1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil || got.Count != 5 || len(got.Tags) != 2 {
		t.Fatalf("expected Count=5, Tags=2, got %+v", got)
	}
}

func TestTypedStore_LoadMissing(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewTypedStore[testState](client, "test")

	got, err := store.Load(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing key, got %+v", got)
	}
}

func TestTypedStore_Delete(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewTypedStore[testState](client, "test")
	ctx := context.Background()

	_ = store.Save(ctx, "k1", &testState{Count: 1}, 0)
	if err := store.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := store.Load(ctx, "k1"); got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
}

func TestTypedStore_TTL(t *testing.T) {
	client, mini := newTestClient(t)
	store := NewTypedStore[testState](client, "test")
	ctx := context.Background()

	if err := store.Save(ctx, "k1", &testState{Count: 1}, 2*time.Second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got, err := store.Load(ctx, "k1"); err != nil || got == nil {
		t.Fatalf("expected value before TTL, got %v, err %v", got, err)
	}

	mini.FastForward(3 * time.Second)

	got, err := store.Load(ctx, "k1")
	if err != nil {
		t.Fatalf("Load after TTL failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after TTL expiration, got %+v", got)
	}
}

func TestTypedStore_KeyPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
	}{
		{"voicemention", "voicemention:k1"},
		{"", "k1"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			client, mini := newTestClient(t)
			store := NewTypedStore[testState](client, tt.prefix)
			_ = store.Save(context.Background(), "k1", &testState{Count: 42}, 0)

			raw, err := mini.Get(tt.key)
			if err != nil || raw == "" {
				t.Fatalf("expected value at %q, got %q, err %v", tt.key, raw, err)
			}
		})
	}
}

func TestTypedStore_TakeRemovesKey(t *testing.T) {
	client, mini := newTestClient(t)
	store := NewTypedStore[testState](client, "test")
	ctx := context.Background()

	_ = store.Save(ctx, "k1", &testState{Count: 3}, time.Minute)

	got, err := store.Take(ctx, "k1")
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if got == nil || got.Count != 3 {
		t.Fatalf("expected Count=3, got %+v", got)
	}
	if mini.Exists("test:k1") {
		t.Error("expected key to be removed by Take")
	}

	again, err := store.Take(ctx, "k1")
	if err != nil {
		t.Fatalf("second Take failed: %v", err)
	}
	if again != nil {
		t.Errorf("expected nil on second Take, got %+v", again)
	}
}

func TestTypedStore_ConcurrentTakeOnce(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewTypedStore[testState](client, "test")
	ctx := context.Background()
	_ = store.Save(ctx, "k1", &testState{Count: 1}, 0)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := store.Take(ctx, "k1"); err == nil && v != nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("expected exactly one Take to win, got %d", wins.Load())
	}
}

func TestTypedStore_CorruptValue(t *testing.T) {
	client, mini := newTestClient(t)
	store := NewTypedStore[testState](client, "test")
	_ = mini.Set("test:bad", "{not json")

	if _, err := store.Load(context.Background(), "bad"); err == nil {
		t.Error("expected unmarshal error")
	}
}

func TestTypedStore_BacksChoiceSelection(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewTypedStore[mention.PendingChoice](client, DefaultKeyPrefix)
	ctx := context.Background()

	engine := mention.NewEngine(store, nil, mention.WithIDGenerator(func() string { return "c1" }))
	match := mention.MatchResult{
		FoundName: "Саша",
		Candidates: []mention.Participant{
			{ID: 1, DisplayName: "Александр", Handle: "alex"},
			{ID: 2, DisplayName: "Александра", Handle: "sasha_k"},
		},
	}
	res, err := engine.Resolve(ctx, mention.Target{ChatID: -100, MessageID: 7}, "Саша, ты где?", match)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Outcome != mention.AwaitingChoice {
		t.Fatalf("expected awaiting choice, got %s", res.Outcome)
	}

	selector := mention.NewSelector(store, nil)
	sel, err := selector.Select(ctx, "c1", "sasha_k")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.Text != "@sasha_k, ты где?" {
		t.Errorf("expected rewritten text, got %q", sel.Text)
	}

	_, err = selector.Select(ctx, "c1", "sasha_k")
	if apperrors.CodeOf(err) != apperrors.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND on second selection, got %v", err)
	}
}
