package mention

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "github.com/kbukum/voicemention/errors"
	"github.com/kbukum/voicemention/provider"
)

func newTestEngine(store ChoiceStore) *Engine {
	n := 0
	return NewEngine(store, nil, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("c%d", n)
	}))
}

var target = Target{ChatID: -100, MessageID: 7}

func TestResolve_Unresolved(t *testing.T) {
	e := newTestEngine(provider.NewMemoryStore[PendingChoice]())
	for _, m := range []MatchResult{{}, {FoundName: "Петя"}} {
		res, err := e.Resolve(context.Background(), target, "Петя, привет", m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Outcome != Unresolved || res.Text != "Петя, привет" || res.Choice != nil {
			t.Errorf("expected unresolved unchanged text, got %+v", res)
		}
	}
}

func TestResolve_SingleCandidate(t *testing.T) {
	store := provider.NewMemoryStore[PendingChoice]()
	e := newTestEngine(store)

	match := MatchResult{FoundName: "Костя", Candidates: []Participant{{ID: 1, DisplayName: "Константин", Handle: "kostya"}}}
	res, err := e.Resolve(context.Background(), target, "Костя, привет", match)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != AutoResolved {
		t.Errorf("expected auto resolution, got %s", res.Outcome)
	}
	if res.Text != "@kostya, привет" {
		t.Errorf("expected rewritten text, got %q", res.Text)
	}
	if res.Choice != nil || store.Len() != 0 {
		t.Error("expected no pending choice")
	}
}

func TestResolve_TwoSashasAwaitChoice(t *testing.T) {
	store := provider.NewMemoryStore[PendingChoice]()
	e := newTestEngine(store)

	match := MatchResult{FoundName: "Саш", Candidates: []Participant{
		{ID: 2, DisplayName: "Александр", Handle: "alex"},
		{ID: 4, DisplayName: "Александра", Handle: "sasha_a"},
	}}
	res, err := e.Resolve(context.Background(), target, "Саш, привет", match)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != AwaitingChoice {
		t.Fatalf("expected awaiting choice, got %s", res.Outcome)
	}
	if res.Text != "Саш, привет" {
		t.Errorf("expected text unchanged while awaiting, got %q", res.Text)
	}
	c := res.Choice
	if c.ChatID != target.ChatID || c.MessageID != target.MessageID {
		t.Errorf("expected choice bound to target, got %+v", c)
	}
	wantLabels := []string{"Александр (@alex)", "Александра (@sasha_a)"}
	for i, o := range c.Options {
		if o.Label != wantLabels[i] {
			t.Errorf("expected label %q, got %q", wantLabels[i], o.Label)
		}
		if o.FoundName != "Саш" {
			t.Errorf("expected option to carry found name, got %q", o.FoundName)
		}
	}
	if store.Len() != 1 {
		t.Errorf("expected stored choice, got %d", store.Len())
	}
}

func TestDiscardRemovesChoice(t *testing.T) {
	store := provider.NewMemoryStore[PendingChoice]()
	e := newTestEngine(store)
	s := NewSelector(store, nil)
	ctx := context.Background()

	res, _ := e.Resolve(ctx, target, "Саш, привет", MatchResult{FoundName: "Саш", Candidates: []Participant{
		{ID: 2, DisplayName: "Александр", Handle: "alex"},
		{ID: 4, DisplayName: "Александра", Handle: "sasha_a"},
	}})
	if err := e.Discard(ctx, res.Choice.ID); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if store.Len() != 0 {
		t.Error("expected choice removed")
	}
	if _, err := s.Select(ctx, res.Choice.ID, "alex"); apperrors.CodeOf(err) != apperrors.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND after discard, got %v", err)
	}
}

// Selecting an option must produce what auto resolution would have produced
// for that candidate alone.
func TestSelect_MatchesAutoResolution(t *testing.T) {
	store := provider.NewMemoryStore[PendingChoice]()
	e := newTestEngine(store)
	s := NewSelector(store, nil)
	ctx := context.Background()

	alex := Participant{ID: 2, DisplayName: "Александр", Handle: "alex"}
	sasha := Participant{ID: 4, DisplayName: "Александра", Handle: "sasha_a"}
	text := "Саш, ты где?"

	res, _ := e.Resolve(ctx, target, text, MatchResult{FoundName: "Саш", Candidates: []Participant{alex, sasha}})
	auto, _ := e.Resolve(ctx, target, text, MatchResult{FoundName: "Саш", Candidates: []Participant{sasha}})

	sel, err := s.Select(ctx, res.Choice.ID, "sasha_a")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.Text != auto.Text {
		t.Errorf("expected %q, got %q", auto.Text, sel.Text)
	}
	if sel.Option.Handle != "sasha_a" {
		t.Errorf("unexpected option %+v", sel.Option)
	}
	if store.Len() != 0 {
		t.Error("expected choice removed after selection")
	}

	_, err = s.Select(ctx, res.Choice.ID, "alex")
	if apperrors.CodeOf(err) != apperrors.ErrCodeNotFound {
		t.Errorf("expected second selection to be NOT_FOUND, got %v", err)
	}
}

func TestSelect_UnknownHandleKeepsChoice(t *testing.T) {
	store := provider.NewMemoryStore[PendingChoice]()
	e := newTestEngine(store)
	s := NewSelector(store, nil)
	ctx := context.Background()

	res, _ := e.Resolve(ctx, target, "Саш, привет", MatchResult{FoundName: "Саш", Candidates: []Participant{
		{ID: 2, DisplayName: "Александр", Handle: "alex"},
		{ID: 4, DisplayName: "Александра", Handle: "sasha_a"},
	}})

	_, err := s.Select(ctx, res.Choice.ID, "kostya")
	if apperrors.CodeOf(err) != apperrors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if _, err := s.Pending(ctx, res.Choice.ID); err != nil {
		t.Errorf("expected choice still pending, got %v", err)
	}
}

func TestSelect_ConcurrentExactlyOnce(t *testing.T) {
	store := provider.NewMemoryStore[PendingChoice]()
	e := newTestEngine(store)
	s := NewSelector(store, nil)
	ctx := context.Background()

	res, _ := e.Resolve(ctx, target, "Саш, привет", MatchResult{FoundName: "Саш", Candidates: []Participant{
		{ID: 2, DisplayName: "Александр", Handle: "alex"},
		{ID: 4, DisplayName: "Александра", Handle: "sasha_a"},
	}})

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for _, h := range []string{"alex", "sasha_a", "alex", "sasha_a"} {
		wg.Add(1)
		go func(handle string) {
			defer wg.Done()
			if _, err := s.Select(ctx, res.Choice.ID, handle); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(h)
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("expected exactly one successful selection, got %d", wins)
	}
}

func TestResolve_ChoiceExpires(t *testing.T) {
	store := provider.NewMemoryStore[PendingChoice]()
	e := NewEngine(store, nil, WithChoiceTTL(10*time.Millisecond))
	s := NewSelector(store, nil)
	ctx := context.Background()

	res, _ := e.Resolve(ctx, target, "Саш, привет", MatchResult{FoundName: "Саш", Candidates: []Participant{
		{ID: 2, DisplayName: "Александр", Handle: "alex"},
		{ID: 4, DisplayName: "Александра", Handle: "sasha_a"},
	}})
	time.Sleep(30 * time.Millisecond)

	if _, err := s.Select(ctx, res.Choice.ID, "alex"); apperrors.CodeOf(err) != apperrors.ErrCodeNotFound {
		t.Errorf("expected expired choice to be NOT_FOUND, got %v", err)
	}
}
