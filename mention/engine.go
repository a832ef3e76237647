package mention

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/voicemention/logger"
)

// Outcome is the state a transcript ends up in after resolution.
type Outcome string

const (
	Unresolved     Outcome = "unresolved"
	AutoResolved   Outcome = "auto"
	AwaitingChoice Outcome = "choice"
)

// Option is one selectable candidate of a PendingChoice.
type Option struct {
	Label     string `json:"label"`
	FoundName string `json:"found_name"`
	Handle    string `json:"handle"`
}

// PendingChoice is an outstanding "pick one" prompt. Text is the transcript
// as currently displayed, which is what a selection rewrites.
type PendingChoice struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	MessageID int64     `json:"message_id"`
	FoundName string    `json:"found_name"`
	Text      string    `json:"text"`
	Options   []Option  `json:"options"`
	CreatedAt time.Time `json:"created_at"`
}

// Option returns the option for handle, if there is one.
func (c *PendingChoice) Option(handle string) (Option, bool) {
	for _, o := range c.Options {
		if o.Handle == handle {
			return o, true
		}
	}
	return Option{}, false
}

// Resolution is the result of applying a MatchResult to a text. Text is
// the text to deliver; Choice is set only for AwaitingChoice.
type Resolution struct {
	Outcome Outcome
	Text    string
	Handle  string
	Choice  *PendingChoice
}

// Target identifies the delivered message a choice is attached to.
type Target struct {
	ChatID    int64
	MessageID int64
}

// Engine turns match results into resolutions and stores pending choices.
type Engine struct {
	store ChoiceStore
	ttl   time.Duration
	newID func() string
	now   func() time.Time
	log   *logger.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithChoiceTTL sets how long an unanswered choice is kept. Zero keeps it
// until it is selected.
func WithChoiceTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) { e.ttl = ttl }
}

func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) { e.newID = fn }
}

func NewEngine(store ChoiceStore, log *logger.Logger, opts ...EngineOption) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	e := &Engine{
		store: store,
		ttl:   DefaultChoiceTTL,
		newID: uuid.NewString,
		now:   time.Now,
		log:   log.WithComponent("mention"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultChoiceTTL bounds how long an abandoned choice lingers.
const DefaultChoiceTTL = 48 * time.Hour

// Resolve applies match to text. A single candidate rewrites the text; more
// than one leaves it intact and saves a PendingChoice.
func (e *Engine) Resolve(ctx context.Context, target Target, text string, match MatchResult) (Resolution, error) {
	if match.None() {
		return Resolution{Outcome: Unresolved, Text: text}, nil
	}

	if len(match.Candidates) == 1 {
		handle := match.Candidates[0].Handle
		out, ok := Rewrite(text, match.FoundName, handle)
		if !ok {
			e.log.WithContext(ctx).Debug("name not at start of text, left unchanged",
				logger.Fields("found_name", match.FoundName))
		}
		return Resolution{Outcome: AutoResolved, Text: out, Handle: handle}, nil
	}

	choice := &PendingChoice{
		ID:        e.newID(),
		ChatID:    target.ChatID,
		MessageID: target.MessageID,
		FoundName: match.FoundName,
		Text:      text,
		CreatedAt: e.now(),
	}
	for _, p := range match.Candidates {
		choice.Options = append(choice.Options, Option{
			Label:     p.Label(),
			FoundName: match.FoundName,
			Handle:    p.Handle,
		})
	}
	if err := e.store.Save(ctx, choiceKey(choice.ID), choice, e.ttl); err != nil {
		return Resolution{}, err
	}
	return Resolution{Outcome: AwaitingChoice, Text: text, Choice: choice}, nil
}

// Discard drops a saved choice that was never shown.
func (e *Engine) Discard(ctx context.Context, id string) error {
	return e.store.Delete(ctx, choiceKey(id))
}
