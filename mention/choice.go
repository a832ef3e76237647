package mention

import (
	"context"

	apperrors "github.com/kbukum/voicemention/errors"
	"github.com/kbukum/voicemention/logger"
	"github.com/kbukum/voicemention/provider"
)

// ChoiceStore keeps pending choices by key.
type ChoiceStore = provider.ContextStore[PendingChoice]

const choiceKeyPrefix = "mention:choice:"

func choiceKey(id string) string { return choiceKeyPrefix + id }

// Selection is the applied outcome of a choice.
type Selection struct {
	Choice PendingChoice
	Option Option
	Text   string
}

// Selector consumes pending choices.
type Selector struct {
	store ChoiceStore
	log   *logger.Logger
}

func NewSelector(store ChoiceStore, log *logger.Logger) *Selector {
	if log == nil {
		log = logger.NewNop()
	}
	return &Selector{store: store, log: log.WithComponent("selector")}
}

// Pending returns the choice without consuming it.
func (s *Selector) Pending(ctx context.Context, id string) (*PendingChoice, error) {
	choice, err := s.store.Load(ctx, choiceKey(id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if choice == nil {
		return nil, apperrors.NotFound("choice", id)
	}
	return choice, nil
}

// Select applies handle to the choice's text and removes the choice. An
// unknown handle leaves the choice in place. Of two concurrent selections
// only one succeeds; the other sees NotFound.
func (s *Selector) Select(ctx context.Context, id, handle string) (*Selection, error) {
	choice, err := s.Pending(ctx, id)
	if err != nil {
		return nil, err
	}
	opt, ok := choice.Option(handle)
	if !ok {
		return nil, apperrors.InvalidInput("handle", "not one of the offered options")
	}

	taken, err := s.store.Take(ctx, choiceKey(id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if taken == nil {
		return nil, apperrors.NotFound("choice", id)
	}

	text, applied := Rewrite(taken.Text, opt.FoundName, opt.Handle)
	s.log.WithContext(ctx).Info("choice selected", logger.Fields(
		"choice_id", id,
		"handle", opt.Handle,
		"applied", applied,
	))
	return &Selection{Choice: *taken, Option: opt, Text: text}, nil
}
