package mention

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/kbukum/voicemention/errors"
	"github.com/kbukum/voicemention/llm"
	"github.com/kbukum/voicemention/logger"
	"github.com/kbukum/voicemention/observability"
	"github.com/kbukum/voicemention/provider"
)

const systemPrompt = `You analyse transcribed Russian voice messages from a group chat.
Decide whether the text begins with a name used to address someone, and if so
which chat participants that name can refer to.

Rules:
- Only a name at the very beginning of the text counts. Ignore names later on.
- Diminutive and colloquial forms match their full names: Костя is Константин,
  Саша or Саня is Александр or Александра, Женя is Евгений or Евгения,
  Лёша is Алексей, Ксюша is Ксения, Дима is Дмитрий.
- Compare against the "name" of each participant. A nickname matches every
  participant whose full name it can stand for.
- Return found_name exactly as it is written at the start of the text.
- If no name of address is present, return null and an empty list.

Reply with one JSON object and nothing else:
{"found_name": string or null, "matching_ids": [participant ids]}`

// ErrInvalidReply marks a model reply that does not fit the expected schema.
var ErrInvalidReply = errors.New("mention: invalid model reply")

// MatchResult is the outcome of Match. An empty FoundName means no name of
// address was detected.
type MatchResult struct {
	FoundName  string
	Candidates []Participant
}

// None reports whether nothing can be resolved.
func (r MatchResult) None() bool {
	return r.FoundName == "" || len(r.Candidates) == 0
}

// Completer is the LLM contract the matcher needs.
type Completer = provider.RequestResponse[llm.CompletionRequest, llm.CompletionResponse]

// Matcher delegates name detection to an LLM. It never fails: transport and
// parse errors are logged and reported as no match.
type Matcher struct {
	llm Completer
	log *logger.Logger
}

func NewMatcher(completer Completer, log *logger.Logger) *Matcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Matcher{llm: completer, log: log.WithComponent("matcher")}
}

type matchPayload struct {
	Text         string        `json:"text"`
	Participants []Participant `json:"participants"`
}

type matchReply struct {
	FoundName   *string  `json:"found_name"`
	MatchingIDs *[]int64 `json:"matching_ids"`
}

// Match finds the leading name in text and the roster entries it can refer to.
func (m *Matcher) Match(ctx context.Context, text string, roster []Participant) MatchResult {
	roster = normalizeRoster(roster)
	if len(roster) == 0 || strings.TrimSpace(text) == "" {
		return MatchResult{}
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanMatch)
	defer span.End()

	payload, err := json.Marshal(matchPayload{Text: text, Participants: roster})
	if err != nil {
		return m.degrade(ctx, "encode prompt", err)
	}

	req := llm.UserPrompt(systemPrompt, string(payload))
	req.Temperature = llm.Temperature(0)
	req.JSONMode = true
	resp, err := m.llm.Execute(ctx, req)
	if err != nil {
		return m.degrade(ctx, "completion failed", err)
	}

	reply, err := parseReply(resp.Content)
	if err != nil {
		return m.degrade(ctx, "unparseable reply", err)
	}

	result := resolveIDs(reply, roster)
	observability.SetSpanAttribute(ctx, observability.AttrCandidates, len(result.Candidates))
	m.log.WithContext(ctx).Debug("name matched", logger.Fields(
		"found_name", result.FoundName,
		"candidates", len(result.Candidates),
	))
	return result
}

func (m *Matcher) degrade(ctx context.Context, reason string, err error) MatchResult {
	appErr := apperrors.MatchingDegraded(reason, err)
	observability.SetSpanError(ctx, appErr)
	m.log.WithContext(ctx).Warn(appErr.Message, logger.MergeWithError(
		logger.Fields(logger.FieldStage, apperrors.StageMatch, "code", string(appErr.Code)), err))
	return MatchResult{}
}

// parseReply decodes the reply strictly: unknown fields, trailing data and
// a missing matching_ids all reject it.
func parseReply(content string) (*matchReply, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(llm.ExtractJSON(content))))
	dec.DisallowUnknownFields()

	var reply matchReply
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidReply)
	}
	if reply.MatchingIDs == nil {
		return nil, fmt.Errorf("%w: matching_ids is required", ErrInvalidReply)
	}
	return &reply, nil
}

// resolveIDs keeps roster order and drops IDs the roster does not contain.
func resolveIDs(reply *matchReply, roster []Participant) MatchResult {
	if reply.FoundName == nil || strings.TrimSpace(*reply.FoundName) == "" {
		return MatchResult{}
	}
	wanted := make(map[int64]bool, len(*reply.MatchingIDs))
	for _, id := range *reply.MatchingIDs {
		wanted[id] = true
	}
	result := MatchResult{FoundName: strings.TrimSpace(*reply.FoundName)}
	for _, p := range roster {
		if wanted[p.ID] {
			result.Candidates = append(result.Candidates, p)
		}
	}
	return result
}
