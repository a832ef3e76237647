package voice

import (
	"context"
	"fmt"

	"github.com/kbukum/voicemention/mention"
	"github.com/kbukum/voicemention/transcription"
)

// Request is one voice message to process.
type Request struct {
	RequestID string
	ChatID    int64
	ChatTitle string
	// MessageID is the voice message; the first chunk replies to it.
	MessageID int64
	Sender    mention.Participant
	Audio     transcription.AudioPayload
}

// Chunk is one delivered piece of a transcript. Index is 1-based.
type Chunk struct {
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Text    string `json:"text"`
	ReplyTo int64  `json:"reply_to,omitempty"`
}

// Header is the label shown above the chunk text.
func (c Chunk) Header() string {
	if c.Total <= 1 {
		return "✨ Транскрибация:"
	}
	return fmt.Sprintf("✨ Часть %d/%d:", c.Index, c.Total)
}

// Render returns the message body as shown to the chat.
func (c Chunk) Render() string {
	return c.Header() + "\n\n" + c.Text
}

// Usage is one successful transcription, for stats.
type Usage struct {
	UserID    int64
	ChatID    int64
	MessageID int64
	Duration  float64
}

// Result describes what Process delivered.
type Result struct {
	Transcript  transcription.Transcript `json:"-"`
	Chunks      []Chunk                  `json:"chunks"`
	Resolution  mention.Resolution       `json:"-"`
	Undelivered int                      `json:"undelivered,omitempty"`
}

// RosterSource lists the participants known in a chat.
type RosterSource interface {
	Roster(ctx context.Context, chatID int64) ([]mention.Participant, error)
}

// UsageRecorder stores completed transcriptions.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, u Usage) error
}

// MemberRecorder registers the sender as a chat member.
type MemberRecorder interface {
	TouchMember(ctx context.Context, chatID int64, chatTitle string, p mention.Participant) error
}

// NameMatcher finds the leading name of address in a text.
type NameMatcher interface {
	Match(ctx context.Context, text string, roster []mention.Participant) mention.MatchResult
}

// Messenger is the chat surface a run reports to. Status replaces the
// single processing indicator; ClearStatus removes it.
type Messenger interface {
	Status(ctx context.Context, text string) error
	ClearStatus(ctx context.Context) error
	Deliver(ctx context.Context, c Chunk) error
	PresentChoice(ctx context.Context, c mention.PendingChoice) error
}
