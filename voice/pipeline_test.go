package voice

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/kbukum/voicemention/errors"
	"github.com/kbukum/voicemention/mention"
	"github.com/kbukum/voicemention/provider"
	"github.com/kbukum/voicemention/transcription"
)

type fakeTranscriber struct {
	uploadErr error
	submitErr error
	pollErr   error
	text      string
	duration  float64
	calls     []string
}

func (f *fakeTranscriber) Name() string                       { return "fake" }
func (f *fakeTranscriber) IsAvailable(_ context.Context) bool { return true }

func (f *fakeTranscriber) Upload(_ context.Context, _ transcription.AudioPayload) (*transcription.UploadHandle, error) {
	f.calls = append(f.calls, "upload")
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &transcription.UploadHandle{AudioURL: "https://files/a"}, nil
}

func (f *fakeTranscriber) Submit(_ context.Context, _ transcription.UploadHandle, _ transcription.SubmitOptions) (*transcription.Job, error) {
	f.calls = append(f.calls, "submit")
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &transcription.Job{ResultURL: "https://api/r/1"}, nil
}

func (f *fakeTranscriber) Poll(ctx context.Context, _ transcription.Job) (*transcription.Transcript, error) {
	f.calls = append(f.calls, "poll")
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	return &transcription.Transcript{Text: f.text, Duration: f.duration}, nil
}

type fakeMatcher struct {
	result mention.MatchResult
	texts  []string
}

func (f *fakeMatcher) Match(_ context.Context, text string, _ []mention.Participant) mention.MatchResult {
	f.texts = append(f.texts, text)
	return f.result
}

type fakeDirectory struct {
	roster    []mention.Participant
	rosterErr error
	usageErr  error
	usages    []Usage
	touched   int
}

func (f *fakeDirectory) Roster(_ context.Context, _ int64) ([]mention.Participant, error) {
	return f.roster, f.rosterErr
}

func (f *fakeDirectory) RecordUsage(_ context.Context, u Usage) error {
	f.usages = append(f.usages, u)
	return f.usageErr
}

func (f *fakeDirectory) TouchMember(_ context.Context, _ int64, _ string, _ mention.Participant) error {
	f.touched++
	return nil
}

type recordingMessenger struct {
	mu       sync.Mutex
	statuses []string
	cleared  bool
	chunks   []Chunk
	choices  []mention.PendingChoice
	events   []string
	failAt   int
}

func (m *recordingMessenger) Status(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, text)
	return nil
}

func (m *recordingMessenger) ClearStatus(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = true
	return nil
}

func (m *recordingMessenger) Deliver(_ context.Context, c Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "deliver")
	if c.Index == m.failAt {
		return errors.New("message too long")
	}
	m.chunks = append(m.chunks, c)
	return nil
}

func (m *recordingMessenger) PresentChoice(_ context.Context, c mention.PendingChoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "choice")
	m.choices = append(m.choices, c)
	return nil
}

type harness struct {
	tr     *fakeTranscriber
	match  *fakeMatcher
	dir    *fakeDirectory
	store  *provider.MemoryStore[mention.PendingChoice]
	pipe   *Pipeline
	sender mention.Participant
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		tr:     &fakeTranscriber{text: "Костя, привет", duration: 4.2},
		match:  &fakeMatcher{},
		dir:    &fakeDirectory{},
		store:  provider.NewMemoryStore[mention.PendingChoice](),
		sender: mention.Participant{ID: 42, DisplayName: "Ксения", Handle: "ksu"},
	}
	p, err := New(cfg, Deps{
		Transcriber: h.tr,
		Matcher:     h.match,
		Engine:      mention.NewEngine(h.store, nil),
		Roster:      h.dir,
		Usage:       h.dir,
		Members:     h.dir,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	h.pipe = p
	return h
}

func (h *harness) request() Request {
	return Request{RequestID: "r1", ChatID: -100, MessageID: 7, Sender: h.sender,
		Audio: transcription.AudioPayload{Data: []byte("OggS"), FileName: "v.ogg"}}
}

func TestProcess_AutoResolves(t *testing.T) {
	h := newHarness(t, Config{})
	h.match.result = mention.MatchResult{FoundName: "Костя", Candidates: []mention.Participant{
		{ID: 1, DisplayName: "Константин", Handle: "kostya"},
	}}
	m := &recordingMessenger{}

	res, err := h.pipe.Process(context.Background(), h.request(), m)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if strings.Join(h.tr.calls, ",") != "upload,submit,poll" {
		t.Errorf("unexpected stage order %v", h.tr.calls)
	}
	want := []string{NoticeStart, NoticeUpload, NoticeSubmit, NoticeWaiting}
	if strings.Join(m.statuses, "|") != strings.Join(want, "|") {
		t.Errorf("unexpected statuses %v", m.statuses)
	}
	if !m.cleared {
		t.Error("expected status indicator removed")
	}
	if len(m.chunks) != 1 || m.chunks[0].Text != "@kostya, привет" {
		t.Fatalf("unexpected delivery %+v", m.chunks)
	}
	if m.chunks[0].ReplyTo != 7 {
		t.Errorf("expected reply to voice message, got %d", m.chunks[0].ReplyTo)
	}
	if res.Resolution.Outcome != mention.AutoResolved {
		t.Errorf("expected auto resolution, got %s", res.Resolution.Outcome)
	}
	if len(h.dir.usages) != 1 || h.dir.usages[0].Duration != 4.2 || h.dir.usages[0].UserID != 42 {
		t.Errorf("unexpected usage %+v", h.dir.usages)
	}
	if h.dir.touched != 1 {
		t.Errorf("expected sender recorded as member, got %d", h.dir.touched)
	}
	if res.Transcript.Text != "Костя, привет" {
		t.Errorf("expected transcript kept intact, got %q", res.Transcript.Text)
	}
}

func TestProcess_ChoiceAfterFirstChunk(t *testing.T) {
	h := newHarness(t, Config{ChunkSize: 6})
	h.tr.text = "Саш, привет, как дела"
	h.match.result = mention.MatchResult{FoundName: "Саш", Candidates: []mention.Participant{
		{ID: 2, DisplayName: "Александр", Handle: "alex"},
		{ID: 4, DisplayName: "Александра", Handle: "sasha_a"},
	}}
	m := &recordingMessenger{}

	res, err := h.pipe.Process(context.Background(), h.request(), m)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(h.match.texts) != 1 || h.match.texts[0] != "Саш, п" {
		t.Errorf("expected matching on the first chunk only, got %v", h.match.texts)
	}
	if len(res.Chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(res.Chunks))
	}
	if m.chunks[0].Text != "Саш, п" {
		t.Errorf("expected first chunk unchanged while awaiting choice, got %q", m.chunks[0].Text)
	}
	if strings.Join(m.events[:2], ",") != "deliver,choice" {
		t.Errorf("expected choice right after first chunk, got %v", m.events)
	}
	if len(m.choices) != 1 || len(m.choices[0].Options) != 2 {
		t.Fatalf("unexpected choices %+v", m.choices)
	}
	if h.store.Len() != 1 {
		t.Error("expected pending choice stored")
	}
	for i, c := range m.chunks {
		if c.Index != i+1 || c.Total != 4 {
			t.Errorf("unexpected chunk order %+v", c)
		}
	}
}

func TestProcess_StageFailures(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*fakeTranscriber)
		code   apperrors.ErrorCode
		notice string
		calls  string
	}{
		{"upload", func(f *fakeTranscriber) { f.uploadErr = apperrors.UploadFailed(200, []byte(`{}`), nil) },
			apperrors.ErrCodeUploadFailed, NoticeUploadFailed, "upload"},
		{"submit", func(f *fakeTranscriber) { f.submitErr = apperrors.SubmitFailed(500, nil, nil) },
			apperrors.ErrCodeSubmitFailed, NoticeSubmitFailed, "upload,submit"},
		{"poll", func(f *fakeTranscriber) {
			f.pollErr = apperrors.TranscriptionFailed("job ended in error", 200, nil, nil)
		},
			apperrors.ErrCodeTranscriptionFailed, NoticeTranscriptionFailed, "upload,submit,poll"},
		{"timeout", func(f *fakeTranscriber) { f.pollErr = apperrors.TranscriptionTimeout(time.Minute, nil) },
			apperrors.ErrCodeTranscriptionTimeout, NoticeGenericFailure, "upload,submit,poll"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Config{})
			tt.setup(h.tr)
			m := &recordingMessenger{}

			res, err := h.pipe.Process(context.Background(), h.request(), m)
			if res != nil {
				t.Error("expected no result")
			}
			if apperrors.CodeOf(err) != tt.code {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
			if got := strings.Join(h.tr.calls, ","); got != tt.calls {
				t.Errorf("expected calls %q, got %q", tt.calls, got)
			}
			if last := m.statuses[len(m.statuses)-1]; last != tt.notice {
				t.Errorf("expected notice %q, got %q", tt.notice, last)
			}
			if len(m.chunks) != 0 || len(h.dir.usages) != 0 {
				t.Error("expected nothing delivered or recorded")
			}
			if len(h.match.texts) != 0 {
				t.Error("expected no matching after a failed stage")
			}
		})
	}
}

func TestProcess_MatchingProblemsDoNotBlockDelivery(t *testing.T) {
	h := newHarness(t, Config{})
	h.dir.rosterErr = errors.New("db down")
	h.dir.usageErr = errors.New("db down")
	m := &recordingMessenger{}

	res, err := h.pipe.Process(context.Background(), h.request(), m)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(m.chunks) != 1 || m.chunks[0].Text != "Костя, привет" {
		t.Errorf("expected verbatim delivery, got %+v", m.chunks)
	}
	if res.Resolution.Outcome != mention.Unresolved {
		t.Errorf("expected unresolved, got %s", res.Resolution.Outcome)
	}
}

func TestProcess_DeliveryContinuesAfterFailure(t *testing.T) {
	h := newHarness(t, Config{ChunkSize: 5})
	h.tr.text = "abcdefghijklmno"
	m := &recordingMessenger{failAt: 2}

	res, err := h.pipe.Process(context.Background(), h.request(), m)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Undelivered != 1 {
		t.Errorf("expected one undelivered chunk, got %d", res.Undelivered)
	}
	if len(m.chunks) != 2 || m.chunks[1].Index != 3 {
		t.Errorf("expected chunks 1 and 3 delivered, got %+v", m.chunks)
	}
}

func TestProcess_ChoiceDroppedWhenFirstChunkUndelivered(t *testing.T) {
	h := newHarness(t, Config{})
	h.tr.text = "Саш, привет"
	h.match.result = mention.MatchResult{FoundName: "Саш", Candidates: []mention.Participant{
		{ID: 2, DisplayName: "Александр", Handle: "alex"},
		{ID: 4, DisplayName: "Александра", Handle: "sasha_a"},
	}}
	m := &recordingMessenger{failAt: 1}

	res, err := h.pipe.Process(context.Background(), h.request(), m)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Undelivered != 1 {
		t.Errorf("expected first chunk undelivered, got %d", res.Undelivered)
	}
	if len(m.choices) != 0 {
		t.Errorf("expected no choice presented, got %+v", m.choices)
	}
	if h.store.Len() != 0 {
		t.Error("expected pending choice removed")
	}
	if res.Resolution.Outcome != mention.Unresolved || res.Resolution.Choice != nil {
		t.Errorf("expected unresolved outcome, got %+v", res.Resolution)
	}
}

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(Config{}, Deps{}); err == nil {
		t.Error("expected error for missing deps")
	}
}

func TestFailureNotice_Wrapped(t *testing.T) {
	err := errors.Join(errors.New("ctx"), apperrors.SubmitFailed(503, nil, nil))
	if FailureNotice(err) != NoticeSubmitFailed {
		t.Errorf("expected submit notice for wrapped error")
	}
	if FailureNotice(errors.New("plain")) != NoticeGenericFailure {
		t.Error("expected generic notice for unknown errors")
	}
}

func TestSelectionAck(t *testing.T) {
	if got := SelectionAck("Саш", "alex"); got != "Имя 'Саш' заменено на @alex" {
		t.Errorf("unexpected ack %q", got)
	}
}
