package gladia

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/kbukum/voicemention/errors"
	"github.com/kbukum/voicemention/transcription"
)

func newTestClient(t *testing.T, handler http.Handler, mutate ...func(*Config)) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL, APIKey: "test-key", PollInterval: 10 * time.Millisecond}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, srv
}

func expectCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError with code %s, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
	return appErr
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{APIKey: "k"}
	cfg.ApplyDefaults()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected base url %q, got %q", DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.KeyHeader != "x-gladia-key" {
		t.Errorf("expected key header x-gladia-key, got %q", cfg.KeyHeader)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("expected 1s poll interval, got %v", cfg.PollInterval)
	}
	if cfg.MaxWait != 0 {
		t.Errorf("expected unbounded max wait, got %v", cfg.MaxWait)
	}
	if opts := cfg.SubmitOptions(); opts.Language != "ru" || opts.Diarization {
		t.Errorf("unexpected submit options %+v", opts)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestUpload_SendsMultipartAudio(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("x-gladia-key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		file, hdr, err := r.FormFile("audio")
		if err != nil {
			t.Fatalf("expected audio part: %v", err)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "OggS" {
			t.Errorf("expected audio bytes, got %q", data)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "audio/ogg" {
			t.Errorf("expected audio/ogg part, got %q", ct)
		}
		_, _ = w.Write([]byte(`{"audio_url":"https://files.example/a1"}`))
	}))

	h, err := c.Upload(context.Background(), transcription.AudioPayload{Data: []byte("OggS"), FileName: "voice.ogg"})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if h.AudioURL != "https://files.example/a1" {
		t.Errorf("unexpected audio url %q", h.AudioURL)
	}
}

func TestUpload_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"missing audio_url", http.StatusOK, `{"other":"x"}`},
		{"created is not ok", http.StatusCreated, `{"audio_url":"https://files.example/a1"}`},
		{"unauthorized", http.StatusUnauthorized, `{"message":"bad key"}`},
		{"not json", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var submits atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			mux.HandleFunc("/transcription", func(w http.ResponseWriter, r *http.Request) {
				submits.Add(1)
			})
			c, _ := newTestClient(t, mux)

			_, err := c.Upload(context.Background(), transcription.AudioPayload{Data: []byte("x")})
			appErr := expectCode(t, err, apperrors.ErrCodeUploadFailed)
			if appErr.Details["status"] != tt.status {
				t.Errorf("expected status %d in details, got %v", tt.status, appErr.Details["status"])
			}
			if appErr.Details["body"] != tt.body {
				t.Errorf("expected body %q in details, got %v", tt.body, appErr.Details["body"])
			}
			if submits.Load() != 0 {
				t.Error("expected no submit call")
			}
		})
	}
}

func TestUpload_ConnectionFailure(t *testing.T) {
	c, srv := newTestClient(t, http.NotFoundHandler())
	srv.Close()

	_, err := c.Upload(context.Background(), transcription.AudioPayload{Data: []byte("x")})
	appErr := expectCode(t, err, apperrors.ErrCodeUploadFailed)
	if _, ok := appErr.Details["status"]; ok {
		t.Error("expected no status without a response")
	}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"ok", http.StatusOK, `{"id":"j1","result_url":"https://api.example/r/j1"}`, false},
		{"created", http.StatusCreated, `{"id":"j1","result_url":"https://api.example/r/j1"}`, false},
		{"no result_url", http.StatusCreated, `{"id":"j1"}`, true},
		{"rejected", http.StatusUnprocessableEntity, `{"message":"bad language"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got submitRequest
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/transcription" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			job, err := c.Submit(context.Background(),
				transcription.UploadHandle{AudioURL: "https://files.example/a1"},
				transcription.SubmitOptions{Language: "ru", Diarization: true})

			if got.AudioURL != "https://files.example/a1" || got.Language != "ru" || !got.Diarization {
				t.Errorf("unexpected submit body %+v", got)
			}
			if tt.wantErr {
				expectCode(t, err, apperrors.ErrCodeSubmitFailed)
				return
			}
			if err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
			if job.ResultURL != "https://api.example/r/j1" || job.ID != "j1" {
				t.Errorf("unexpected job %+v", job)
			}
		})
	}
}

// resultServer answers each poll with the next body in order, repeating the
// last one.
func resultServer(t *testing.T, status int, bodies ...string) (*Client, transcription.Job, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if n >= len(bodies) {
			n = len(bodies) - 1
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(bodies[n]))
	}))
	return c, transcription.Job{ID: "j1", ResultURL: srv.URL + "/v2/pre-recorded/j1"}, &calls
}

func TestPoll_DoneAfterPending(t *testing.T) {
	c, job, calls := resultServer(t, http.StatusOK,
		`{"status":"queued"}`,
		`{"status":"processing"}`,
		`{"status":"done","result":{"metadata":{"audio_duration":12.5},"transcription":{"full_transcript":"Костя, привет"}}}`,
	)

	tr, err := c.Poll(context.Background(), job)
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if tr.Text != "Костя, привет" {
		t.Errorf("unexpected text %q", tr.Text)
	}
	if tr.Duration != 12.5 {
		t.Errorf("expected duration 12.5, got %v", tr.Duration)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 polls, got %d", calls.Load())
	}
}

func TestPoll_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"job error", http.StatusOK, `{"status":"error"}`},
		{"done without transcription", http.StatusOK, `{"status":"done","result":{"metadata":{"audio_duration":1}}}`},
		{"done without result", http.StatusOK, `{"status":"done"}`},
		{"non-200", http.StatusNotFound, `{"message":"unknown job"}`},
		{"server error", http.StatusInternalServerError, `oops`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, job, calls := resultServer(t, tt.status, tt.body)

			_, err := c.Poll(context.Background(), job)
			appErr := expectCode(t, err, apperrors.ErrCodeTranscriptionFailed)
			if apperrors.StageOf(appErr) != apperrors.StagePoll {
				t.Errorf("expected poll stage, got %q", apperrors.StageOf(appErr))
			}
			if calls.Load() != 1 {
				t.Errorf("expected a single poll, got %d", calls.Load())
			}
		})
	}
}

func TestPoll_UnboundedWaitsForContext(t *testing.T) {
	c, job, calls := resultServer(t, http.StatusOK, `{"status":"processing"}`)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	_, err := c.Poll(ctx, job)
	if err == nil {
		t.Fatal("expected error once the context ends")
	}
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context deadline in chain, got %v", err)
	}
	if apperrors.CodeOf(err) == apperrors.ErrCodeTranscriptionTimeout {
		t.Error("caller cancellation must not be reported as a max-wait timeout")
	}
	if calls.Load() < 2 {
		t.Errorf("expected repeated polling, got %d calls", calls.Load())
	}
}

func TestPoll_MaxWait(t *testing.T) {
	c, job, _ := resultServer(t, http.StatusOK, `{"status":"queued"}`)
	c.cfg.MaxWait = 50 * time.Millisecond

	_, err := c.Poll(context.Background(), job)
	appErr := expectCode(t, err, apperrors.ErrCodeTranscriptionTimeout)
	if appErr.Details["max_wait"] != "50ms" {
		t.Errorf("expected max_wait detail, got %v", appErr.Details["max_wait"])
	}
}
