package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/voicemention/resilience"
)

func TestAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-gladia-key"); got != "secret" {
			t.Errorf("expected x-gladia-key secret, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := New(Config{BaseURL: srv.URL, Auth: APIKeyAuthHeader("secret", "x-gladia-key")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/transcription/1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAbsolutePathIgnoresBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/result/42" {
			t.Errorf("expected /result/42, got %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: "http://unused.invalid"})
	if _, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: srv.URL + "/result/42"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMultipartContentTypeWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
		}
		if r.FormValue("lang") != "ru" {
			t.Errorf("expected lang field, got %q", r.FormValue("lang"))
		}
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL, Headers: map[string]string{"Content-Type": "application/json"}})
	_, err := a.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/upload",
		Body: &MultipartBody{
			Fields: map[string]string{"lang": "ru"},
			Files:  []FileField{{FieldName: "audio", FileName: "a.ogg", Data: []byte("x")}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMultipartRequiresFieldName(t *testing.T) {
	a, _ := New(Config{BaseURL: "http://localhost"})
	_, err := a.Do(context.Background(), Request{
		Method: http.MethodPost,
		Body:   &MultipartBody{Files: []FileField{{FileName: "a.ogg"}}},
	})
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestStatusErrorCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad audio"))
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL})
	resp, err := a.Do(context.Background(), Request{Method: http.MethodPost, Path: "/upload"})
	if err == nil {
		t.Fatal("expected error")
	}
	status, body := StatusOf(err)
	if status != http.StatusBadRequest || string(body) != "bad audio" {
		t.Errorf("expected 400 'bad audio', got %d %q", status, body)
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected response alongside error, got %+v", resp)
	}
}

func TestStatusOfWithoutResponse(t *testing.T) {
	status, body := StatusOf(errors.New("dial failed"))
	if status != 0 || body != nil {
		t.Errorf("expected zero values, got %d %q", status, body)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	retry := DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	retry.Jitter = 0
	a, _ := New(Config{BaseURL: srv.URL, Retry: retry})

	resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/models"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL, Retry: DefaultRetryConfig()})
	if _, err := a.Do(context.Background(), Request{Method: http.MethodPost, Path: "/x"}); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestCircuitBreakerMakesAdapterUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cb := resilience.DefaultCircuitBreakerConfig("llm")
	cb.MaxFailures = 2
	a, _ := New(Config{BaseURL: srv.URL, CircuitBreaker: &cb})

	for i := 0; i < 2; i++ {
		a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	}
	if a.IsAvailable(context.Background()) {
		t.Error("expected adapter to be unavailable with an open circuit")
	}
	if _, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	for _, auth := range []*AuthConfig{APIKeyAuthHeader("", "x-gladia-key"), BearerAuth("")} {
		cfg := Config{Auth: auth}
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for %s auth without a credential", auth.Header)
		}
	}
}
