package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicemention/component"
	"github.com/kbukum/voicemention/server/middleware"
)

func newTestServer(checker func(context.Context) []component.Health) *Server {
	gin.SetMode(gin.TestMode)
	s := New(Config{Host: "127.0.0.1"}, nil)
	s.RegisterDefaultEndpoints("voicemention", checker)
	return s
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.MaxBodySize != "25MB" {
		t.Errorf("expected 25MB body limit, got %q", cfg.MaxBodySize)
	}
	if err := (&Config{Port: 70000}).Validate(); err == nil {
		t.Error("expected invalid port to fail validation")
	}
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		health []component.Health
		status int
		want   string
	}{
		{"healthy", []component.Health{{Name: "db", Status: component.StatusHealthy}}, http.StatusOK, "healthy"},
		{"degraded", []component.Health{{Name: "db", Status: component.StatusDegraded}}, http.StatusOK, "degraded"},
		{"unhealthy", []component.Health{
			{Name: "db", Status: component.StatusDegraded},
			{Name: "redis", Status: component.StatusUnhealthy},
		}, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(func(context.Context) []component.Health { return tt.health })
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
			var body struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Status != tt.want {
				t.Errorf("expected status %q, got %q", tt.want, body.Status)
			}
		})
	}
}

func TestProbesAndRequestID(t *testing.T) {
	s := newTestServer(nil)
	for _, path := range []string{"/live", "/ready", "/info", "/metrics"} {
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rr.Code)
		}
		if rr.Header().Get(middleware.HeaderRequestID) == "" {
			t.Errorf("%s: expected request id header from the middleware stack", path)
		}
	}
}

func TestComponentRoutesAndLifecycle(t *testing.T) {
	s := New(Config{Host: "127.0.0.1", Port: 0}, nil)
	s.config.Port = 0
	s.httpServer.Addr = "127.0.0.1:0"
	s.GinEngine().POST("/api/v1/chats/:chat_id/voice", func(c *gin.Context) {})
	s.RegisterDefaultEndpoints("voicemention", nil)

	c := NewComponent(s)
	routes := c.Routes()
	if len(routes) == 0 || routes[0].Path != "/api/v1/chats/:chat_id/voice" {
		t.Fatalf("expected API route first, got %+v", routes)
	}

	ctx := context.Background()
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/live")
	if err != nil {
		t.Fatalf("GET /live failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from live server, got %d", resp.StatusCode)
	}

	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"github.com/kbukum/voicemention/api.(*Handler).Voice-fm", "Handler.Voice"},
		{"github.com/kbukum/voicemention/server/endpoint.Health.func1", "health"},
	}
	for _, tt := range tests {
		if got := formatHandlerName(tt.in); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
