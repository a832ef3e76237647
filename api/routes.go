package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicemention/auth"
	"github.com/kbukum/voicemention/server/middleware"
)

// Options configures Mount.
type Options struct {
	// Validator guards /api/v1 with bearer tokens. Nil leaves it open.
	Validator auth.TokenValidator
	// VoicePerMinute limits voice requests per chat (default: 20).
	VoicePerMinute int
}

// Mount registers the API under /api/v1.
func Mount(r gin.IRouter, h *Handler, opts Options) {
	if opts.VoicePerMinute <= 0 {
		opts.VoicePerMinute = 20
	}
	v1 := r.Group("/api/v1")
	if opts.Validator != nil {
		v1.Use(middleware.Auth(opts.Validator))
	}

	v1.GET("/start", h.Start)
	v1.POST("/chats/:chat_id/members", h.Members)
	v1.POST("/chats/:chat_id/voice", middleware.RateLimit(middleware.RateLimitConfig{
		PerMinute: opts.VoicePerMinute,
		KeyFunc:   func(c *gin.Context) string { return c.Param("chat_id") },
	}), h.Voice)
	v1.POST("/choices/:choice_id/select", h.Select)
	v1.GET("/users/:user_id/stats", h.Stats)
}
