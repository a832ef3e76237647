package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicemention/auth"
	"github.com/kbukum/voicemention/auth/authctx"
	"github.com/kbukum/voicemention/auth/jwt"
	apperrors "github.com/kbukum/voicemention/errors"
)

// Auth requires a valid "Authorization: Bearer <token>" header. Parsed
// claims are stored on the request context through authctx.
func Auth(validator auth.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, apperrors.Unauthorized("authorization header required"))
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abort(c, apperrors.Unauthorized("invalid authorization header format"))
			return
		}
		claims, err := validator.ValidateToken(token)
		if err != nil {
			if jwt.IsExpired(err) {
				abort(c, apperrors.TokenExpired())
				return
			}
			abort(c, apperrors.InvalidToken().WithCause(err))
			return
		}
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), claims))
		c.Next()
	}
}
