// Package middleware holds the Gin middleware of the API server. The
// server installs Recovery, RequestID, CORS, BodySizeLimit and
// RequestLogger on the engine; Auth and RateLimit go on route groups.
package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voicemention/errors"
)

// abort ends the chain with the standard error body.
func abort(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
