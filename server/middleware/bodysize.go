package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicemention/util"
)

const defaultMaxBodySize = 25 << 20

// BodySizeLimit makes reads past maxSize ("25MB", "512KB") fail.
func BodySizeLimit(maxSize string) gin.HandlerFunc {
	limit := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
