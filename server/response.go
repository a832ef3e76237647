package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voicemention/errors"
)

// DataResponse wraps every successful JSON body as {"data": ...}.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError answers with the AppError's status and body. Errors
// that are not AppErrors turn into a 500.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

func RespondOK(c *gin.Context, data any) { c.JSON(http.StatusOK, DataResponse{Data: data}) }

func RespondNoContent(c *gin.Context) { c.Status(http.StatusNoContent) }
