package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/authgate/errors"
)

// RespondWithError aborts c with the flat error body for err. Errors that
// carry no *apperrors.AppError become a 500 with a generic message; the
// original error is still attached to c for the request logger.
func RespondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	ae := apperrors.Wrap(err)
	c.AbortWithStatusJSON(ae.HTTPStatus, ae.ToResponse())
}

func RespondOK(c *gin.Context, body any) { c.JSON(http.StatusOK, body) }

func RespondCreated(c *gin.Context, body any) { c.JSON(http.StatusCreated, body) }
