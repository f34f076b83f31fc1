package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tirtalabs/tirta/pkg/apperr"
)

// AbortWithError translates domain failures into HTTP responses. Untyped
// errors are reported as 500 without leaking internals.
func AbortWithError(c *gin.Context, err error) {
	var typed *apperr.Error
	if errors.As(err, &typed) {
		c.AbortWithStatusJSON(statusFor(typed.Kind), gin.H{
			"error": gin.H{
				"code":    typed.Code,
				"message": typed.Message,
			},
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newValidationError(field, code, message string) error {
	return apperr.Validation(code, field+": "+message)
}
