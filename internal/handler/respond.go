package handler

import (
	"errors"
	"net/http"

	"campushub/internal/apperr"
	"campushub/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError translates a service error into an HTTP response. Internal
// detail is logged server-side; the client only ever sees the user-safe
// message, and 500-class failures get a generic body.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.KindValidation, apperr.KindConflict:
			c.JSON(http.StatusBadRequest, model.NewErrorResponse(appErr.Message))
			return
		case apperr.KindAuthentication:
			c.JSON(http.StatusUnauthorized, model.NewErrorResponse(appErr.Message))
			return
		case apperr.KindAuthorization:
			c.JSON(http.StatusForbidden, model.NewErrorResponse(appErr.Message))
			return
		case apperr.KindNotFound:
			c.JSON(http.StatusNotFound, model.NewErrorResponse(appErr.Message))
			return
		default:
			zap.L().Error("internal error", zap.String("path", c.FullPath()), zap.Error(appErr))
			c.JSON(http.StatusInternalServerError, model.NewErrorResponse(appErr.Message))
			return
		}
	}

	zap.L().Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, model.NewErrorResponse("Server Error"))
}

// userMessage extracts the user-safe message from a service error without
// leaking wrapped internal detail.
func userMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Server Error"
}
