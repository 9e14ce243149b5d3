package middleware

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/wexxqt/ecatsulta-api/pkg/errors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler converts errors attached to the gin context into JSON
// responses. Upstream failures are logged with their wrapped detail but
// surface as a generic message.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		traceID := c.GetString(ContextRequestID)

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", traceID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Msg("Request error")
		}

		lastErr := c.Errors.Last()
		status, message := statusFor(lastErr.Err)

		c.JSON(status, ErrorResponse{
			Code:    status,
			Message: message,
			TraceID: traceID,
		})
	}
}

func statusFor(err error) (int, string) {
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError, "internal server error"
	}

	switch appErr.Code {
	case apperrors.ErrNotFound:
		return http.StatusNotFound, appErr.Message
	case apperrors.ErrBadRequest:
		return http.StatusBadRequest, appErr.Message
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized, appErr.Message
	case apperrors.ErrForbidden:
		return http.StatusForbidden, appErr.Message
	case apperrors.ErrUpstream:
		// The wrapped store error stays in the logs only.
		return http.StatusBadGateway, "upstream service unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
