package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    apperror.Kind  `json:"type"`
	Details map[string]any `json:"details,omitempty"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it logs the cause and responds 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{
			Error:   appErr.Message,
			Type:    appErr.Kind,
			Details: appErr.Details,
		})
		return
	}

	slog.ErrorContext(c.Request.Context(), "unhandled error",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	Internal(c)
}

// Internal responds with the generic 500 body without leaking internal state.
func Internal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Type:  apperror.KindInternal,
	})
}
