package helpers

import (
	"errors"
	"log"
	"net/http"

	"github.com/farellandr/eventhub/internal/services"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Kind    string   `json:"kind,omitempty"`
	Details []string `json:"details,omitempty"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

// StatusForKind maps a service error kind to its HTTP status.
func StatusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindConflict, services.KindCapacityFull:
		return http.StatusConflict
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// RespondWithServiceError writes err as a JSON error body. Storage failures
// are logged and reported with a generic message.
func RespondWithServiceError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	statusCode := StatusForKind(kind)

	var e *services.Error
	if kind == services.KindInternal || !errors.As(err, &e) {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(statusCode, ErrorResponse{
			Error:   HTTPStatusText(statusCode),
			Message: "Something went wrong. Please try again later.",
			Kind:    string(services.KindInternal),
		})
		return
	}

	c.JSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: e.Message,
		Kind:    string(e.Kind),
		Details: e.Details,
	})
}
