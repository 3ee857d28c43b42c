package response

import (
	"net/http"

	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/apperrors"
	"github.com/HemangKanojiya20/event-ticket-booking/pkg/logger"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// StatusCodeFor maps an error kind to its HTTP status
func StatusCodeFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindContention, apperrors.KindInsufficientInventory, apperrors.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err using the standard envelope. Unexpected errors are
// reported with fallback instead of their internal message.
func RespondError(c *gin.Context, err error, fallback string) {
	code := StatusCodeFor(err)
	kind := apperrors.KindOf(err)

	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.GetDefault().LogHTTPError(c, err, code)
		message = fallback
	}

	RespondJSON(c, "error", code, message, nil, ErrorDetail{Kind: string(kind), Message: message})
}
