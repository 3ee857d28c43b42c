package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func TestStatusCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.NotFound("Event not found"), http.StatusNotFound},
		{apperrors.New(apperrors.KindContention, "busy"), http.StatusBadRequest},
		{apperrors.New(apperrors.KindInsufficientInventory, "Only 1 seats available in this row"), http.StatusBadRequest},
		{apperrors.InvalidInput("bad"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", apperrors.NotFound("x")), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
		{apperrors.New(apperrors.KindInternal, "panic"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusCodeFor(tt.err); got != tt.want {
			t.Errorf("StatusCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRespondErrorHidesInternalMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondError(c, errors.New("nil pointer somewhere"), "Failed to process booking")

	var body StandardApiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusInternalServerError || body.Message != "Failed to process booking" {
		t.Errorf("code = %d, message = %q", w.Code, body.Message)
	}
}

func TestRespondErrorKeepsExpectedMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondError(c, apperrors.NotFound("Row not found"), "unused")

	var body struct {
		Status  string      `json:"status"`
		Message string      `json:"message"`
		Errors  ErrorDetail `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusNotFound || body.Status != "error" || body.Message != "Row not found" || body.Errors.Kind != "NOT_FOUND" {
		t.Errorf("code = %d, body = %+v", w.Code, body)
	}
}
