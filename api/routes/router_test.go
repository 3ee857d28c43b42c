package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HemangKanojiya20/event-ticket-booking/internal/events"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/config"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/database"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Router) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Load()
	r := NewRouter(cfg, &database.DB{}, nil)
	if err := r.SeedSampleEvents(context.Background()); err != nil {
		t.Fatal(err)
	}
	engine := gin.New()
	r.SetupRoutes(engine)
	return engine, r
}

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealthRoutes(t *testing.T) {
	engine, _ := newTestRouter(t)

	for _, path := range []string{"/health", "/ping", "/status"} {
		if w := serve(engine, http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Errorf("%s: code %d", path, w.Code)
		}
	}

	var status struct {
		Events int `json:"events"`
	}
	w := serve(engine, http.MethodGet, "/status", "")
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Events != 2 {
		t.Errorf("events = %d, want 2", status.Events)
	}
}

func TestPurchaseFlowAgainstSeededCatalog(t *testing.T) {
	engine, r := newTestRouter(t)

	event := r.eventRepo.List()[0]
	vip := event.Sections[0]
	rowA := vip.Rows[0]

	body := `{"section_id":"` + vip.ID + `","row_id":"` + rowA.ID +
		`","number_of_tickets":5,"customer_info":{"name":"Asha","email":"asha@example.com"}}`
	w := serve(engine, http.MethodPost, "/api/v1/events/"+event.ID+"/purchase", body)
	if w.Code != http.StatusOK {
		t.Fatalf("purchase: %d %s", w.Code, w.Body.String())
	}

	w = serve(engine, http.MethodPost, "/api/v1/events/"+event.ID+"/purchase",
		strings.Replace(body, `"number_of_tickets":5`, `"number_of_tickets":6`, 1))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Only 5 seats available in this row") {
		t.Fatalf("second purchase: %d %s", w.Code, w.Body.String())
	}

	w = serve(engine, http.MethodGet, "/api/v1/events/"+event.ID+"/availability", "")
	var env struct {
		Data events.Availability `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	row := env.Data.Sections[0].Rows[0]
	if row.AvailableSeats != 5 || row.BookedSeats != 5 {
		t.Errorf("row A = %d free / %d booked, want 5/5", row.AvailableSeats, row.BookedSeats)
	}
}
