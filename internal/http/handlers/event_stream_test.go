package handlers

import (
	"net/http"
	"testing"

	"github.com/yungbote/consultancy-backend/internal/platform/logger"
	"github.com/yungbote/consultancy-backend/internal/realtime"
)

func TestEventStreamRejectsUnknownEntity(t *testing.T) {
	hub := realtime.NewHub(logger.Nop())
	r := newEngine()
	r.GET("/api/events/stream", NewEventStreamHandler(logger.Nop(), hub).Stream)

	rec := do(t, r, http.MethodGet, "/api/events/stream?entity=task,payroll", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d body=%s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
	if got := decodeError(t, rec); got.Code != "validation" {
		t.Fatalf("code: want=validation got=%q", got.Code)
	}
	if hub.Clients() != 0 {
		t.Fatalf("rejected request must not subscribe: clients=%d", hub.Clients())
	}
}
