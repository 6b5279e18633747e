package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/http/response"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/ctxutil"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

func TestAttachTraceContextKeepsIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())

	var seen *ctxutil.TraceData
	r.GET("/ping", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil {
		t.Fatalf("trace data missing from request context")
	}
	if seen.RequestID != "req-123" {
		t.Fatalf("request id: want=%q got=%q", "req-123", seen.RequestID)
	}
	if seen.TraceID == "" {
		t.Fatalf("trace id must be generated")
	}
	if got := rec.Header().Get(HeaderRequestID); got != "req-123" {
		t.Fatalf("echoed request id: want=%q got=%q", "req-123", got)
	}
	if got := rec.Header().Get(HeaderTraceID); got != seen.TraceID {
		t.Fatalf("echoed trace id: want=%q got=%q", seen.TraceID, got)
	}
}

func TestMetricsCountsRoutesAndErrorCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}

	r := gin.New()
	r.Use(Metrics(m), RequestLogger(log))
	r.GET("/api/tasks/:id", func(c *gin.Context) {
		response.RespondDomainError(c, types.NotFound("get task", "task not found"))
	})
	r.GET("/boom", func(c *gin.Context) {
		response.RespondDomainError(c, errors.New("db down"))
	})

	for _, path := range []string{"/api/tasks/abc", "/boom"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if path == "/boom" && strings.Contains(rec.Body.String(), "db down") {
			t.Fatalf("internal error leaked to client: %s", rec.Body.String())
		}
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	body := buf.String()
	for _, want := range []string{
		`consultancy_api_requests_total{method="GET",route="/api/tasks/:id",status="404"} 1`,
		`consultancy_api_errors_total{code="not_found"} 1`,
		`consultancy_api_errors_total{code="internal"} 1`,
		`consultancy_api_inflight_requests 0`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in exposition:\n%s", want, body)
		}
	}
}
