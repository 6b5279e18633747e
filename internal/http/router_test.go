package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/consultancy-backend/internal/http/handlers"
	"github.com/yungbote/consultancy-backend/internal/observability"
)

func TestRouterMountsOnlyConfiguredHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		Metrics:       observability.NewMetrics(),
		HealthHandler: httpH.NewHealthHandler(nil, nil),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/healthz", nil))
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("healthz: want=%d got=%d", nethttp.StatusOK, rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header missing")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/api/contracts", nil))
	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("unconfigured route: want=%d got=%d", nethttp.StatusNotFound, rec.Code)
	}
}
