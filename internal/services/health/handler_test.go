package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tool-advisor/internal/services/health"
)

type downPinger struct{}

func (downPinger) PingContext(ctx context.Context) error { return errors.New("down") }

func newHealthRouter(svc *health.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	health.NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestHealthEndpointDatabaseDown(t *testing.T) {
	router := newHealthRouter(health.NewService(downPinger{}, "openai", "gpt-4o-mini", true))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
	var body health.Status
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Provider != "openai" || body.Database != "unavailable" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthEndpointWithoutDatabase(t *testing.T) {
	router := newHealthRouter(health.NewService(nil, "none", "", false))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body health.Status
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.OK || body.Database != "memory" || body.LLMConfigured {
		t.Fatalf("unexpected body: %+v", body)
	}
}
