package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newCatalogRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(Default()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestToolsSearchEndpoint(t *testing.T) {
	resp := get(t, newCatalogRouter(), "/api/v1/tools?q=play")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body struct {
		Tools []Tool `json:"tools"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Tools) == 0 || body.Tools[0].Name != "Playwright" {
		t.Fatalf("expected Playwright first, got %+v", body.Tools)
	}
}

func TestToolEndpointNotFound(t *testing.T) {
	resp := get(t, newCatalogRouter(), "/api/v1/tools/unknown-tool")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestReleaseNotesEndpoint(t *testing.T) {
	resp := get(t, newCatalogRouter(), "/api/v1/tools/cypress/release-notes")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body struct {
		ToolName     string        `json:"toolName"`
		ReleaseNotes []ReleaseNote `json:"releaseNotes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ToolName != "Cypress" || len(body.ReleaseNotes) == 0 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestTrendsEndpoint(t *testing.T) {
	resp := get(t, newCatalogRouter(), "/api/v1/trends")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}
