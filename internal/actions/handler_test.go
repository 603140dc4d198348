package actions

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tool-advisor/internal/advisor"
)

func setupRouter(stub *stubAdvisor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(NewService(stub, nil)).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRecommendationsEndpoint(t *testing.T) {
	router := setupRouter(&stubAdvisor{recs: []advisor.Recommendation{{ToolName: "Cypress", Score: 88, Justification: "js"}}})
	resp := doJSON(t, router, http.MethodPost, "/api/v1/recommendations", sampleCriteria())
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body Result[[]advisor.Recommendation]
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Fallback || len(body.Data) != 1 || body.Data[0].ToolName != "Cypress" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestRecommendationsValidationEnvelope(t *testing.T) {
	router := setupRouter(&stubAdvisor{})
	resp := doJSON(t, router, http.MethodPost, "/api/v1/recommendations", map[string]any{"teamSize": -1, "simpleTestCases": 1})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code    string               `json:"code"`
			Details []advisor.FieldError `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body.Error.Code)
	}
	if len(body.Error.Details) != 1 || body.Error.Details[0].Field != "teamSize" {
		t.Fatalf("unexpected details: %+v", body.Error.Details)
	}
}

func TestRecommendationsRejectsMalformedJSON(t *testing.T) {
	router := setupRouter(&stubAdvisor{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestComparisonsEndpointFallback(t *testing.T) {
	router := setupRouter(&stubAdvisor{err: errors.New("down")})
	resp := doJSON(t, router, http.MethodPost, "/api/v1/comparisons", compareRequest{Tools: []string{"Playwright", "Selenium"}})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body Result[advisor.Comparison]
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Fallback || body.Notice == "" {
		t.Fatalf("expected fallback with notice, got %+v", body)
	}
	if got := body.Data.Cell("Ease of use", "Selenium"); got != advisor.NotAvailable {
		t.Fatalf("expected N/A cell, got %q", got)
	}
}

func TestEstimatesEndpoint(t *testing.T) {
	router := setupRouter(&stubAdvisor{})
	resp := doJSON(t, router, http.MethodPost, "/api/v1/estimates", estimateRequest{Tool: "Playwright", Criteria: sampleCriteria()})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestToolDetailsAndAnalysisEndpoints(t *testing.T) {
	router := setupRouter(&stubAdvisor{})

	resp := doJSON(t, router, http.MethodGet, "/api/v1/tools/Playwright/details", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("details: expected status 200, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodPost, "/api/v1/tools/Playwright/analysis", sampleCriteria())
	if resp.Code != http.StatusOK {
		t.Fatalf("analysis: expected status 200, got %d", resp.Code)
	}
}
