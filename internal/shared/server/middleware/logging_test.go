package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tool-advisor/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })

	router := gin.New()
	router.Use(RequestID(), Session(false), Logging())
	router.POST("/api/v1/recommendations", func(c *gin.Context) {
		c.Set(OperationKey, "recommendTools")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	sessionID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", nil)
	req.Header.Set(SessionHeader, sessionID)
	req.Header.Set("X-Request-Id", "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	for _, key := range []string{"request_id", "session_id", "operation", "duration_ms", "status", "route"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["request_id"] != "req-123" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if payload["session_id"] != sessionID {
		t.Fatalf("unexpected session_id: %v", payload["session_id"])
	}
	if payload["operation"] != "recommendTools" {
		t.Fatalf("unexpected operation: %v", payload["operation"])
	}
	if payload["route"] != "/api/v1/recommendations" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
}
