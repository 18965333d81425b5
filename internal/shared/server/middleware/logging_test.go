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

	"course-planner/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	defer telemetry.SetOutput(os.Stdout)

	router := gin.New()
	router.Use(RequestID(), Logging())
	router.POST("/api/v1/plans", func(c *gin.Context) {
		c.Set("planId", "plan-1")
		c.Set("targets", []string{"CSC263H1"})
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", nil)
	req.Header.Set("X-Request-Id", "req-42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"ts", "level", "msg", "request_id", "path", "status", "duration_ms", "plan_id", "targets"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["request_id"] != "req-42" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if payload["plan_id"] != "plan-1" {
		t.Fatalf("unexpected plan_id: %v", payload["plan_id"])
	}
	if payload["status"] != float64(http.StatusCreated) {
		t.Fatalf("unexpected status: %v", payload["status"])
	}
}

func TestRequestIDGeneratedWhenMissingOrInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	for _, header := range []string{"", "has space", strings.Repeat("x", 200)} {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		if header != "" {
			req.Header.Set("X-Request-Id", header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		got := resp.Header().Get("X-Request-Id")
		if got == "" || got == header {
			t.Fatalf("expected generated id for %q, got %q", header, got)
		}
		if got != resp.Body.String() {
			t.Fatalf("context id %q differs from header %q", resp.Body.String(), got)
		}
	}
}

func TestRecoveryReturnsStandardError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	defer telemetry.SetOutput(os.Stdout)

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "internal_error" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
	if !strings.Contains(buf.String(), `"msg":"panic"`) {
		t.Fatalf("expected panic log, got %s", buf.String())
	}
}
