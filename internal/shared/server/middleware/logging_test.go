package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("close pipe: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}
	return string(data)
}

func TestLoggingEmitsRequestLine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Logging())
	router.GET("/api/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	out := captureStdout(t, func() {
		req := httptest.NewRequest(http.MethodGet, "/api/", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
	})

	line := strings.TrimSpace(out)
	if line == "" {
		t.Fatalf("expected a log line, got nothing")
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, line)
	}
	if entry["msg"] != "request.complete" {
		t.Fatalf("expected msg request.complete, got %v", entry["msg"])
	}
	if entry["method"] != "GET" {
		t.Fatalf("expected method GET, got %v", entry["method"])
	}
	if entry["path"] != "/api/" {
		t.Fatalf("expected path /api/, got %v", entry["path"])
	}
	if status, ok := entry["status"].(float64); !ok || int(status) != http.StatusOK {
		t.Fatalf("expected status 200, got %v", entry["status"])
	}
	if id, ok := entry["request_id"].(string); !ok || id == "" {
		t.Fatalf("expected non-empty request_id, got %v", entry["request_id"])
	}
	if _, ok := entry["duration_ms"].(float64); !ok {
		t.Fatalf("expected numeric duration_ms, got %v", entry["duration_ms"])
	}
}

func TestLoggingSkipsPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Logging())
	router.OPTIONS("/api/analyse", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	out := captureStdout(t, func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/analyse", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
	})

	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected no log line for preflight, got %q", out)
	}
}
