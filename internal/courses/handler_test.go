package courses_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"course-planner/internal/bootstrap"
	"course-planner/internal/shared/config"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	data := `[
  {"course code": "CSC108H1", "course name": "Intro Programming", "prerequisites": ""},
  {"course code": "CSC148H1", "prerequisites": "CSC108H1|CSC110Y1"}
]`
	if err := os.WriteFile(filepath.Join(dir, "courses.json"), []byte(data), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	app, err := bootstrap.Build(config.Config{
		Port:         "0",
		Env:          "test",
		CatalogStore: "local",
		CatalogDir:   dir,
		CatalogKey:   "courses.json",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func TestGetCourse(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/csc148h1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Code          string     `json:"code"`
		Requirement   string     `json:"requirement"`
		Prerequisites [][]string `json:"prerequisites"`
		Unresolved    []string   `json:"unresolved"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "CSC148H1" || body.Requirement != "CSC108H1|CSC110Y1" {
		t.Fatalf("unexpected body %+v", body)
	}
	if len(body.Prerequisites) != 2 || len(body.Unresolved) != 1 || body.Unresolved[0] != "CSC110Y1" {
		t.Fatalf("unexpected requirement data %+v", body)
	}

	for path, status := range map[string]int{
		"/api/v1/courses/CSC999H1": http.StatusNotFound,
		"/api/v1/courses/nope":     http.StatusBadRequest,
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != status {
			t.Fatalf("%s: expected status %d, got %d", path, status, resp.Code)
		}
	}
}

func TestInspectRequirement(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "valid", body: `{"requirement":"CSC108H1^(CSC148H1|CSC150H1)","completed":["CSC108H1"]}`, status: http.StatusOK},
		{name: "malformed", body: `{"requirement":"CSC108H1^(CSC148H1"}`, status: http.StatusBadRequest},
		{name: "bad json", body: `{`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/requirements/inspect", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			var body struct {
				Combos     [][]string `json:"combos"`
				Unresolved []string   `json:"unresolved"`
				Satisfied  *bool      `json:"satisfied"`
				Remaining  []string   `json:"remaining"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(body.Combos) != 2 || body.Satisfied == nil || *body.Satisfied {
				t.Fatalf("unexpected body %+v", body)
			}
			if len(body.Remaining) != 1 || body.Remaining[0] != "CSC148H1" {
				t.Fatalf("unexpected remaining %v", body.Remaining)
			}
			if len(body.Unresolved) != 1 || body.Unresolved[0] != "CSC150H1" {
				t.Fatalf("unexpected unresolved %v", body.Unresolved)
			}
		})
	}
}
