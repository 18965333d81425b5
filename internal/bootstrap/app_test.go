package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"course-planner/internal/shared/cache"
	"course-planner/internal/shared/config"
)

func TestBuildServesHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	data := `[{"course code":"CSC108H1","prerequisites":""},{"course code":"CSC148H1","prerequisites":"CSC108H1"}]`
	if err := os.WriteFile(filepath.Join(dir, "courses.json"), []byte(data), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	app, err := Build(config.Config{Env: "test", CatalogDir: dir})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer app.Close()

	if app.DB != nil {
		t.Fatalf("expected memory repositories without DATABASE_URL")
	}
	if _, ok := app.Cache.(*cache.Memory); !ok {
		t.Fatalf("expected in-process cache, got %T", app.Cache)
	}
	if app.Config.Planner.MaxDepth == 0 || app.Config.CatalogKey != "courses.json" {
		t.Fatalf("defaults not applied: %+v", app.Config)
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var report struct {
		OK      bool `json:"ok"`
		Catalog struct {
			Courses int `json:"courses"`
		} `json:"catalog"`
		Database string `json:"database"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !report.OK || report.Catalog.Courses != 2 || report.Database != "memory" {
		t.Fatalf("unexpected report %+v", report)
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "catalog_loads_total") {
		t.Fatalf("expected metrics output, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestHealthUnavailableWithoutDataset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(config.Config{Env: "test", CatalogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer app.Close()

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestBuildRequiresDatabaseInProduction(t *testing.T) {
	if _, err := Build(config.Config{Env: "production", CatalogDir: t.TempDir()}); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestBuildWatchesLocalCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	path := filepath.Join(dir, "courses.json")
	if err := os.WriteFile(path, []byte(`[{"course code":"CSC108H1","prerequisites":""}]`), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	app, err := Build(config.Config{Env: "test", CatalogDir: dir, CatalogWatch: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer app.Close()
	if app.Watcher == nil {
		t.Fatalf("expected a catalog watcher")
	}

	cat, err := app.Catalog.Catalog(testContext(t))
	if err != nil || cat.Len() != 1 {
		t.Fatalf("initial catalog: %v", err)
	}
	if err := os.WriteFile(path, []byte(`[{"course code":"CSC108H1","prerequisites":""},{"course code":"CSC148H1","prerequisites":"CSC108H1"}]`), 0o644); err != nil {
		t.Fatalf("rewrite dataset: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cat, err := app.Catalog.Catalog(testContext(t)); err == nil && cat.Len() == 2 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("catalog was not reloaded after the dataset changed")
}

// testContext returns a context cancelled when the test finishes (stands in
// for testing.T.Context, added in Go 1.24).
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
