package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "PLAN_TIMEOUT", "PLANNER_MAX_PLANS", "CATALOG_STORE", "CATALOG_WATCH"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.Planner.Timeout != 10*time.Second {
		t.Fatalf("expected 10s plan timeout, got %s", cfg.Planner.Timeout)
	}
	if cfg.Planner.MaxPlans != 50000 || cfg.Planner.MaxDepth != 64 {
		t.Fatalf("unexpected planner limits %+v", cfg.Planner)
	}
	if cfg.CatalogStore != "local" || cfg.CatalogKey != "courses.json" {
		t.Fatalf("unexpected catalog settings %q %q", cfg.CatalogStore, cfg.CatalogKey)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PLAN_TIMEOUT", "250ms")
	t.Setenv("PLANNER_MAX_PLANS", "12")
	t.Setenv("CATALOG_WATCH", "true")
	t.Setenv("CATALOG_STORE", "S3")
	t.Setenv("PLANNER_MAX_DEPTH", "not-a-number")

	cfg := Load()
	if cfg.Planner.Timeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", cfg.Planner.Timeout)
	}
	if cfg.Planner.MaxPlans != 12 {
		t.Fatalf("expected 12, got %d", cfg.Planner.MaxPlans)
	}
	if cfg.Planner.MaxDepth != 64 {
		t.Fatalf("invalid values should fall back to the default, got %d", cfg.Planner.MaxDepth)
	}
	if !cfg.CatalogWatch || cfg.CatalogStore != "s3" {
		t.Fatalf("unexpected catalog settings watch=%v store=%q", cfg.CatalogWatch, cfg.CatalogStore)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for s3 without bucket")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CATALOG_KEY", "")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("# local\nCATALOG_KEY=\"fall.json\"\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	cfg := Load()
	if cfg.CatalogKey != "fall.json" {
		t.Fatalf("expected key from .env, got %q", cfg.CatalogKey)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("PORT", "9090")
	path := filepath.Join(dir, "planner.yaml")
	body := "catalog_dir: /srv/catalog\nplanner:\n  timeout: 2s\n  max_plans: 100\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.CatalogDir != "/srv/catalog" {
		t.Fatalf("expected catalog dir from file, got %q", cfg.CatalogDir)
	}
	if cfg.Planner.Timeout != 2*time.Second || cfg.Planner.MaxPlans != 100 {
		t.Fatalf("unexpected planner config %+v", cfg.Planner)
	}
	if cfg.Planner.MaxDepth != 64 {
		t.Fatalf("keys absent from the file keep defaults, got %d", cfg.Planner.MaxDepth)
	}
	if cfg.Port != "9090" {
		t.Fatalf("env values survive the overlay, got %q", cfg.Port)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	base := Load()

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "zero timeout", modify: func(c *Config) { c.Planner.Timeout = 0 }},
		{name: "zero max plans", modify: func(c *Config) { c.Planner.MaxPlans = 0 }},
		{name: "empty key", modify: func(c *Config) { c.CatalogKey = " " }},
		{name: "watch on s3", modify: func(c *Config) { c.CatalogStore = "s3"; c.S3Bucket = "b"; c.CatalogWatch = true }},
		{name: "negative rate", modify: func(c *Config) { c.PlanRateLimit = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.Planner = base.Planner
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		line    string
		key     string
		val     string
		wantErr bool
	}{
		{line: "PORT=8080", key: "PORT", val: "8080"},
		{line: "export REDIS_ADDR = localhost:6379", key: "REDIS_ADDR", val: "localhost:6379"},
		{line: `CATALOG_KEY='fall.json'`, key: "CATALOG_KEY", val: "fall.json"},
		{line: "DATABASE_URL=postgres://u:p@h/db?sslmode=disable", key: "DATABASE_URL", val: "postgres://u:p@h/db?sslmode=disable"},
		{line: "# comment", wantErr: true},
		{line: "NOEQUALS", wantErr: true},
		{line: "=value", wantErr: true},
	}
	for _, tt := range tests {
		key, val, ok := parseEnvLine(tt.line)
		if tt.wantErr {
			if ok {
				t.Fatalf("parseEnvLine(%q) expected no pair, got %q=%q", tt.line, key, val)
			}
			continue
		}
		if !ok || key != tt.key || val != tt.val {
			t.Fatalf("parseEnvLine(%q) = %q, %q, %v", tt.line, key, val, ok)
		}
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stands in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
