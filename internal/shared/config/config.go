package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"course-planner/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string   `yaml:"port"`
	Env             string   `yaml:"env"`
	CORSAllowOrigin []string `yaml:"cors_allow_origins"`
	DatabaseURL     string   `yaml:"database_url"`
	LogLevel        string   `yaml:"log_level"`

	CatalogStore string `yaml:"catalog_store"`
	CatalogDir   string `yaml:"catalog_dir"`
	CatalogKey   string `yaml:"catalog_key"`
	CatalogWatch bool   `yaml:"catalog_watch"`
	AWSRegion    string `yaml:"aws_region"`
	S3Bucket     string `yaml:"s3_bucket"`
	S3Prefix     string `yaml:"s3_prefix"`
	SSEKMSKeyID  string `yaml:"sse_kms_key_id"`

	RedisAddr    string        `yaml:"redis_addr"`
	PlanCacheTTL time.Duration `yaml:"plan_cache_ttl"`

	Planner PlannerConfig `yaml:"planner"`

	PlanRateLimit float64 `yaml:"plan_rate_limit"`
	PlanRateBurst int     `yaml:"plan_rate_burst"`
}

// PlannerConfig bounds the work a single planning request may do.
type PlannerConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	MaxDepth        int           `yaml:"max_depth"`
	MaxPlans        int           `yaml:"max_plans"`
	MaxCombos       int           `yaml:"max_combos"`
	MaxCombinations int           `yaml:"max_combinations"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		LogLevel:        getEnv("LOG_LEVEL", "info"),

		CatalogStore: normalizeStoreType(getEnv("CATALOG_STORE", "local")),
		CatalogDir:   getEnv("CATALOG_DIR", "./data"),
		CatalogKey:   getEnv("CATALOG_KEY", "courses.json"),
		CatalogWatch: getBool("CATALOG_WATCH", false),
		AWSRegion:    getEnv("AWS_REGION", ""),
		S3Bucket:     getEnv("S3_BUCKET", ""),
		S3Prefix:     getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:  getEnv("SSE_KMS_KEY_ID", ""),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		PlanCacheTTL: getDuration("PLAN_CACHE_TTL", 10*time.Minute),

		Planner: PlannerConfig{
			Timeout:         getDuration("PLAN_TIMEOUT", 10*time.Second),
			MaxDepth:        getInt("PLANNER_MAX_DEPTH", 64),
			MaxPlans:        getInt("PLANNER_MAX_PLANS", 50000),
			MaxCombos:       getInt("PLANNER_MAX_COMBOS", 4096),
			MaxCombinations: getInt("PLANNER_MAX_COMBINATIONS", 1000000),
		},

		PlanRateLimit: getFloat("PLAN_RATE_LIMIT", 5),
		PlanRateBurst: getInt("PLAN_RATE_BURST", 10),
	}
}

// LoadFile reads a YAML file over the environment configuration. Keys absent
// from the file keep their Load values.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.CatalogStore = normalizeStoreType(cfg.CatalogStore)
	return cfg, nil
}

// Validate checks the limits and the catalog store settings.
func (c Config) Validate() error {
	if c.Planner.Timeout <= 0 {
		return fmt.Errorf("planner.timeout must be positive")
	}
	if c.Planner.MaxDepth <= 0 || c.Planner.MaxPlans <= 0 || c.Planner.MaxCombos <= 0 || c.Planner.MaxCombinations <= 0 {
		return fmt.Errorf("planner limits must be positive")
	}
	if strings.TrimSpace(c.CatalogKey) == "" {
		return fmt.Errorf("catalog_key is required")
	}
	if c.CatalogStore == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("s3_bucket is required when catalog_store is s3")
	}
	if c.CatalogWatch && c.CatalogStore != "local" {
		return fmt.Errorf("catalog_watch requires the local catalog store")
	}
	if c.PlanRateLimit < 0 || c.PlanRateBurst < 0 {
		return fmt.Errorf("plan rate limit must not be negative")
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		telemetry.Warn("config.invalid_value", map[string]any{"key": key, "value": raw})
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		telemetry.Warn("config.invalid_value", map[string]any{"key": key, "value": raw})
		return def
	}
	return f
}

func getBool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		telemetry.Warn("config.invalid_value", map[string]any{"key": key, "value": raw})
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		telemetry.Warn("config.invalid_value", map[string]any{"key": key, "value": raw})
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
