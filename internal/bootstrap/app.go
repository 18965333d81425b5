package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"course-planner/internal/catalog"
	"course-planner/internal/courses"
	"course-planner/internal/planner"
	"course-planner/internal/plans"
	"course-planner/internal/services/health"
	"course-planner/internal/shared/cache"
	"course-planner/internal/shared/config"
	"course-planner/internal/shared/server"
	"course-planner/internal/shared/server/middleware"
	"course-planner/internal/shared/storage/db"
	"course-planner/internal/shared/storage/object"
	localstore "course-planner/internal/shared/storage/object/local"
	s3store "course-planner/internal/shared/storage/object/s3"
	"course-planner/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Store          object.ObjectStore
	Catalog        *catalog.Source
	Watcher        *catalog.Watcher
	Cache          cache.Cache
	PlansRepo      plans.Repo
	PlansService   *plans.Service
	CoursesService *courses.Service
	Health         *health.Service
	PlansHandler   *plans.Handler
	CoursesHandler *courses.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	cfg = withDefaults(cfg)
	telemetry.SetLevel(cfg.LogLevel)
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Catalog: catalog.NewSource(store, cfg.CatalogKey, catalog.BuildOptions{MaxCombos: cfg.Planner.MaxCombos}),
		Cache:   buildCache(ctx, cfg),
	}

	if cfg.CatalogWatch {
		local, ok := store.(*localstore.Store)
		if !ok {
			return nil, errors.New("catalog watch requires the local catalog store")
		}
		path, err := local.Path(cfg.CatalogKey)
		if err != nil {
			return nil, err
		}
		app.Watcher, err = app.Catalog.Watch(ctx, path, 0)
		if err != nil {
			return nil, fmt.Errorf("watch catalog: %w", err)
		}
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		PlansHandler:   app.PlansHandler,
		CoursesHandler: app.CoursesHandler,
		Health:         app.Health,
		RateLimiter:    middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the watcher, cache and database.
func (a *App) Close() error {
	var errs []error
	if a.Watcher != nil {
		errs = append(errs, a.Watcher.Stop())
	}
	if c, ok := a.Cache.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func withDefaults(cfg config.Config) config.Config {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.CatalogStore) == "" {
		cfg.CatalogStore = "local"
	}
	if strings.TrimSpace(cfg.CatalogDir) == "" {
		cfg.CatalogDir = "./data"
	}
	if strings.TrimSpace(cfg.CatalogKey) == "" {
		cfg.CatalogKey = "courses.json"
	}
	if cfg.Planner.Timeout <= 0 {
		cfg.Planner.Timeout = 10 * time.Second
	}
	if cfg.Planner.MaxDepth <= 0 {
		cfg.Planner.MaxDepth = planner.DefaultMaxDepth
	}
	if cfg.Planner.MaxPlans <= 0 {
		cfg.Planner.MaxPlans = planner.DefaultMaxPlans
	}
	if cfg.Planner.MaxCombos <= 0 {
		cfg.Planner.MaxCombos = catalog.DefaultMaxCombos
	}
	if cfg.Planner.MaxCombinations <= 0 {
		cfg.Planner.MaxCombinations = planner.DefaultMaxCombinations
	}
	return cfg
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repo", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	}
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repo", map[string]any{"reason": "database unavailable", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// NewStore returns the catalog object store named by cfg.
func NewStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.CatalogStore {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.CatalogDir), nil
	}
}

func buildCache(ctx context.Context, cfg config.Config) cache.Cache {
	if cfg.PlanCacheTTL < 0 {
		return cache.Nop{}
	}
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return cache.Connect(pingCtx, cfg.RedisAddr)
	}
	return cache.NewMemory(nil)
}

func buildServices(app *App) {
	var repo plans.Repo
	if app.DB != nil {
		repo = &plans.PGRepo{DB: app.DB}
	} else {
		repo = plans.NewMemoryRepo()
	}

	app.PlansRepo = repo
	app.PlansService = &plans.Service{
		Source:   app.Catalog,
		Repo:     repo,
		Cache:    app.Cache,
		CacheTTL: app.Config.PlanCacheTTL,
		Limits: plans.Limits{
			Timeout:         app.Config.Planner.Timeout,
			MaxDepth:        app.Config.Planner.MaxDepth,
			MaxPlans:        app.Config.Planner.MaxPlans,
			MaxCombinations: app.Config.Planner.MaxCombinations,
		},
	}
	app.CoursesService = &courses.Service{Source: app.Catalog, MaxCombos: app.Config.Planner.MaxCombos}
	app.Health = health.NewService(app.Catalog, app.DB)
	app.PlansHandler = plans.NewHandler(app.PlansService)
	app.CoursesHandler = courses.NewHandler(app.CoursesService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
