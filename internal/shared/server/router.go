package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"course-planner/internal/courses"
	"course-planner/internal/plans"
	"course-planner/internal/services/health"
	"course-planner/internal/shared/config"
	"course-planner/internal/shared/metrics"
	"course-planner/internal/shared/server/middleware"
	"course-planner/internal/shared/server/respond"
)

// RouterDeps holds the handlers mounted by NewRouter.
type RouterDeps struct {
	Config         config.Config
	PlansHandler   *plans.Handler
	CoursesHandler *courses.Handler
	Health         *health.Service
	RateLimiter    *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	if deps.PlansHandler != nil {
		rule := middleware.RateLimitRule{Rate: deps.Config.PlanRateLimit, Burst: deps.Config.PlanRateBurst}
		deps.PlansHandler.RegisterRoutes(api, middleware.RateLimit(rule, deps.RateLimiter))
	}
	if deps.CoursesHandler != nil {
		deps.CoursesHandler.RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})
	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
