package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes of a planning request.
const (
	OutcomeOK         = "ok"
	OutcomeInvalid    = "invalid"
	OutcomeInfeasible = "infeasible"
	OutcomeExplosion  = "explosion"
	OutcomeTimeout    = "timeout"
	OutcomeError      = "error"
)

var (
	registry = prometheus.NewRegistry()

	planRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_requests_total",
		Help: "Planning requests by outcome.",
	}, []string{"outcome"})

	buildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_build_duration_seconds",
		Help:    "Time spent building and selecting plans.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	})

	candidatePlans = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_candidate_plans",
		Help:    "Candidate plans enumerated per planning request.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 9),
	})

	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_cache_hits_total",
		Help: "Planning requests served from the result cache.",
	})

	catalogLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_loads_total",
		Help: "Catalog dataset loads by outcome.",
	}, []string{"outcome"})
)

func init() {
	registry.MustRegister(planRequests, buildDuration, candidatePlans, cacheHits, catalogLoads)
}

// IncPlanRequest counts a planning request with the given outcome.
func IncPlanRequest(outcome string) {
	planRequests.WithLabelValues(outcome).Inc()
}

// ObserveBuildDuration records the time spent planning.
func ObserveBuildDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	buildDuration.Observe(d.Seconds())
}

// ObserveCandidatePlans records how many candidate plans a request enumerated.
func ObserveCandidatePlans(n int) {
	candidatePlans.Observe(float64(n))
}

// IncCacheHit counts a cached planning result.
func IncCacheHit() {
	cacheHits.Inc()
}

// IncCatalogLoad counts a dataset load; outcome is "ok" or "error".
func IncCatalogLoad(outcome string) {
	catalogLoads.WithLabelValues(outcome).Inc()
}

// Registry returns the collector registry the package writes to.
func Registry() *prometheus.Registry {
	return registry
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
