package plans

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"course-planner/internal/catalog"
	"course-planner/internal/planner"
	"course-planner/internal/shared/server/middleware"
	"course-planner/internal/shared/server/respond"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches plan routes to the router group. Extra middleware
// applies to plan creation only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, create ...gin.HandlerFunc) {
	rg.POST("/plans", append(create, h.create)...)
	rg.GET("/plans", h.list)
	rg.GET("/plans/:id", h.get)
}

func (h *Handler) create(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	targets := append([]string(nil), req.Targets...)
	if strings.TrimSpace(req.Target) != "" {
		targets = append(targets, req.Target)
	}
	c.Set("targets", targets)

	res, err := h.Svc.Plan(c.Request.Context(), Request{
		Targets:   targets,
		Completed: req.Completed,
		RequestID: middleware.RequestIDFromContext(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("planId", res.Record.ID)
	respond.Created(c, ToResultResponse(res))
}

func (h *Handler) get(c *gin.Context) {
	rec, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(rec))
}

func (h *Handler) list(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil || limit <= 0 || limit > maxListLimit {
		respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 100", nil)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "offset must not be negative", nil)
		return
	}

	recs, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	items := make([]PlanResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, toResponse(rec))
	}
	respond.OK(c, PlanListResponse{Items: items, Limit: limit, Offset: offset})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeError(c *gin.Context, err error) {
	var unknown *UnknownCoursesError
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.As(err, &unknown):
		respond.Error(c, http.StatusNotFound, "unknown_course", err.Error(), gin.H{"codes": unknown.Codes})
	case errors.Is(err, catalog.ErrUnknownCourse):
		respond.Error(c, http.StatusNotFound, "unknown_course", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "plan not found", nil)
	case errors.Is(err, planner.ErrNoFeasiblePlan):
		respond.Error(c, http.StatusUnprocessableEntity, "no_feasible_plan", err.Error(), nil)
	case errors.Is(err, planner.ErrCyclicPrerequisite):
		respond.Error(c, http.StatusUnprocessableEntity, "cyclic_prerequisite", err.Error(), nil)
	case errors.Is(err, planner.ErrPlanExplosion):
		respond.Error(c, http.StatusUnprocessableEntity, "plan_explosion", err.Error(), nil)
	case errors.Is(err, ErrTimeout):
		respond.Error(c, http.StatusGatewayTimeout, "timeout", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to plan courses", err.Error())
	}
}
