package courses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-planner/internal/requirements"
	"course-planner/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches course and requirement routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/courses/:code", h.get)
	rg.POST("/requirements/inspect", h.inspect)
}

func (h *Handler) get(c *gin.Context) {
	course, err := h.Svc.Course(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, ToCourseResponse(course))
}

func (h *Handler) inspect(c *gin.Context) {
	var req InspectRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	res, err := h.Svc.Inspect(c.Request.Context(), InspectRequest{
		Requirement: req.Requirement,
		Completed:   req.Completed,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toInspectResponse(res))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, requirements.ErrMalformedRequirement):
		respond.Error(c, http.StatusBadRequest, "malformed_requirement", err.Error(), nil)
	case errors.Is(err, requirements.ErrTooManyCombos):
		respond.Error(c, http.StatusUnprocessableEntity, "too_many_combos", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read catalog", err.Error())
	}
}
