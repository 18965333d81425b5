package plans

import (
	"time"

	"course-planner/internal/catalog"
	"course-planner/internal/planner"
)

// PlanRequest is the body of POST /plans.
type PlanRequest struct {
	Targets   []string `json:"targets"`
	Target    string   `json:"target,omitempty"`
	Completed []string `json:"completed"`
}

// CourseSummaryResponse describes a target course.
type CourseSummaryResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// PlanResponse is the outward-facing representation of a plan record.
type PlanResponse struct {
	PlanID         string                  `json:"planId"`
	Targets        []string                `json:"targets"`
	Completed      []string                `json:"completed"`
	CatalogVersion string                  `json:"catalogVersion"`
	Length         int                     `json:"length"`
	Credits        float64                 `json:"credits"`
	CandidateCount int                     `json:"candidateCount"`
	Plans          []planner.PlanView      `json:"plans"`
	Courses        []CourseSummaryResponse `json:"courses,omitempty"`
	Issues         []catalog.Issue         `json:"issues,omitempty"`
	Cached         bool                    `json:"cached"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// PlanListResponse wraps a page of plan records.
type PlanListResponse struct {
	Items  []PlanResponse `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func toResponse(rec PlanRecord) PlanResponse {
	completed := rec.Completed
	if completed == nil {
		completed = []string{}
	}
	return PlanResponse{
		PlanID:         rec.ID,
		Targets:        rec.Targets,
		Completed:      completed,
		CatalogVersion: rec.CatalogVersion,
		Length:         rec.Length,
		Credits:        rec.Credits,
		CandidateCount: rec.CandidateCount,
		Plans:          rec.Plans,
		CreatedAt:      rec.CreatedAt,
	}
}

// ToResultResponse converts a planning result, including target summaries.
func ToResultResponse(res Result) PlanResponse {
	out := toResponse(res.Record)
	out.Cached = res.Cached
	out.Issues = res.Issues
	for _, c := range res.Courses {
		out.Courses = append(out.Courses, CourseSummaryResponse(c))
	}
	return out
}
