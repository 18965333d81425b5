package plans

import (
	"time"

	"course-planner/internal/planner"
)

// PlanRecord is one persisted planning request and its outcome.
type PlanRecord struct {
	ID             string
	RequestID      string
	Targets        []string
	Completed      []string
	CatalogVersion string
	// Length is the number of terms until every target is done.
	Length         int
	Credits        float64
	CandidateCount int
	Plans          []planner.PlanView
	CreatedAt      time.Time
}
