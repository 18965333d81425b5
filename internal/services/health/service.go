package health

import (
	"context"
	"database/sql"
	"time"

	"course-planner/internal/catalog"
)

const pingTimeout = 2 * time.Second

// CatalogSource provides the current catalog.
type CatalogSource interface {
	Catalog(ctx context.Context) (*catalog.Catalog, error)
}

// Service encapsulates health-related checks.
type Service struct {
	Catalog CatalogSource
	DB      *sql.DB
}

// CatalogStatus describes the loaded catalog.
type CatalogStatus struct {
	Version string `json:"version,omitempty"`
	Courses int    `json:"courses"`
	Issues  int    `json:"issues"`
	Error   string `json:"error,omitempty"`
}

// Report is the health payload.
type Report struct {
	OK       bool          `json:"ok"`
	Catalog  CatalogStatus `json:"catalog"`
	Database string        `json:"database"`
}

// NewService constructs a new health service. db may be nil when plan
// history is kept in memory.
func NewService(cat CatalogSource, db *sql.DB) *Service {
	return &Service{Catalog: cat, DB: db}
}

// Status loads the catalog and pings the database.
func (s *Service) Status(ctx context.Context) Report {
	r := Report{OK: true, Database: "memory"}

	if s.Catalog != nil {
		cat, err := s.Catalog.Catalog(ctx)
		if err != nil {
			r.OK = false
			r.Catalog.Error = err.Error()
		} else {
			r.Catalog = CatalogStatus{Version: cat.Version, Courses: cat.Len(), Issues: len(cat.Issues)}
		}
	}

	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			r.OK = false
			r.Database = "error"
		} else {
			r.Database = "ok"
		}
	}
	return r
}
