package courses

import (
	"context"
	"fmt"
	"strings"

	"course-planner/internal/catalog"
	"course-planner/internal/requirements"
)

// CatalogSource provides the current catalog.
type CatalogSource interface {
	Catalog(ctx context.Context) (*catalog.Catalog, error)
}

// Service answers course lookups and requirement inspections.
type Service struct {
	// Source is optional for Inspect; without it unresolved codes are not reported.
	Source    CatalogSource
	MaxCombos int
}

// Course describes one catalog course with its parsed requirements.
type Course struct {
	Code           string
	Name           string
	Description    string
	Hours          string
	Breadth        string
	Distribution   string
	Delivery       string
	CreditValue    float64
	Duration       int
	Requirement    string
	Prerequisites  []requirements.Combo
	Corequisites   []requirements.Combo
	Exclusions     []requirements.Combo
	Unresolved     []string
	Issues         []catalog.Issue
	CatalogVersion string
}

// InspectRequest asks for the parse of one requirement string.
type InspectRequest struct {
	Requirement string
	Completed   []string
}

// Inspection is the parse of a requirement string.
type Inspection struct {
	Input      string
	Normalized string
	Tree       string
	Leaves     []string
	Combos     []requirements.Combo
	Unresolved []string
	// Satisfied is set only when completed courses were given.
	Satisfied *bool
	// Remaining is the smallest combo's codes not yet completed.
	Remaining []string
}

// Course looks up code in the current catalog.
func (s *Service) Course(ctx context.Context, code string) (Course, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !requirements.IsCourseCode(code) {
		return Course{}, fmt.Errorf("%w: %q is not a course code", ErrInvalidInput, code)
	}
	if s.Source == nil {
		return Course{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	cat, err := s.Source.Catalog(ctx)
	if err != nil {
		return Course{}, fmt.Errorf("load catalog: %w", err)
	}
	e, ok := cat.Entry(code)
	if !ok {
		return Course{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}

	reg := catalog.NewRegistry(nil)
	course, err := reg.Register(code)
	if err != nil {
		return Course{}, err
	}
	out := Course{
		Code:           code,
		Name:           e.Record.Name.String(),
		Description:    e.Record.Description.String(),
		Hours:          e.Record.Hours.String(),
		Breadth:        e.Record.Breadth.String(),
		Distribution:   e.Record.Distribution.String(),
		Delivery:       e.Record.Delivery.String(),
		CreditValue:    course.CreditValue,
		Duration:       course.Duration,
		Requirement:    e.Requirement,
		Prerequisites:  e.Prerequisites,
		Corequisites:   e.Corequisites,
		Exclusions:     e.Exclusions,
		Unresolved:     e.Unresolved,
		CatalogVersion: cat.Version,
	}
	for _, issue := range cat.Issues {
		if issue.Code == code {
			out.Issues = append(out.Issues, issue)
		}
	}
	return out, nil
}

// Inspect normalizes, parses and enumerates a requirement string.
func (s *Service) Inspect(ctx context.Context, req InspectRequest) (Inspection, error) {
	out := Inspection{
		Input:      req.Requirement,
		Normalized: requirements.Normalize(req.Requirement),
	}
	tree, err := requirements.Parse(out.Normalized)
	if err != nil {
		return Inspection{}, err
	}
	limit := s.MaxCombos
	if limit <= 0 {
		limit = catalog.DefaultMaxCombos
	}
	out.Combos, err = requirements.CombosLimit(tree, limit)
	if err != nil {
		return Inspection{}, err
	}
	out.Tree = tree.String()
	out.Leaves = requirements.Leaves(tree)

	if s.Source != nil {
		cat, err := s.Source.Catalog(ctx)
		if err != nil {
			return Inspection{}, fmt.Errorf("load catalog: %w", err)
		}
		out.Unresolved = cat.Missing(out.Leaves)
	}

	if req.Completed != nil {
		done := make(map[string]bool, len(req.Completed))
		for _, code := range req.Completed {
			done[strings.ToUpper(strings.TrimSpace(code))] = true
		}
		ok := requirements.Evaluate(tree, done)
		out.Satisfied = &ok
		if !ok {
			out.Remaining = closest(out.Combos, done)
		}
	}
	return out, nil
}

// closest returns the missing codes of the combo needing the fewest extra
// courses. The first such combo wins.
func closest(combos []requirements.Combo, done map[string]bool) []string {
	var best []string
	found := false
	for _, combo := range combos {
		var missing []string
		for _, code := range combo {
			if !done[code] {
				missing = append(missing, code)
			}
		}
		if !found || len(missing) < len(best) {
			best, found = missing, true
		}
	}
	return best
}
