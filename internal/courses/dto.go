package courses

import (
	"course-planner/internal/catalog"
	"course-planner/internal/requirements"
)

// CourseResponse is the body of GET /courses/:code.
type CourseResponse struct {
	Code           string               `json:"code"`
	Name           string               `json:"name,omitempty"`
	Description    string               `json:"description,omitempty"`
	Hours          string               `json:"hours,omitempty"`
	Breadth        string               `json:"breadth,omitempty"`
	Distribution   string               `json:"distribution,omitempty"`
	Delivery       string               `json:"delivery,omitempty"`
	CreditValue    float64              `json:"creditValue"`
	Duration       int                  `json:"duration"`
	Requirement    string               `json:"requirement"`
	Prerequisites  []requirements.Combo `json:"prerequisites"`
	Corequisites   []requirements.Combo `json:"corequisites"`
	Exclusions     []requirements.Combo `json:"exclusions"`
	Unresolved     []string             `json:"unresolved"`
	Issues         []catalog.Issue      `json:"issues,omitempty"`
	CatalogVersion string               `json:"catalogVersion"`
}

// InspectRequestBody is the body of POST /requirements/inspect.
type InspectRequestBody struct {
	Requirement string   `json:"requirement"`
	Completed   []string `json:"completed,omitempty"`
}

// InspectResponse is the outward-facing parse of a requirement.
type InspectResponse struct {
	Input      string               `json:"input"`
	Normalized string               `json:"normalized"`
	Tree       string               `json:"tree"`
	Leaves     []string             `json:"leaves"`
	Combos     []requirements.Combo `json:"combos"`
	Unresolved []string             `json:"unresolved"`
	Satisfied  *bool                `json:"satisfied,omitempty"`
	Remaining  []string             `json:"remaining,omitempty"`
}

// ToCourseResponse converts a course for display.
func ToCourseResponse(c Course) CourseResponse {
	return CourseResponse{
		Code:           c.Code,
		Name:           c.Name,
		Description:    c.Description,
		Hours:          c.Hours,
		Breadth:        c.Breadth,
		Distribution:   c.Distribution,
		Delivery:       c.Delivery,
		CreditValue:    c.CreditValue,
		Duration:       c.Duration,
		Requirement:    c.Requirement,
		Prerequisites:  nonNilCombos(c.Prerequisites),
		Corequisites:   nonNilCombos(c.Corequisites),
		Exclusions:     nonNilCombos(c.Exclusions),
		Unresolved:     nonNilStrings(c.Unresolved),
		Issues:         c.Issues,
		CatalogVersion: c.CatalogVersion,
	}
}

func toInspectResponse(in Inspection) InspectResponse {
	return InspectResponse{
		Input:      in.Input,
		Normalized: in.Normalized,
		Tree:       in.Tree,
		Leaves:     nonNilStrings(in.Leaves),
		Combos:     nonNilCombos(in.Combos),
		Unresolved: nonNilStrings(in.Unresolved),
		Satisfied:  in.Satisfied,
		Remaining:  in.Remaining,
	}
}

func nonNilCombos(c []requirements.Combo) []requirements.Combo {
	if c == nil {
		return []requirements.Combo{}
	}
	return c
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
