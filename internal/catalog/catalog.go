package catalog

import (
	"bytes"
	"fmt"

	"course-planner/internal/requirements"
	"course-planner/internal/shared/telemetry"
	"course-planner/internal/shared/util"
)

// DefaultMaxCombos caps the combos enumerated for one requirement string.
const DefaultMaxCombos = 4096

// BuildOptions controls dataset parsing.
type BuildOptions struct {
	MaxCombos int
}

// Entry is the parsed form of one dataset record.
type Entry struct {
	Record        CourseRecord
	Prerequisites []requirements.Combo
	Corequisites  []requirements.Combo
	Exclusions    []requirements.Combo
	// Requirement holds the normalized prerequisite string.
	Requirement string
	// Unresolved lists prerequisite codes that are not courses in the dataset.
	Unresolved []string
}

// Issue records a requirement that could not be parsed. The course stays in
// the catalog with no combos for that field.
type Issue struct {
	Code        string `json:"code"`
	Field       string `json:"field"`
	Requirement string `json:"requirement"`
	Message     string `json:"message"`
}

// Catalog is an immutable, parsed dataset shared by planning requests.
type Catalog struct {
	Version string
	Issues  []Issue

	entries map[string]*Entry
	order   []string
}

// Load decodes and builds a catalog from raw dataset bytes. The version is a
// hash of the bytes.
func Load(data []byte, opts BuildOptions) (*Catalog, error) {
	records, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	cat, err := Build(records, opts)
	if err != nil {
		return nil, err
	}
	cat.Version = util.HashKey(string(data))
	return cat, nil
}

// Build parses every requirement of every record.
func Build(records []CourseRecord, opts BuildOptions) (*Catalog, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	if opts.MaxCombos <= 0 {
		opts.MaxCombos = DefaultMaxCombos
	}

	cat := &Catalog{
		entries: make(map[string]*Entry, len(records)),
		order:   make([]string, 0, len(records)),
	}
	for _, rec := range records {
		if _, _, err := termsAndCredit(rec.Code); err != nil {
			return nil, err
		}
		if _, ok := cat.entries[rec.Code]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCourse, rec.Code)
		}
		cat.entries[rec.Code] = &Entry{Record: rec}
		cat.order = append(cat.order, rec.Code)
	}

	for _, code := range cat.order {
		e := cat.entries[code]
		var tree *requirements.Node
		e.Requirement = requirements.Normalize(e.Record.Prerequisites.String())
		e.Prerequisites, tree = cat.parseField(code, "prerequisites", e.Requirement, opts.MaxCombos)
		e.Corequisites, _ = cat.parseField(code, "corequisites", requirements.Normalize(e.Record.Corequisites.String()), opts.MaxCombos)
		e.Exclusions, _ = cat.parseField(code, "exclusions", requirements.Normalize(e.Record.Exclusions.String()), opts.MaxCombos)
		if tree != nil {
			for _, ref := range requirements.Leaves(tree) {
				if _, ok := cat.entries[ref]; !ok {
					e.Unresolved = append(e.Unresolved, ref)
				}
			}
		}
	}
	return cat, nil
}

func (c *Catalog) parseField(code, field, requirement string, maxCombos int) ([]requirements.Combo, *requirements.Node) {
	tree, err := requirements.Parse(requirement)
	if err == nil {
		var combos []requirements.Combo
		combos, err = requirements.CombosLimit(tree, maxCombos)
		if err == nil {
			return combos, tree
		}
	}
	c.Issues = append(c.Issues, Issue{
		Code:        code,
		Field:       field,
		Requirement: requirement,
		Message:     err.Error(),
	})
	telemetry.Warn("catalog.requirement_skipped", map[string]any{
		"course_code": code,
		"field":       field,
		"error":       err.Error(),
	})
	return nil, nil
}

// Registry builds a fresh registry holding every course of the catalog.
func (c *Catalog) Registry(completed []string) (*Registry, error) {
	reg := NewRegistry(completed)
	for _, code := range c.order {
		if _, err := reg.Register(code); err != nil {
			return nil, err
		}
		if err := reg.AttachPrereqs(code, c.entries[code].Prerequisites); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// PrerequisiteIssues returns the prerequisite parse issues of every course
// reachable from targets through prerequisite combos. Completed courses are
// not followed. Issues are in catalog order.
func (c *Catalog) PrerequisiteIssues(targets []string, completed map[string]bool) []Issue {
	reached := make(map[string]bool)
	queue := append([]string(nil), targets...)
	for len(queue) > 0 {
		code := queue[0]
		queue = queue[1:]
		if reached[code] || completed[code] {
			continue
		}
		e, ok := c.entries[code]
		if !ok {
			continue
		}
		reached[code] = true
		for _, combo := range e.Prerequisites {
			queue = append(queue, combo...)
		}
	}

	var out []Issue
	for _, issue := range c.Issues {
		if issue.Field == "prerequisites" && reached[issue.Code] {
			out = append(out, issue)
		}
	}
	return out
}

// Entry returns the parsed record for code.
func (c *Catalog) Entry(code string) (*Entry, bool) {
	e, ok := c.entries[code]
	return e, ok
}

// Has reports whether code is a course in the dataset.
func (c *Catalog) Has(code string) bool {
	_, ok := c.entries[code]
	return ok
}

// Missing returns the codes that are not courses in the dataset.
func (c *Catalog) Missing(codes []string) []string {
	var out []string
	for _, code := range codes {
		if !c.Has(code) {
			out = append(out, code)
		}
	}
	return out
}

// Codes returns every code in dataset order.
func (c *Catalog) Codes() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	return len(c.order)
}
