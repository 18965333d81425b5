package catalog

import (
	"fmt"
	"sort"

	"course-planner/internal/requirements"
)

const (
	halfCourseCredit = 0.5
	fullCourseCredit = 1.0
)

// Course is a course known to a Registry.
type Course struct {
	Code          string
	CreditValue   float64
	Duration      int // terms
	Prerequisites []requirements.Combo

	attached bool
}

// Registry maps codes to courses for one planning request, together with the
// set of courses the learner has already completed.
type Registry struct {
	courses   map[string]*Course
	completed map[string]bool
}

// NewRegistry returns an empty registry for the given completed courses.
func NewRegistry(completed []string) *Registry {
	done := make(map[string]bool, len(completed))
	for _, code := range completed {
		done[code] = true
	}
	return &Registry{
		courses:   make(map[string]*Course),
		completed: done,
	}
}

// Register creates and stores a course. Duration and credit come from the
// second-to-last character of the code: H is one term and half a credit, Y
// is two terms and a full credit.
func (r *Registry) Register(code string) (*Course, error) {
	if _, ok := r.courses[code]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCourse, code)
	}
	duration, credit, err := termsAndCredit(code)
	if err != nil {
		return nil, err
	}
	c := &Course{Code: code, CreditValue: credit, Duration: duration}
	r.courses[code] = c
	return c, nil
}

// AttachPrereqs sets a course's prerequisite combos. It may be called once per course.
func (r *Registry) AttachPrereqs(code string, combos []requirements.Combo) error {
	c, ok := r.courses[code]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCourse, code)
	}
	if c.attached {
		return fmt.Errorf("%w: %s", ErrPrereqsAttached, code)
	}
	c.Prerequisites = combos
	c.attached = true
	return nil
}

// Lookup returns the course for code. A miss is normal: requirements may
// reference programs or courses outside the dataset.
func (r *Registry) Lookup(code string) (*Course, bool) {
	c, ok := r.courses[code]
	return c, ok
}

// IsCompleted reports whether the learner has completed code.
func (r *Registry) IsCompleted(code string) bool {
	return r.completed[code]
}

// Completed returns the completed set. Callers must not modify it.
func (r *Registry) Completed() map[string]bool {
	return r.completed
}

// Len returns the number of registered courses.
func (r *Registry) Len() int {
	return len(r.courses)
}

// Codes returns every registered code in sorted order.
func (r *Registry) Codes() []string {
	out := make([]string, 0, len(r.courses))
	for code := range r.courses {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func termsAndCredit(code string) (int, float64, error) {
	if !requirements.IsCourseCode(code) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCourseCode, code)
	}
	switch code[len(code)-2] {
	case 'H':
		return 1, halfCourseCredit, nil
	case 'Y':
		return 2, fullCourseCredit, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q has no H/Y length marker", ErrInvalidCourseCode, code)
	}
}
