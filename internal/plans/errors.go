package plans

import (
	"errors"
	"strings"

	"course-planner/internal/catalog"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrTimeout      = errors.New("planning timed out")
)

// UnknownCoursesError lists request codes that are not in the catalog.
type UnknownCoursesError struct {
	Codes []string
}

func (e *UnknownCoursesError) Error() string {
	return "unknown course: " + strings.Join(e.Codes, ", ")
}

func (e *UnknownCoursesError) Unwrap() error {
	return catalog.ErrUnknownCourse
}
