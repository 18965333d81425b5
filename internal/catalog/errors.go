package catalog

import "errors"

var (
	ErrInvalidCourseCode = errors.New("invalid course code")
	ErrDuplicateCourse   = errors.New("duplicate course")
	ErrPrereqsAttached   = errors.New("prerequisites already attached")
	ErrUnknownCourse     = errors.New("unknown course")
	ErrEmptyDataset      = errors.New("empty dataset")
)
