package requirements

import "errors"

var (
	ErrMalformedRequirement = errors.New("malformed requirement")
	ErrTooManyCombos        = errors.New("too many requirement combinations")
)
