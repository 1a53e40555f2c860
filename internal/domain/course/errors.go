package course

import "errors"

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrInvalidCategory = errors.New("category does not exist")
	ErrInvalidTag      = errors.New("one or more tags do not exist")
)
