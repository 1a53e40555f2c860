package taxonomy

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrCategoryInUse    = errors.New("category still has courses attached")
	ErrDuplicateName    = errors.New("name already exists")
)
