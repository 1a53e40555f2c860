package sponsor

import "errors"

var (
	ErrSponsorNotFound    = errors.New("sponsor not found")
	ErrAllocationNotFound = errors.New("allocation not found")
	ErrInsufficientFunds  = errors.New("insufficient sponsor balance")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidCourse      = errors.New("course does not exist")
)
