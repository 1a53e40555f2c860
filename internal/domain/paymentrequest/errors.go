package paymentrequest

import "errors"

var (
	ErrRequestNotFound = errors.New("payment request not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidCourse   = errors.New("course does not exist")
)
