package translation

import "errors"

var (
	ErrInvalidKind   = errors.New("unknown entity kind")
	ErrInvalidLocale = errors.New("invalid locale")
)
