package personality

import "errors"

var (
	ErrLengthMismatch     = errors.New("response count does not match question bank")
	ErrResponseOutOfRange = errors.New("response out of range")
	ErrInvalidDirection   = errors.New("invalid question direction")
	ErrUnknownQuestion    = errors.New("unknown question")
	ErrUnknownType        = errors.New("unknown personality type")
)
