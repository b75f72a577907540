package notation

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned when a question document lacks the
// required question or answer block.
var ErrInvalidFormat = errors.New("invalid input format")

// ParseError reports a structured document that could not be decoded.
// The schema returned alongside it is always empty.
type ParseError struct {
	Dialect Dialect
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s notation, line %d: %s", e.Dialect, e.Line, msg)
	}
	return fmt.Sprintf("%s notation: %s", e.Dialect, msg)
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
