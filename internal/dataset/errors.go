package dataset

import (
	"errors"
	"fmt"
)

// ErrEmptyInput indicates a file with no data rows.
var ErrEmptyInput = errors.New("no data rows in input")

// ParseError reports a malformed row. The whole parse is abandoned.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "parse error"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
