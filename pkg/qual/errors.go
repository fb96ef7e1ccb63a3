package qual

import "fmt"

// NotFoundError is returned when the variant-call file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("variant file %s not found", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// MalformedRecordError is returned for a record with too few fields to reach
// the requested column.
type MalformedRecordError struct {
	Line   int
	Fields int
	Want   int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: record has %d fields, need at least %d", e.Line, e.Fields, e.Want)
}

// ParseError is returned when the requested column is not a number.
type ParseError struct {
	Line  int
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: cannot parse %q as a number", e.Line, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
