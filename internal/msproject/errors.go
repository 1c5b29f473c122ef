package msproject

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed means the input is not well-formed XML.
	ErrMalformed = errors.New("malformed xml")
	// ErrNotProject means the document root is not a Project element.
	ErrNotProject = errors.New("root element is not Project")
	// ErrNoTasks means the Project element has no Tasks container.
	ErrNoTasks = errors.New("project has no Tasks element")
)

// ParseError reports a document-level failure. No partial project is ever
// returned alongside it.
type ParseError struct {
	Kind  error // one of ErrMalformed, ErrNotProject, ErrNoTasks
	Line  int   // 1-based line of a syntax error, 0 if unknown
	Cause error
}

func (e *ParseError) Error() string {
	msg := "msproject: " + e.Kind.Error()
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
