package world

import (
	"errors"
	"fmt"
)

// ParseError is returned when the descriptor is not well-formed YAML, when its
// root is not a mapping, or when a duplicate key is met under the reject policy.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

// Error ...
func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error: line %d: %s", e.Line, msg)
	}
	return "parse error: " + msg
}

// Unwrap ...
func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when a required key is absent. Field is the
// dotted key path, e.g. "enclosure size" or "camera1.clipping plane".
type MissingFieldError struct {
	Field string
}

// Error ...
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// DanglingReferenceError is returned when a name listed under lights or
// cameras has no top-level definition.
type DanglingReferenceError struct {
	Kind string // "light" or "camera"
	Name string
}

// Error ...
func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s %q is listed but not defined", e.Kind, e.Name)
}

// MalformedReferenceError is returned when a parent value matches neither the
// local nor the absolute BODY reference grammar.
type MalformedReferenceError struct {
	Field string
	Raw   string
}

// Error ...
func (e *MalformedReferenceError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed parent reference %q", e.Raw)
	}
	return fmt.Sprintf("%s: malformed parent reference %q", e.Field, e.Raw)
}

// InvalidValueError is returned, or reported as a warning in advisory mode,
// when a value breaks its numeric constraint.
type InvalidValueError struct {
	Field      string
	Value      any
	Constraint string
}

// Error ...
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: invalid value %v (must be %s)", e.Field, e.Value, e.Constraint)
}

// Warnings holds the invalid values tolerated by an advisory load.
type Warnings []*InvalidValueError

// Err joins the warnings into a single error, or returns nil when there are none.
func (w Warnings) Err() error {
	if len(w) == 0 {
		return nil
	}
	errs := make([]error, len(w))
	for i, v := range w {
		errs[i] = v
	}
	return errors.Join(errs...)
}

// Kind classifies a load error. It returns "" for a nil error.
func Kind(err error) string {
	var (
		parseErr     *ParseError
		missingErr   *MissingFieldError
		danglingErr  *DanglingReferenceError
		malformedErr *MalformedReferenceError
		invalidErr   *InvalidValueError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &missingErr):
		return "missing_field"
	case errors.As(err, &danglingErr):
		return "dangling_reference"
	case errors.As(err, &malformedErr):
		return "malformed_reference"
	case errors.As(err, &invalidErr):
		return "invalid_value"
	default:
		return "unknown"
	}
}
