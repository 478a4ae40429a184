package course

import (
	"fmt"
	"strings"
)

// DefinitionError aborts a load. It names the offending definition file and
// wraps the specific violation.
type DefinitionError struct {
	Path string
	Err  error
}

func (e *DefinitionError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *DefinitionError) Unwrap() error { return e.Err }

// DefinitionParseError reports malformed YAML or a path that does not follow
// the "<Name> (<ABBR>)/<type>/<file>" convention.
type DefinitionParseError struct {
	Reason string
	Line   int
}

func (e *DefinitionParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// FieldTypeError reports a value whose kind is not one of the declared kinds.
type FieldTypeError struct {
	Record   string
	Field    string
	Expected []Kind
	Actual   Kind
	Line     int
}

func (e *FieldTypeError) Error() string {
	exp := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		exp[i] = k.String()
	}
	return fmt.Sprintf("the key '%s' in %s expected '%s' but got '%s' instead (line %d)",
		e.Field, e.Record, strings.Join(exp, " | "), e.Actual, e.Line)
}

// MissingFieldError reports a required key that is absent.
type MissingFieldError struct {
	Record string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("the key '%s' is required in %s", e.Field, e.Record)
}

// UnknownFieldError reports a key that the record does not declare.
type UnknownFieldError struct {
	Record string
	Field  string
	Line   int
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("invalid key '%s' in %s (line %d)", e.Field, e.Record, e.Line)
}

// InvalidValueError reports a well-typed value that breaks a record invariant.
type InvalidValueError struct {
	Record string
	Field  string
	Value  any
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %v for '%s' in %s: %s", e.Value, e.Field, e.Record, e.Reason)
}

// InvalidIdentifierError is returned for unrecognised identifiers such as day names.
type InvalidIdentifierError struct {
	Kind  string
	Value string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid %s '%s'", e.Kind, e.Value)
}
