package profile

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the category of a profile failure.
type ErrorCode string

const (
	// CodeUnreadable indicates a profile that could not be read or
	// decoded at all.
	CodeUnreadable ErrorCode = "PROFILE_UNREADABLE"

	// CodeSchemaViolation indicates a well-formed document that does not
	// satisfy the profile schema.
	CodeSchemaViolation ErrorCode = "PROFILE_SCHEMA_VIOLATION"

	// CodeMissingEntry indicates a block lacking an entry a command
	// declares as required.
	CodeMissingEntry ErrorCode = "PROFILE_MISSING_ENTRY"
)

// Error is a structured profile failure. Field carries the schema path
// or entry name the failure is about.
type Error struct {
	Code    ErrorCode
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewUnreadable creates an error for an unreadable or undecodable
// profile.
func NewUnreadable(source string, cause error) *Error {
	return &Error{Code: CodeUnreadable, Field: source, Message: cause.Error()}
}

// NewSchemaViolation creates an error for a schema violation at a field
// path.
func NewSchemaViolation(field, message string) *Error {
	return &Error{Code: CodeSchemaViolation, Field: field, Message: message}
}

// NewMissingEntry creates an error for a required entry a block does
// not carry.
func NewMissingEntry(name string) *Error {
	return &Error{Code: CodeMissingEntry, Field: name, Message: "required entry is absent from the block"}
}

// IsSchemaViolation checks whether an error reports a schema violation.
func IsSchemaViolation(err error) bool {
	return hasCode(err, CodeSchemaViolation)
}

// IsMissingEntry checks whether an error reports an absent required
// entry.
func IsMissingEntry(err error) bool {
	return hasCode(err, CodeMissingEntry)
}

func hasCode(err error, code ErrorCode) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == code
}
