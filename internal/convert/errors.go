package convert

import (
	"errors"
	"fmt"
)

// FacadeErrorCode identifies the category of a conversion failure that
// originates in the facade itself rather than in the codec.
type FacadeErrorCode string

const (
	// CodeMissingRefineInstructions indicates a block without embedded
	// instruction text.
	CodeMissingRefineInstructions FacadeErrorCode = "MISSING_REFINE_INSTRUCTIONS"

	// CodeRecordCountMismatch indicates the decoded atom set does not
	// match the block's atom table.
	CodeRecordCountMismatch FacadeErrorCode = "RECORD_COUNT_MISMATCH"
)

// FacadeError is a structured conversion failure.
type FacadeError struct {
	Code    FacadeErrorCode
	Message string
}

// Error implements the error interface.
func (e *FacadeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewMissingRefineInstructions creates an error for a block without
// instruction text.
func NewMissingRefineInstructions() *FacadeError {
	return &FacadeError{
		Code: CodeMissingRefineInstructions,
		Message: fmt.Sprintf("no refine instructions (%s, %s) found in block",
			entryRefineInstructions, entryResFile),
	}
}

// NewRecordCountMismatch creates an error for an atom table that does
// not cover the decoded record set.
func NewRecordCountMismatch(table, detail string) *FacadeError {
	return &FacadeError{
		Code:    CodeRecordCountMismatch,
		Message: fmt.Sprintf("atoms in the instruction text do not match the %s table: %s", table, detail),
	}
}

// IsMissingRefineInstructions checks whether an error reports absent
// instruction text.
func IsMissingRefineInstructions(err error) bool {
	return hasCode(err, CodeMissingRefineInstructions)
}

// IsRecordCountMismatch checks whether an error reports a mismatched
// atom set.
func IsRecordCountMismatch(err error) bool {
	return hasCode(err, CodeRecordCountMismatch)
}

func hasCode(err error, code FacadeErrorCode) bool {
	var facadeErr *FacadeError
	if errors.As(err, &facadeErr) {
		return facadeErr.Code == code
	}
	return false
}
