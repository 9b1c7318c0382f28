package afix

import (
	"errors"
	"fmt"
	"strings"
)

// CodecErrorCode identifies the category of a codec failure.
type CodecErrorCode string

const (
	// CodeUnsupportedShape indicates a shape digit outside the idealization table.
	CodeUnsupportedShape CodecErrorCode = "UNSUPPORTED_SHAPE_CODE"

	// CodeUnsupportedDof indicates a degrees-of-freedom digit without a policy
	// mapping (0, 2, and non-continuation 5).
	CodeUnsupportedDof CodecErrorCode = "UNSUPPORTED_DOF_CODE"

	// CodeMalformedDirective indicates an unparseable directive or atom line.
	CodeMalformedDirective CodecErrorCode = "MALFORMED_DIRECTIVE"

	// CodeAttachmentCycle indicates the attachment graph is not a forest.
	CodeAttachmentCycle CodecErrorCode = "ATTACHMENT_CYCLE"

	// CodeGraphNotEncodable indicates a record list no single instruction
	// stream can reproduce.
	CodeGraphNotEncodable CodecErrorCode = "GRAPH_NOT_ENCODABLE"
)

// CodecError is a structured codec failure with enough context to point
// at the offending line or record.
type CodecError struct {
	Code    CodecErrorCode
	Message string

	// Line is the 1-based stream line, when decoding. Zero when encoding.
	Line int

	// Label is the offending atom label, when one is known.
	Label string
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Code, e.Message)
	if e.Line > 0 {
		fmt.Fprintf(&sb, " (line %d)", e.Line)
	}
	if e.Label != "" {
		fmt.Fprintf(&sb, " (atom %s)", e.Label)
	}
	return sb.String()
}

// NewUnsupportedShapeCode creates an error for a shape digit outside the table.
func NewUnsupportedShapeCode(m int) *CodecError {
	return &CodecError{
		Code:    CodeUnsupportedShape,
		Message: fmt.Sprintf("shape code m=%d has no idealization", m),
	}
}

// NewUnsupportedDofCode creates an error for an unmapped degrees-of-freedom digit.
func NewUnsupportedDofCode(n int) *CodecError {
	return &CodecError{
		Code:    CodeUnsupportedDof,
		Message: fmt.Sprintf("degrees-of-freedom code n=%d has no refinement policy", n),
	}
}

// NewMalformedDirective creates an error for an unparseable stream line.
func NewMalformedDirective(line int, reason string) *CodecError {
	return &CodecError{
		Code:    CodeMalformedDirective,
		Message: reason,
		Line:    line,
	}
}

// NewAttachmentCycle creates an error for a cyclic attachment path.
// The path lists the labels along the cycle, first label repeated at the end.
func NewAttachmentCycle(path []string) *CodecError {
	return &CodecError{
		Code:    CodeAttachmentCycle,
		Message: fmt.Sprintf("attachment cycle: %s", strings.Join(path, " -> ")),
		Label:   path[0],
	}
}

// NewGraphNotEncodable creates an error for a record list that no
// instruction stream can express.
func NewGraphNotEncodable(label, reason string) *CodecError {
	return &CodecError{
		Code:    CodeGraphNotEncodable,
		Message: reason,
		Label:   label,
	}
}

// IsUnsupportedShapeCode checks if an error is an unsupported-shape failure.
func IsUnsupportedShapeCode(err error) bool {
	return hasCode(err, CodeUnsupportedShape)
}

// IsUnsupportedDofCode checks if an error is an unsupported-dof failure.
func IsUnsupportedDofCode(err error) bool {
	return hasCode(err, CodeUnsupportedDof)
}

// IsMalformedDirective checks if an error is a malformed-line failure.
func IsMalformedDirective(err error) bool {
	return hasCode(err, CodeMalformedDirective)
}

// IsAttachmentCycle checks if an error is a cyclic-attachment failure.
func IsAttachmentCycle(err error) bool {
	return hasCode(err, CodeAttachmentCycle)
}

// IsGraphNotEncodable checks if an error is a not-encodable failure.
func IsGraphNotEncodable(err error) bool {
	return hasCode(err, CodeGraphNotEncodable)
}

func hasCode(err error, code CodecErrorCode) bool {
	var codecErr *CodecError
	if errors.As(err, &codecErr) {
		return codecErr.Code == code
	}
	return false
}
