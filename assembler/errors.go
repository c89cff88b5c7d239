package assembler

import "fmt"

// ErrorKind enumerates every parse/resolution failure the assembler can
// report (spec.md §4.7's error-kind catalogue).
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrBadLabel
	ErrBadLabelExt
	ErrBadNameReg
	ErrBadNameID
	ErrBadIntegerName
	ErrBadNumberOperands
	ErrBadOperationName
	ErrBadOperand
	ErrBadFieldMissingName
	ErrBadMetadataBound
	ErrBadMetadataUnknownAttribute
	ErrBadMetadataUnexpectedValue
	ErrBadMetadataMultipleAttribute
	ErrBadMetadataInvalidValue
	ErrBadStringUnknownEscapeSequence
	ErrBadStringInvalidHexEscapeSequence
	ErrBadArrayTypeBound
	ErrBadIDRecord
	ErrBadIDField
	ErrBadIDFunction
	ErrBadRecordName
	ErrBadDirectiveDeclaration
	ErrIncorrectDirectiveLocation
	ErrMultipleDirectives
	ErrUnknownLanguage
	ErrFunctionArgumentMismatch
	ErrRepeatingFieldName

	WarUnexpectedTypeID
)

var errorKindNames = map[ErrorKind]string{
	ErrNone:                              "ERR_NONE",
	ErrBadLabel:                          "ERR_BAD_LABEL",
	ErrBadLabelExt:                       "ERR_BAD_LABEL_EXT",
	ErrBadNameReg:                        "ERR_BAD_NAME_REG",
	ErrBadNameID:                         "ERR_BAD_NAME_ID",
	ErrBadIntegerName:                    "ERR_BAD_INTEGER_NAME",
	ErrBadNumberOperands:                 "ERR_BAD_NUMBER_OPERANDS",
	ErrBadOperationName:                  "ERR_BAD_OPERATION_NAME",
	ErrBadOperand:                        "ERR_BAD_OPERAND",
	ErrBadFieldMissingName:               "ERR_BAD_FIELD_MISSING_NAME",
	ErrBadMetadataBound:                  "ERR_BAD_METADATA_BOUND",
	ErrBadMetadataUnknownAttribute:       "ERR_BAD_METADATA_UNKNOWN_ATTRIBUTE",
	ErrBadMetadataUnexpectedValue:        "ERR_BAD_METADATA_UNEXPECTED_VALUE",
	ErrBadMetadataMultipleAttribute:      "ERR_BAD_METADATA_MULTIPLE_ATTRIBUTE",
	ErrBadMetadataInvalidValue:           "ERR_BAD_METADATA_INVALID_VALUE",
	ErrBadStringUnknownEscapeSequence:    "ERR_BAD_STRING_UNKNOWN_ESCAPE_SEQUENCE",
	ErrBadStringInvalidHexEscapeSequence: "ERR_BAD_STRING_INVALID_HEX_ESCAPE_SEQUENCE",
	ErrBadArrayTypeBound:                 "ERR_BAD_ARRAY_TYPE_BOUND",
	ErrBadIDRecord:                       "ERR_BAD_ID_RECORD",
	ErrBadIDField:                        "ERR_BAD_ID_FIELD",
	ErrBadIDFunction:                     "ERR_BAD_ID_FUNCTION",
	ErrBadRecordName:                     "ERR_BAD_RECORD_NAME",
	ErrBadDirectiveDeclaration:           "ERR_BAD_DIRECTIVE_DECLARATION",
	ErrIncorrectDirectiveLocation:        "ERR_INCORRECT_DIRECTIVE_LOCATION",
	ErrMultipleDirectives:                "ERR_MULTIPLE_DIRECTIVES",
	ErrUnknownLanguage:                   "ERR_UNKNOWN_LANGUAGE",
	ErrFunctionArgumentMismatch:          "ERR_FUNCTION_ARGUMENT_MISMATCH",
	ErrRepeatingFieldName:                "ERR_REPEATING_FIELD_NAME",
	WarUnexpectedTypeID:                  "WAR_UNEXPECTED_TYPE_ID",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// IsWarning reports whether k is a warning kind rather than a hard error.
func (k ErrorKind) IsWarning() bool { return k == WarUnexpectedTypeID }

// Error is one parse or resolution failure, carrying its source position.
type Error struct {
	Kind    ErrorKind
	Line    int // 1-based
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", "line", e.Line, e.Kind, e.Message)
}

// ErrorList accumulates errors and warnings the way the teacher's
// Anomalies []string accumulates PE format anomalies: append and keep
// going, instead of returning on first problem.
type ErrorList struct {
	Errors   []*Error
	Warnings []*Error
}

func (l *ErrorList) addError(kind ErrorKind, line, col int, format string, args ...any) *Error {
	e := &Error{Kind: kind, Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
	if kind.IsWarning() {
		l.Warnings = append(l.Warnings, e)
	} else {
		l.Errors = append(l.Errors, e)
	}
	return e
}

// HasErrors reports whether any hard (non-warning) error was recorded.
func (l *ErrorList) HasErrors() bool { return len(l.Errors) > 0 }

// First returns the first hard error, or nil if there is none.
func (l *ErrorList) First() *Error {
	if len(l.Errors) == 0 {
		return nil
	}
	return l.Errors[0]
}
