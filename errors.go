package lptpdf

import "fmt"

// Code identifies the kind of failure a public operation reported. Zero
// always means success; every other value is one stable identity a
// caller can switch on without parsing a message string.
type Code int

const (
	ErrNone Code = iota

	// API misuse.
	ErrBadHandle
	ErrBadFilename
	ErrNotOpen
	ErrBadErrno

	// File-state preconditions at open.
	ErrNotEmpty
	ErrNotPDF
	ErrNoAppend
	ErrNotProduced

	// Configuration errors.
	ErrActive
	ErrBadSet
	ErrInvalid
	ErrNegativeValue
	ErrUnknownFont
	ErrUnknownForm
	ErrInconsistentGeometry

	// Runtime I/O or data errors.
	ErrIO
	ErrOtherIO
	ErrBadJPEG

	// Invariant violations.
	ErrBugcheck
)

var codeMessages = map[Code]string{
	ErrNone:                 "success",
	ErrBadHandle:            "invalid context handle",
	ErrBadFilename:          "filename must end in .pdf",
	ErrNotOpen:              "context is not open",
	ErrBadErrno:             "unexpected system error",
	ErrNotEmpty:             "file is not empty",
	ErrNotPDF:               "file is not a PDF this engine produced",
	ErrNoAppend:             "append mode requires an existing, compatible PDF",
	ErrNotProduced:          "file was not produced by this engine",
	ErrActive:               "option cannot change after output has been produced",
	ErrBadSet:               "option cannot be set in this context",
	ErrInvalid:              "invalid option value",
	ErrNegativeValue:        "value must be positive",
	ErrUnknownFont:          "font is not one of the 14 core fonts",
	ErrUnknownForm:          "form is not one of the known form types",
	ErrInconsistentGeometry: "page geometry is internally inconsistent",
	ErrIO:                   "I/O error",
	ErrOtherIO:              "unexpected I/O condition",
	ErrBadJPEG:              "form image is not a usable JPEG",
	ErrBugcheck:             "internal invariant violated",
}

// Error is what every public operation returns on failure. Detail, when
// non-empty, is appended to the code's stock message by Error() and
// PError; Cause, when set, is the underlying error that triggered it
// (typically an *os.PathError for I/O codes).
type Error struct {
	Code   Code
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	msg := StrError(e.Code)
	if e.Detail != "" {
		msg = msg + ": " + e.Detail
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// StrError maps a Code to its stock message. Codes outside this
// package's range fall back to a generic message rather than panicking,
// since strerror is meant to be safe to call with any numeric input.
func StrError(code Code) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("unknown error code %d", code)
}
