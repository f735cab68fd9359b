// Package errclass defines stable, machine-readable error classes.
package errclass

import "fmt"

// CodedError is an error class identified by a stable code.
// Two CodedErrors match under errors.Is when their codes are equal.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	msg := e.Code
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *CodedError) Is(target error) bool {
	t, ok := target.(*CodedError)
	return ok && e.Code == t.Code
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WithMessage returns a new CodedError with the same Code but a specific message.
func (e *CodedError) WithMessage(msg string) *CodedError {
	return &CodedError{Code: e.Code, Message: msg, Cause: e.Cause}
}

// WithMessagef returns a new CodedError with a formatted message.
func (e *CodedError) WithMessagef(format string, args ...any) *CodedError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithCause returns a new CodedError wrapping err.
func (e *CodedError) WithCause(err error) *CodedError {
	return &CodedError{Code: e.Code, Message: e.Message, Cause: err}
}

var (
	ErrDestExists         = &CodedError{Code: "E_DEST_EXISTS"}
	ErrDestCreate         = &CodedError{Code: "E_DEST_CREATE"}
	ErrReflinkUnsupported = &CodedError{Code: "E_REFLINK_UNSUPPORTED"}
	ErrCloneFailed        = &CodedError{Code: "E_CLONE_FAILED"}
	ErrEngineUnknown      = &CodedError{Code: "E_ENGINE_UNKNOWN"}
	ErrConfigInvalid      = &CodedError{Code: "E_CONFIG_INVALID"}
	ErrPathOverlap        = &CodedError{Code: "E_PATH_OVERLAP"}
)
