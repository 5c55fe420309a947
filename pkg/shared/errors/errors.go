package errors

import (
	"errors"
	"fmt"
)

const (
	ExitCodeFailure      = 1
	ExitCodeUsage        = 2
	ExitCodeScanFindings = 3
)

// RequestError is a failed call to the scanning service: a transport fault,
// a non-success status or an undecodable body.
type RequestError struct {
	Operation  string
	StatusCode int
	Detail     string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Detail)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError wraps a transport-level error.
func NewRequestError(operation string, err error) *RequestError {
	return &RequestError{Operation: operation, Detail: err.Error(), Err: err}
}

// NewStatusError describes a response with a non-success status code.
func NewStatusError(operation string, status int, detail string) *RequestError {
	return &RequestError{Operation: operation, StatusCode: status, Detail: detail}
}

// IsRequestError reports whether err wraps a RequestError.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// PreconditionError is a caller-side violation detected before any request is made.
type PreconditionError struct {
	Field  string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewPreconditionError(field, reason string) error {
	return &PreconditionError{Field: field, Reason: reason}
}

// IsPreconditionError reports whether err wraps a PreconditionError.
func IsPreconditionError(err error) bool {
	var pErr *PreconditionError
	return errors.As(err, &pErr)
}

// CommandError carries the exit code a command wants the process to end with.
type CommandError struct {
	ExitCode int
	Message  string
	Err      error
}

func (e *CommandError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a CommandError, deriving the exit code from err when code is 0.
func NewCommandError(err error, code int) *CommandError {
	if code == 0 {
		code = ExitCodeFailure
		if IsPreconditionError(err) {
			code = ExitCodeUsage
		}
	}
	return &CommandError{ExitCode: code, Message: err.Error(), Err: err}
}

// ExitCode returns the exit code for err, 0 when err is nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	if IsPreconditionError(err) {
		return ExitCodeUsage
	}
	return ExitCodeFailure
}
