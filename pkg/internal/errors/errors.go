// Package errors defines the stable error codes reported by fractulus.
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable error code string.
type Code string

const (
	EUsage    Code = "E_USAGE"
	EInternal Code = "E_INTERNAL"

	// Project discovery
	EConfigNotFound Code = "E_CONFIG_NOT_FOUND"
	EInvalidConfig  Code = "E_INVALID_CONFIG"

	// Scaffolding
	EDestinationCollision Code = "E_DESTINATION_COLLISION"
	EDirectoryCreate      Code = "E_DIRECTORY_CREATE"
	ETemplateRender       Code = "E_TEMPLATE_RENDER"
	ETemplateNotFound     Code = "E_TEMPLATE_NOT_FOUND"
	ECommitFailed         Code = "E_COMMIT_FAILED"
	EPromptFailed         Code = "E_PROMPT_FAILED"

	// External tools
	ESubprocess       Code = "E_SUBPROCESS"
	EBundlerNotFound  Code = "E_BUNDLER_NOT_FOUND"
	EToolNotInstalled Code = "E_TOOL_NOT_INSTALLED"
)

// ScaffoldError is the standard error type returned by fractulus packages.
type ScaffoldError struct {
	Code  Code
	Msg   string
	Cause error
}

// Error returns the stable error format: "CODE: message".
func (e *ScaffoldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *ScaffoldError) Unwrap() error {
	return e.Cause
}

// New creates a new ScaffoldError with the given code and message.
func New(code Code, msg string) error {
	return &ScaffoldError{Code: code, Msg: msg}
}

// Newf creates a new ScaffoldError with a formatted message.
func Newf(code Code, format string, args ...interface{}) error {
	return &ScaffoldError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a new ScaffoldError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &ScaffoldError{Code: code, Msg: msg, Cause: err}
}

// GetCode extracts the error code from an error, or empty string if not a ScaffoldError.
func GetCode(err error) Code {
	var se *ScaffoldError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// Message returns the human readable part of err, including the cause when
// one is attached.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var se *ScaffoldError
	if !errors.As(err, &se) {
		return err.Error()
	}
	if se.Cause != nil {
		return fmt.Sprintf("%s: %v", se.Msg, se.Cause)
	}
	return se.Msg
}

// ExitCode returns the process exit code for an error: 0 for nil, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
