// Package errors provides structured error types and exit codes for simtest.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // No failing tests and no system errors
	ExitRuntimeError     = 1 // Failing tests, failed runs, or a command error
	ExitConfigError      = 2 // Configuration or usage error
	ExitEnvironmentError = 3 // Environment error (simulator missing, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindEnvironment
)

// Error is the base error type for simtest.
type Error struct {
	Kind    ErrorKind
	Message string
	File    string // Script path if applicable
	Command string // Simulator subcommand if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	if e.File != "" && e.Command != "" {
		return fmt.Sprintf("[%s] %s: %s", e.File, e.Command, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("[%s] %s", e.File, e.Message)
	}
	if e.Command != "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation, KindNotFound:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// Config creates a new configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Validation wraps a validation failure of a configuration source.
func Validation(source string, cause error) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s: %v", source, cause),
		Cause:   cause,
	}
}

// Environment creates a new environment error.
func Environment(message string) *Error {
	return &Error{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// CommandError creates an error for a failed simulator subcommand.
func CommandError(command, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Command: command,
		Message: message,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var se *Error
	if stderrors.As(err, &se) {
		return se.ExitCode()
	}
	return ExitRuntimeError
}
