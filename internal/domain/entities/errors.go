package entities

import (
	"errors"
	"fmt"
)

// NotFoundError reports that the targeted version, tag or image does not
// exist in a given backend. It is always distinguished from CommandError so
// orchestration can tell "nothing to delete" apart from a failed delete.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// NewNotFoundError creates a NotFoundError with a formatted message.
func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// CommandError reports an unexpected backend or API failure: malformed
// response, rate limit, permission problem, missing expected response field.
type CommandError struct {
	Msg string
	Err error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// NewCommandError creates a CommandError with a formatted message and no cause.
func NewCommandError(format string, args ...interface{}) *CommandError {
	return &CommandError{Msg: fmt.Sprintf(format, args...)}
}

// WrapCommandError creates a CommandError wrapping an underlying cause.
func WrapCommandError(err error, format string, args ...interface{}) *CommandError {
	return &CommandError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// InvalidVersionError reports input that does not parse as a semantic version.
type InvalidVersionError struct {
	Input string
	Err   error
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %v", e.Input, e.Err)
}

func (e *InvalidVersionError) Unwrap() error { return e.Err }

// InvalidBumpError reports a bump kind that cannot be applied to the given
// version, e.g. promoting an already-finalized version.
type InvalidBumpError struct {
	Msg string
}

func (e *InvalidBumpError) Error() string { return e.Msg }

// NewInvalidBumpError creates an InvalidBumpError with a formatted message.
func NewInvalidBumpError(format string, args ...interface{}) *InvalidBumpError {
	return &InvalidBumpError{Msg: fmt.Sprintf(format, args...)}
}

// ConfigError reports missing or unusable local configuration (tokens,
// credential context). It is raised before any network call is attempted and
// is never conflated with a backend error.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}
