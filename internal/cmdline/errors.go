package cmdline

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes invocation errors.
type ErrorCode string

const (
	// ErrCodeMalformed indicates the executable path could not be located in
	// the command line (unterminated quote or no ".exe").
	ErrCodeMalformed ErrorCode = "MALFORMED_INVOCATION"

	// ErrCodeUnsupportedTask indicates the event came from a task other than
	// cl, link or lib. Callers are expected to ignore it.
	ErrCodeUnsupportedTask ErrorCode = "UNSUPPORTED_TASK"
)

// InvocationError reports why a single invocation could not be recorded.
type InvocationError struct {
	Code        ErrorCode
	Message     string
	CommandLine string
}

func (e *InvocationError) Error() string {
	if e.CommandLine != "" {
		return fmt.Sprintf("%s: %s in %q", e.Code, e.Message, e.CommandLine)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMalformed reports whether err is (or wraps) a malformed invocation error.
func IsMalformed(err error) bool {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeMalformed
	}
	return false
}

// IsUnsupportedTask reports whether err is (or wraps) an unsupported task error.
func IsUnsupportedTask(err error) bool {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeUnsupportedTask
	}
	return false
}

func malformed(commandLine, message string) *InvocationError {
	return &InvocationError{Code: ErrCodeMalformed, Message: message, CommandLine: commandLine}
}
