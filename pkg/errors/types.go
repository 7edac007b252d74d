// Package errors provides the structured error type used across interpose.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Terminal errors
	ErrCodeTerminalInit ErrorCode = "TERMINAL_INIT"

	// UI errors
	ErrCodeChannelClosed ErrorCode = "CHANNEL_CLOSED"
	ErrCodeModalActive   ErrorCode = "MODAL_ACTIVE"

	// Generic errors
	ErrCodeInternal     ErrorCode = "INTERNAL"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Error represents a structured interpose error
type Error struct {
	Code        ErrorCode
	Message     string
	Underlying  error
	Context     map[string]any
	Stack       []Frame
	UserMessage string
}

// Frame represents a stack frame
type Frame struct {
	Function string
	File     string
	Line     int
}

// New creates a new structured error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
		Stack:   captureStack(2), // Skip New and caller
	}
}

// Wrap wraps an existing error with a code and message
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]any),
		Stack:      captureStack(2),
	}
}

// WithContext adds context key-value pairs to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithUserMessage sets the human-friendly message printed by the CLI.
func (e *Error) WithUserMessage(message string) *Error {
	e.UserMessage = message
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s: %v", k, e.Context[k]))
		}
		sb.WriteString("}")
	}

	if e.Underlying != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Underlying))
	}

	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Underlying
}

// StackTrace returns a formatted stack trace
func (e *Error) StackTrace() string {
	var sb strings.Builder

	sb.WriteString("Stack trace:\n")
	for i, frame := range e.Stack {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, frame.String()))
		sb.WriteString(fmt.Sprintf("     %s:%d\n", frame.File, frame.Line))
	}

	return sb.String()
}

// String formats a stack frame
func (f Frame) String() string {
	return f.Function
}

// captureStack captures the current call stack
func captureStack(skip int) []Frame {
	const maxDepth = 32
	var pcs [maxDepth]uintptr

	n := runtime.Callers(skip+1, pcs[:])
	frames := make([]Frame, 0, n)

	callers := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := callers.Next()
		frames = append(frames, Frame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more {
			break
		}
	}

	return frames
}

// As returns the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode checks if any *Error in err's chain has the given code
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		e, ok := As(err)
		if !ok {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Underlying
	}
	return false
}

// GetCode extracts the error code from an error. Plain errors report INTERNAL.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	e, ok := As(err)
	if !ok {
		return ErrCodeInternal
	}

	return e.Code
}

// UserMessage returns the friendliest message available for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok && e.UserMessage != "" {
		return e.UserMessage
	}
	return err.Error()
}
