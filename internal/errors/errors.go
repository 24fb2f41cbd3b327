package errors

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/habitlit/internal/logger"
)

var (
	// ErrNotFound is returned when a habit is absent, inactive, or owned by someone else
	ErrNotFound = stderrors.New("not found")
	// ErrInvalidInput is returned for malformed dates, non-positive counts and out-of-range fields
	ErrInvalidInput = stderrors.New("invalid input")
	// ErrTransient is returned when storage is unavailable; callers may retry
	ErrTransient = stderrors.New("storage unavailable")
)

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// ValidationError collects field-level problems. It unwraps to ErrInvalidInput.
type ValidationError struct {
	Fields []FieldError
}

// Add appends a field problem
func (v *ValidationError) Add(field, format string, args ...interface{}) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// HasErrors returns true if any field problem was recorded
func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// OrNil returns v as an error if it has problems, nil otherwise
func (v *ValidationError) OrNil() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%v: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

func (v *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Invalid builds a single-field ValidationError
func Invalid(field, format string, args ...interface{}) error {
	v := &ValidationError{}
	v.Add(field, format, args...)
	return v
}

// NotFound wraps ErrNotFound with the kind and id of the missing object
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// Transient wraps err so that errors.Is(err, ErrTransient) holds
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// IsConnectionError reports whether err looks like a lost or unreachable database connection
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, driver.ErrBadConn) || stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "sql: database is closed")
}

// Fields extracts field-level detail from an InvalidInput error, if any
func Fields(err error) []FieldError {
	var v *ValidationError
	if stderrors.As(err, &v) {
		return v.Fields
	}
	return nil
}

// Is and As re-export the standard library helpers so callers need a single import
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
