package errors

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "not found error",
			err:      NotFound("habit", "abc"),
			expected: `Error: habit "abc": not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	result := Formatf("failed to load %s", "habits")
	if result != "Error: failed to load habits" {
		t.Errorf("Formatf() = %q", result)
	}
}

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	if v.OrNil() != nil {
		t.Fatal("empty ValidationError should be nil")
	}

	v.Add("count", "must be at least %d", 1)
	v.Add("date", "invalid calendar date")

	err := v.OrNil()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected errors.Is(err, ErrInvalidInput)")
	}

	wrapped := fmt.Errorf("log entry: %w", err)
	fields := Fields(wrapped)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Field != "count" || fields[0].Message != "must be at least 1" {
		t.Errorf("unexpected first field: %+v", fields[0])
	}
	if !strings.Contains(err.Error(), "date: invalid calendar date") {
		t.Errorf("error message missing field detail: %q", err.Error())
	}
}

func TestInvalid(t *testing.T) {
	err := Invalid("notes", "must be at most %d characters", 500)
	if !Is(err, ErrInvalidInput) {
		t.Error("Invalid() should wrap ErrInvalidInput")
	}
	if Is(err, ErrNotFound) {
		t.Error("Invalid() should not match ErrNotFound")
	}
}

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}
	err := Transient(errors.New("dial tcp: connection refused"))
	if !errors.Is(err, ErrTransient) {
		t.Error("expected ErrTransient")
	}
	if err := Transient(fmt.Errorf("list habits: %w", context.DeadlineExceeded)); !errors.Is(err, context.DeadlineExceeded) {
		t.Error("Transient should keep the cause in the chain")
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), true},
		{"deadline", context.DeadlineExceeded, true},
		{"refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), true},
		{"locked", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"constraint", errors.New("UNIQUE constraint failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectionError(tt.err); got != tt.want {
				t.Errorf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
