package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
)

// execute parses args against the real command grammar and runs them
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	parser, err := kong.New(&CLI, options()...)
	if err != nil {
		t.Fatalf("failed to build parser: %v", err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("failed to parse %v: %v", args, err)
	}
	var out bytes.Buffer
	err = run(ctx, &out)
	return out.String(), err
}

// isolate keeps logs and default paths inside the test's temp dir
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv(constants.EnvConfig, "")
}

func TestEndToEndWorkflow(t *testing.T) {
	isolate(t)
	dbPath := filepath.Join(t.TempDir(), "habitlit.db")
	db := "--config=" + dbPath

	now := time.Now()
	today := now.Format(constants.DateFormat)
	yesterday := now.AddDate(0, 0, -1).Format(constants.DateFormat)

	steps := []struct {
		args []string
		want string
	}{
		{[]string{db, "init"}, "Initialized habitlit storage"},
		{[]string{db, "habit", "add", "Read", "--color=#10B981"}, `Added habit "Read"`},
		{[]string{db, "log", "Read", "--date=" + yesterday}, "Current streak: 1 day"},
		{[]string{db, "log", "Read", "--note=chapter 3"}, "Logged \"Read\" for " + today},
		{[]string{db, "log", "Read", "--count=2"}, "Current streak: 2 days"},
		{[]string{db, "streak", "Read"}, "longest 2 days"},
		{[]string{db, "history", "Read"}, "2 entries"},
		{[]string{db, "habit", "list"}, "2 entries, last " + today},
		{[]string{db, "analytics", "--period=week"}, "Best habit: Read"},
		{[]string{db, "migrate"}, "up to date"},
		{[]string{db, "backup", "create"}, "Backup created"},
		{[]string{db, "backup", "list"}, "1 total"},
		{[]string{db, "habit", "delete", "Read"}, `Deleted habit "Read"`},
	}
	for _, step := range steps {
		out, err := execute(t, step.args...)
		if err != nil {
			t.Fatalf("%v failed: %v\n%s", step.args, err, out)
		}
		if !strings.Contains(out, step.want) {
			t.Fatalf("%v: output missing %q:\n%s", step.args, step.want, out)
		}
	}

	if _, err := execute(t, db, "log", "Read"); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("logging a deleted habit: expected ErrNotFound, got %v", err)
	}
	if out, err := execute(t, db, "streak", "Read"); err != nil || !strings.Contains(out, "longest 2 days") {
		t.Errorf("deleted habits keep their streak history: %v\n%s", err, out)
	}
}

func TestCommandsRequireInit(t *testing.T) {
	isolate(t)
	db := "--config=" + filepath.Join(t.TempDir(), "missing.db")

	_, err := execute(t, db, "habit", "list")
	if err == nil || !strings.Contains(err.Error(), "init") {
		t.Errorf("expected a hint to run init, got %v", err)
	}
}

func TestMemoryDriver(t *testing.T) {
	isolate(t)
	out, err := execute(t, "--driver=memory", "habit", "list")
	if err != nil {
		t.Fatalf("habit list failed: %v", err)
	}
	if !strings.Contains(out, "No habits found.") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestInvalidTimezone(t *testing.T) {
	isolate(t)
	_, err := execute(t, "--driver=memory", "--timezone=Mars/Olympus", "streak")
	if err == nil || !strings.Contains(err.Error(), "IANA name") {
		t.Errorf("expected an invalid timezone error, got %v", err)
	}
}

func TestKeyringRunsWithoutStore(t *testing.T) {
	gokeyring.MockInit()
	isolate(t)
	t.Setenv(constants.EnvDBConnection, "")

	// No connection string exists anywhere, yet keyring commands must still work
	out, err := execute(t, "--driver=postgres", "keyring", "status")
	if err != nil {
		t.Fatalf("keyring status failed: %v", err)
	}
	if !strings.Contains(out, "OS keyring is available") {
		t.Errorf("unexpected output: %q", out)
	}
}
