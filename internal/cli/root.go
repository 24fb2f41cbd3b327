package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/habitlit/internal/backup"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/habits"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/progress"
	"github.com/julianstephens/habitlit/internal/storage"
)

type Context struct {
	Store  storage.Provider
	Engine *progress.Engine
	Habits *habits.Service
	Clock  progress.Clock
	// Driver is the effective storage driver name
	Driver string
	// Owner scopes every CLI read and write; the CLI is single-user
	Owner  string
	Out    io.Writer
	In     io.Reader
}

// NewContext wires the engine and habit service around store
func NewContext(store storage.Provider, clock progress.Clock, driver string) *Context {
	return &Context{
		Store:  store,
		Engine: progress.NewEngine(store, clock),
		Habits: habits.NewService(store, clock),
		Clock:  clock,
		Driver: driver,
		Owner:  constants.DefaultOwnerID,
		Out:    os.Stdout,
		In:     os.Stdin,
	}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// FileBacked reports whether the store lives in a single local database file
func (c *Context) FileBacked() bool {
	return c.Driver == constants.DriverSQLite || c.Driver == constants.DriverGorm
}

// BackupManager returns a manager for the store's database file
func (c *Context) BackupManager() (*backup.Manager, error) {
	if !c.FileBacked() {
		return nil, fmt.Errorf("backups are only supported for the %s and %s drivers (current: %s)",
			constants.DriverSQLite, constants.DriverGorm, c.Driver)
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a y/N question on the context's input
func (c *Context) Confirm(question string) (bool, error) {
	c.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(c.In)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
