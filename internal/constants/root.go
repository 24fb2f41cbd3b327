package constants

const (
	AppName            = "habitlit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitlit/habitlit.db"
	Version            = "v0.3.0"

	// DateFormat is the persisted and displayed calendar date format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the HH:MM format used for scheduled jobs
	TimeFormat = "15:04"

	// Storage drivers
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverGorm     = "gorm"
	DriverMemory   = "memory"

	// Environment variables
	EnvConfig       = "HABITLIT_CONFIG"
	EnvDBConnection = "HABITLIT_DB_CONNECTION"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitlit-"
	BackupFileSuffix = ".db"

	// Scheduler defaults
	DefaultBackupTime = "03:00"
	DefaultDigestTime = "21:00"

	// Server defaults
	DefaultListenAddr = "127.0.0.1:8080"
	UserIDHeader      = "X-User-ID"

	// DefaultOwnerID is used by the CLI, which is single-user
	DefaultOwnerID = "local"
)
