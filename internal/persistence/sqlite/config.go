package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds SQLite connection settings.
type Config struct {
	// DSN is a file path or a file: URI.
	DSN string

	// BusyTimeout sets how long to wait for database locks.
	BusyTimeout time.Duration

	// JournalMode sets the SQLite journal mode (WAL, DELETE, TRUNCATE, ...).
	JournalMode string

	// Synchronous sets the synchronous mode (FULL, NORMAL, OFF).
	Synchronous string

	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns settings suited to a single-process deployment.
func DefaultConfig(dsn string) Config {
	return Config{
		DSN:          dsn,
		BusyTimeout:  5 * time.Second,
		JournalMode:  "WAL",
		Synchronous:  "NORMAL",
		MaxOpenConns: 1,
	}
}

// Validate checks the configuration before a connection is opened.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("sqlite: DSN is required")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("sqlite: busy timeout must not be negative")
	}
	switch strings.ToUpper(c.JournalMode) {
	case "", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF":
	default:
		return fmt.Errorf("sqlite: unsupported journal mode %q", c.JournalMode)
	}
	switch strings.ToUpper(c.Synchronous) {
	case "", "OFF", "NORMAL", "FULL", "EXTRA":
	default:
		return fmt.Errorf("sqlite: unsupported synchronous mode %q", c.Synchronous)
	}
	return nil
}

// pragmas returns the statements applied after the connection is opened.
func (c Config) pragmas() []string {
	statements := []string{fmt.Sprintf("PRAGMA busy_timeout = %d", c.BusyTimeout.Milliseconds())}
	if c.JournalMode != "" {
		statements = append(statements, fmt.Sprintf("PRAGMA journal_mode = %s", strings.ToUpper(c.JournalMode)))
	}
	if c.Synchronous != "" {
		statements = append(statements, fmt.Sprintf("PRAGMA synchronous = %s", strings.ToUpper(c.Synchronous)))
	}
	return statements
}

// filePath extracts the on-disk path from the DSN, or "" for in-memory databases.
func (c Config) filePath() string {
	dsn := strings.TrimPrefix(c.DSN, "file:")
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		if strings.Contains(dsn[i:], "mode=memory") {
			return ""
		}
		dsn = dsn[:i]
	}
	if dsn == "" || dsn == ":memory:" {
		return ""
	}
	return dsn
}

// ensureDirectory creates the parent directory of the database file.
func (c Config) ensureDirectory() error {
	path := c.filePath()
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}
