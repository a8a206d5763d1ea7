package common

import (
	"os"
	"path/filepath"
	"strings"
)

// DatabaseFileName is the SQLite file kept under the data directory.
const DatabaseFileName = "clawboard.db"

// GetDataDir returns the base data directory path.
// Priority:
// 1. Directory.DataDir from config (CLAWBOARD_DIR)
// 2. $HOME/.clawboard (default)
// 3. ./data (fallback if HOME is not set)
func GetDataDir(cfg *Config) string {
	if cfg != nil && cfg.Directory.DataDir != "" {
		return cfg.Directory.DataDir
	}
	return defaultDataDir()
}

// GetDatabasePath returns the SQLite database file path.
// Returns "" when the configured DSN points at a server or in-memory database.
func GetDatabasePath(cfg *Config) string {
	if cfg == nil || cfg.Database.DSN == "" {
		return filepath.Join(GetDataDir(cfg), DatabaseFileName)
	}
	if IsServerDSN(cfg.Database.DSN) {
		return ""
	}
	return SQLiteFilePath(cfg.Database.DSN)
}

// SQLiteFilePath extracts the file path from a SQLite DSN, dropping the
// "file:" scheme and query parameters. In-memory databases yield "".
func SQLiteFilePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		if strings.Contains(path[i:], "mode=memory") {
			return ""
		}
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return ""
	}
	return path
}

// IsServerDSN reports whether dsn addresses a PostgreSQL server rather than a file.
func IsServerDSN(dsn string) bool {
	for _, prefix := range []string{"postgres://", "postgresql://", "host="} {
		if strings.HasPrefix(dsn, prefix) {
			return true
		}
	}
	return false
}

func defaultDataDir() string {
	if dir := os.Getenv(EnvPrefix + "_DIR"); dir != "" {
		return dir
	}

	// CLAWBOARD_DIR이 없으면 $HOME/.clawboard 사용
	if homeDir := os.Getenv("HOME"); homeDir != "" {
		return filepath.Join(homeDir, ".clawboard")
	}

	return "./data"
}
