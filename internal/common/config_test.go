package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLAWBOARD_DIR", dir)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Directory.DataDir)
	assert.Equal(t, filepath.Join(dir, DatabaseFileName), cfg.Database.DSN)
	assert.Equal(t, SQLiteDriverCGO, cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, "@every 30s", cfg.Relay.Schedule)
	assert.Equal(t, 50, cfg.Relay.BatchSize)
	assert.Equal(t, filepath.Join(dir, DatabaseFileName), GetDatabasePath(cfg))
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLAWBOARD_DIR", dir)
	path := writeConfig(t, dir, `
app:
  log_level: debug
database:
  driver: sqlite
  log_level: info
relay:
  schedule: "*/5 * * * *"
  batch_size: 10
discord:
  channel_id: "from-file"
`)
	t.Setenv("CLAWBOARD_RELAY_BATCH_SIZE", "25")
	t.Setenv("CLAWBOARD_DISCORD_CHANNEL_ID", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, SQLiteDriverPureGo, cfg.Database.Driver)
	assert.Equal(t, gormlogger.Info, cfg.Database.GormLogLevel())
	assert.Equal(t, "*/5 * * * *", cfg.Relay.Schedule)
	assert.Equal(t, 25, cfg.Relay.BatchSize)
	assert.Equal(t, "from-env", cfg.Discord.ChannelID)
}

func TestLoadConfigDefaultFileIsOptional(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLAWBOARD_DIR", dir)
	writeConfig(t, dir, "app:\n  env: development\n")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.ENV)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLAWBOARD_DIR", dir)

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("database: ["), 0o600))
	_, err = LoadConfig(bad)
	require.Error(t, err)

	t.Setenv("CLAWBOARD_DB_DRIVER", "mysql")
	_, err = LoadConfig("")
	require.ErrorContains(t, err, "unsupported database driver")
}

func TestValidateRelay(t *testing.T) {
	cfg := DefaultConfig()
	require.EqualError(t, cfg.ValidateRelay(), "CLAWBOARD_DISCORD_TOKEN is required")

	cfg.Discord.Token = "token"
	require.EqualError(t, cfg.ValidateRelay(), "CLAWBOARD_DISCORD_CHANNEL_ID is required")

	cfg.Discord.ChannelID = "123"
	require.NoError(t, cfg.ValidateRelay())
}

func TestIsServerDSN(t *testing.T) {
	assert.True(t, IsServerDSN("postgres://user:pw@localhost/clawboard"))
	assert.True(t, IsServerDSN("host=localhost user=clawboard"))
	assert.False(t, IsServerDSN("/var/lib/clawboard/clawboard.db"))
	assert.False(t, IsServerDSN("file:board.db?_busy_timeout=5000"))

	cfg := DefaultConfig()
	cfg.Database.DSN = "postgres://localhost/clawboard"
	assert.Empty(t, GetDatabasePath(cfg))
}

func TestSQLiteFilePath(t *testing.T) {
	assert.Equal(t, "/var/lib/clawboard/clawboard.db", SQLiteFilePath("/var/lib/clawboard/clawboard.db"))
	assert.Equal(t, "data/clawboard.db", SQLiteFilePath("file:data/clawboard.db?cache=shared"))
	assert.Equal(t, "", SQLiteFilePath("file:x?mode=memory&cache=shared"))
	assert.Equal(t, "", SQLiteFilePath(":memory:"))
}

func TestGetDatabasePathStripsURI(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.DSN = "file:/srv/clawboard/board.db?cache=shared&_busy_timeout=5000"
	assert.Equal(t, "/srv/clawboard/board.db", GetDatabasePath(cfg))

	cfg.Database.DSN = "file:board?mode=memory&cache=shared"
	assert.Empty(t, GetDatabasePath(cfg))
}

func TestNewLoggerWithConfig(t *testing.T) {
	cfg := DefaultConfig()
	logger, err := NewLoggerWithConfig("clawboard", cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	cfg.App.ENV = "development"
	cfg.App.LogLevel = "debug"
	logger, err = NewLoggerWithConfig("", cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	cfg.App.LogLevel = "loud"
	logger, err = NewLoggerWithConfig("", cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}
