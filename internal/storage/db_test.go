package storage

import (
	"testing"
	"time"

	"github.com/cnap-oss/clawboard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name   string
		dsn    string
		driver string
		busy   time.Duration
		want   string
	}{
		{
			name:   "cgo driver on plain path",
			dsn:    "/tmp/clawboard.db",
			driver: common.SQLiteDriverCGO,
			want:   "/tmp/clawboard.db?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000",
		},
		{
			name:   "cgo driver keeps existing query",
			dsn:    "file:x?mode=memory&cache=shared",
			driver: common.SQLiteDriverCGO,
			busy:   time.Second,
			want:   "file:x?mode=memory&cache=shared&_foreign_keys=on&_journal_mode=WAL&_busy_timeout=1000",
		},
		{
			name:   "pure go driver uses pragmas",
			dsn:    "/tmp/clawboard.db",
			driver: common.SQLiteDriverPureGo,
			want:   "/tmp/clawboard.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.dsn, tt.driver, tt.busy))
		})
	}
}

func TestClockIsStrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 123456789, time.UTC)
	clock := &Clock{now: func() time.Time { return fixed }}

	first := clock.Now()
	second := clock.Now()
	third := clock.Now()

	assert.Equal(t, fixed.Truncate(time.Microsecond), first)
	assert.True(t, second.After(first))
	assert.True(t, third.After(second))
	assert.Equal(t, time.Microsecond, third.Sub(second))
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
}

func TestOpenCreatesDatabaseDirectory(t *testing.T) {
	for _, driver := range []string{common.SQLiteDriverCGO, common.SQLiteDriverPureGo} {
		t.Run(driver, func(t *testing.T) {
			path := t.TempDir() + "/nested/dir/clawboard.db"

			db, err := Open(Config{DSN: path, Driver: driver})
			require.NoError(t, err)
			require.NoError(t, AutoMigrate(db))

			var fk int
			require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
			assert.Equal(t, 1, fk)

			require.NoError(t, Close(db))
			assert.FileExists(t, path)
		})
	}
}
