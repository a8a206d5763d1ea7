// Package testutil contains helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens an isolated in-memory SQLite database with the full schema applied.
// The database lives until the test finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := storage.Open(storage.Config{
		DSN:          fmt.Sprintf("file:clawboard-%s?mode=memory&cache=shared", uuid.NewString()),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, storage.AutoMigrate(db))

	t.Cleanup(func() {
		require.NoError(t, storage.Close(db))
	})
	return db
}

// NewTestRepository returns a Repository backed by NewTestDB.
func NewTestRepository(t *testing.T) *storage.Repository {
	t.Helper()

	repo, err := storage.NewRepository(NewTestDB(t))
	require.NoError(t, err)
	return repo
}
