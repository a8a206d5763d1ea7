package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cnap-oss/clawboard/internal/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewRequiresPath(t *testing.T) {
	_, err := watch.New("", nil)
	require.Error(t, err)
}

func TestWatcherSignalsDatabaseWrites(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "clawboard.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("init"), 0o644))

	w, err := watch.New(dbPath, zaptest.NewLogger(t), watch.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	// 여러 번의 쓰기는 하나의 신호로 합쳐진다
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(dbPath+"-wal", []byte{byte(i)}, 0o644))
	}

	select {
	case _, ok := <-w.Changes():
		require.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal")
	}

	cancel()
	select {
	case _, ok := <-w.Changes():
		if ok {
			// a trailing signal may still be buffered
			_, ok = <-w.Changes()
		}
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "clawboard.db")

	w, err := watch.New(dbPath, zaptest.NewLogger(t), watch.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	select {
	case <-w.Changes():
		t.Fatal("unexpected change signal")
	case <-time.After(200 * time.Millisecond):
	}
}
