package store_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/store"
)

// exerciseStore runs the contract every Store implementation must honor.
func exerciseStore(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Get(ctx, config.StoreKey)
	require.NoError(t, err)
	assert.False(t, found, "A fresh store has no value")

	payload := []byte(`[{"id":"1","name":"Wedding","date":"2020-05-20","calendarType":"solar","icon":"💍","repeats":true}]`)
	require.NoError(t, s.Set(ctx, config.StoreKey, payload))

	got, found, err := s.Get(ctx, config.StoreKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload, got, "Values are mirrored byte for byte")

	require.NoError(t, s.Set(ctx, config.StoreKey, []byte(`[]`)))
	got, _, err = s.Get(ctx, config.StoreKey)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got, "Set overwrites")

	_, found, err = s.Get(ctx, "other")
	require.NoError(t, err)
	assert.False(t, found, "Keys are independent")
}

func TestSQLite(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewSQLite(dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Equal(t, filepath.Join(dir, config.StoreDBFile), s.Path())
	exerciseStore(t, s)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := store.NewSQLite(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, config.StoreKey, []byte(`["kept"]`)))
	require.NoError(t, s.Close())

	s, err = store.NewSQLite(dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, found, err := s.Get(ctx, config.StoreKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["kept"]`, string(got))
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFile(dir, config.StoreKey)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, config.StoreKey+config.ExtJSON), s.Path())
	exerciseStore(t, s)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "No temporary files are left behind")
}

func TestFile_CancelledContext(t *testing.T) {
	s, err := store.NewFile(t.TempDir(), config.StoreKey)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Set(ctx, config.StoreKey, []byte(`[]`)), context.Canceled)
}

func TestMemory(t *testing.T) {
	s := store.NewMemory()
	exerciseStore(t, s)
	assert.Equal(t, 2, s.WriteCount())
	assert.Empty(t, s.Path())

	require.NoError(t, s.Close())
	_, _, err := s.Get(context.Background(), config.StoreKey)
	assert.ErrorIs(t, err, store.ErrClosed)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'x'

	out, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
}

func TestOpen(t *testing.T) {
	for _, driver := range []string{config.StoreDriverSQLite, config.StoreDriverFile} {
		t.Run(driver, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "nested", "data")
			s, err := store.Open(driver, dir, config.StoreKey)
			require.NoError(t, err)
			defer func() { _ = s.Close() }()

			assert.DirExists(t, dir)
			exerciseStore(t, s)
		})
	}

	dir := t.TempDir()
	s, err := store.Open(config.StoreDriverFile, dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.StoreKey+config.ExtJSON), s.Path(), "An empty key falls back to the default")
	_ = s.Close()

	_, err = store.Open("redis", t.TempDir(), config.StoreKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrStoreDriver)
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFile(dir, config.StoreKey)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), config.StoreKey, []byte(`[]`)))

	var calls atomic.Int32
	w, err := store.NewWatcher(s.Path(), 50*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Set(context.Background(), config.StoreKey, []byte(`[1]`)))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Less(t, calls.Load(), int32(5), "A burst of writes collapses into fewer reloads")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "anniversaries.json")
	require.NoError(t, os.WriteFile(target, []byte(`[]`), 0600))

	var calls atomic.Int32
	w, err := store.NewWatcher(target, 20*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0600))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "anniversaries.json")
	w, err := store.NewWatcher(target, 0, nil)
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
