package kv

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tally/internal/log"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// backends returns a fresh instance of every store.
func backends(t *testing.T) map[string]types.KV {
	t.Helper()

	file, err := OpenFile(t.TempDir())
	require.NoError(t, err)

	db, err := OpenSQLite(filepath.Join(t.TempDir(), sqliteFileName), nil)
	require.NoError(t, err)

	stores := map[string]types.KV{
		types.BackendMemory: NewMemory(),
		types.BackendFile:   file,
		types.BackendSQLite: db,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("missing")
			assert.ErrorIs(t, err, types.ErrKeyNotFound)

			require.NoError(t, store.Set("materials", []byte(`[{"name":"Metals"}]`)))
			got, err := store.Get("materials")
			require.NoError(t, err)
			assert.Equal(t, `[{"name":"Metals"}]`, string(got))

			require.NoError(t, store.Set("materials", []byte(`[]`)))
			got, err = store.Get("materials")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			require.NoError(t, store.Delete("materials"))
			_, err = store.Get("materials")
			assert.ErrorIs(t, err, types.ErrKeyNotFound)

			require.NoError(t, store.Delete("materials"), "deleting a missing key succeeds")
		})
	}
}

func TestStoreKeysAreIndependent(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("a", []byte("1")))
			require.NoError(t, store.Set("b/with slash", []byte("2")))
			require.NoError(t, store.Delete("a"))

			got, err := store.Get("b/with slash")
			require.NoError(t, err)
			assert.Equal(t, "2", string(got))
		})
	}
}

func TestStoreClosed(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Close())
			require.NoError(t, store.Close(), "Close is idempotent")

			_, err := store.Get("k")
			assert.ErrorIs(t, err, types.ErrStoreClosed)
			assert.ErrorIs(t, store.Set("k", []byte("v")), types.ErrStoreClosed)
			assert.ErrorIs(t, store.Delete("k"), types.ErrStoreClosed)
		})
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	v := []byte("abc")
	require.NoError(t, m.Set("k", v))
	v[0] = 'x'

	got, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, _ := m.Get("k")
	assert.Equal(t, "abc", string(again))
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", sqliteFileName)

	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentStorage, Output: &buf})

	db, err := OpenSQLite(path, logger)
	require.NoError(t, err)
	require.NoError(t, db.Set("materials", []byte(`[1]`)))
	require.NoError(t, db.Close())
	assert.Contains(t, buf.String(), "migrated kv schema")
	assert.Contains(t, buf.String(), "version=1")

	buf.Reset()
	db, err = OpenSQLite(path, logger)
	require.NoError(t, err)
	defer db.Close()
	assert.Empty(t, buf.String(), "an up-to-date schema is not migrated again")

	got, err := db.Get("materials")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func TestFileWritesLeaveNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Set("materials", []byte(`[]`)))
	require.NoError(t, f.Set("materials", []byte(`[1]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "materials.json", entries[0].Name())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend string
		wantErr error
	}{
		{types.BackendMemory, nil},
		{types.BackendFile, nil},
		{types.BackendSQLite, nil},
		{"", types.ErrBackendEmpty},
		{"postgres", types.ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, err := Open(types.Config{Backend: tt.backend, DataDir: dir}, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer store.Close()
			require.NoError(t, store.Set("k", []byte("v")))
		})
	}

	_, err := os.Stat(filepath.Join(dir, sqliteFileName))
	assert.NoError(t, err, "sqlite backend creates its database in the data dir")
}

func TestOpenLogsUnderStorageComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentCLI, Output: &buf})

	store, err := Open(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}, logger)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out := buf.String()
	assert.Contains(t, out, "component=storage")
	assert.NotContains(t, out, "component=cli")
}
