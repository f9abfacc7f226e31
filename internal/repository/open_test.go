package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Rrens/prompt-playground/internal/config"
	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/repository"
	"github.com/Rrens/prompt-playground/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStores(t *testing.T) {
	drivers := []string{config.DriverMemory, config.DriverBolt, config.DriverSQLite}

	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			cfg := &config.Config{Storage: config.StorageConfig{
				Driver: driver,
				Path:   filepath.Join(t.TempDir(), "nested", "playground.db"),
			}}
			if driver == config.DriverSQLite {
				cfg.Storage.Path = filepath.Join(t.TempDir(), "playground.db")
			}

			store, err := repository.Open(ctx, cfg)
			require.NoError(t, err)
			defer store.Close()

			exerciseBlobStore(t, store)
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := repository.Open(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "floppy"}})
	assert.Error(t, err)
}

func TestWithPrefix(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := repository.WithPrefix(inner, "tenant-a:")

	exerciseBlobStore(t, store)

	require.NoError(t, store.Put(ctx, domain.KeyPrompts, []byte("[]")))
	data, ok, err := inner.Get(ctx, "tenant-a:"+domain.KeyPrompts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(data))

	_, ok, err = inner.Get(ctx, domain.KeyPrompts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func exerciseBlobStore(t *testing.T, store domain.BlobStore) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "k", []byte("one")))
	require.NoError(t, store.Put(ctx, "k", []byte("two")))

	data, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", string(data))

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
