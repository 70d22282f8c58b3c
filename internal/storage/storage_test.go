package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/naufalhakim/product-management-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := storage.NewLocalDisk(dir)
	require.NoError(t, err)

	ctx := t.Context()

	t.Run("SaveAndDelete", func(t *testing.T) {
		// Act
		written, err := store.Save(ctx, "abc123.jpg", strings.NewReader("fake image bytes"))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(len("fake image bytes")), written)

		data, err := os.ReadFile(filepath.Join(dir, "abc123.jpg"))
		require.NoError(t, err)
		assert.Equal(t, "fake image bytes", string(data))

		require.NoError(t, store.Delete(ctx, "abc123.jpg"))
		_, err = os.Stat(filepath.Join(dir, "abc123.jpg"))
		assert.True(t, os.IsNotExist(err), "Deleted file should be gone")
	})

	t.Run("DuplicateName", func(t *testing.T) {
		// Arrange
		_, err := store.Save(ctx, "dup.png", strings.NewReader("first"))
		require.NoError(t, err)

		// Act
		_, err = store.Save(ctx, "dup.png", strings.NewReader("second"))

		// Assert
		require.Error(t, err, "Saving over an existing file should fail")
	})

	t.Run("StripsPathComponents", func(t *testing.T) {
		// Act
		_, err := store.Save(ctx, "../escape.txt", strings.NewReader("x"))

		// Assert
		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Join(dir, "escape.txt"))
		assert.NoError(t, statErr, "Only the base name should be used")
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		// Act
		err := store.Delete(ctx, "never-saved.gif")

		// Assert
		require.Error(t, err)
	})

	t.Run("CreatesDirectory", func(t *testing.T) {
		// Act
		nested := filepath.Join(t.TempDir(), "a", "b")
		_, err := storage.NewLocalDisk(nested)

		// Assert
		require.NoError(t, err)
		info, statErr := os.Stat(nested)
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
	})
}
