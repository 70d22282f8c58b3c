package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appErrors "github.com/naufalhakim/product-management-api/internal/errors"
	service "github.com/naufalhakim/product-management-api/internal/services"
	"github.com/naufalhakim/product-management-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFileHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["files"]
}

func newUploadServiceForTest(t *testing.T) (service.UploadService, string) {
	t.Helper()

	dir := t.TempDir()

	store, err := storage.NewLocalDisk(dir)
	require.NoError(t, err)

	return service.NewUploadService(store), dir
}

func TestSaveImage(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		uploadService, dir := newUploadServiceForTest(t)
		headers := makeFileHeaders(t, map[string]string{"foto.JPG": "image bytes"})

		// Act
		resp, err := uploadService.SaveImage(ctx, headers[0])

		// Assert
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(resp.Filename, ".jpg"), "Extension should be lowercased")
		assert.NotContains(t, resp.Filename, "foto", "Stored name should be random, not the original")
		assert.Equal(t, "/uploads/"+resp.Filename, resp.URL)
		assert.Equal(t, int64(len("image bytes")), resp.Size)

		_, statErr := os.Stat(filepath.Join(dir, resp.Filename))
		assert.NoError(t, statErr, "The file should be on disk")
	})

	t.Run("Failure - Unsupported Extension", func(t *testing.T) {
		// Arrange
		uploadService, _ := newUploadServiceForTest(t)
		headers := makeFileHeaders(t, map[string]string{"malware.exe": "mz"})

		// Act
		resp, err := uploadService.SaveImage(ctx, headers[0])

		// Assert
		require.Error(t, err)
		assert.Nil(t, resp)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeUnsupportedFormat, appErr.Code)
	})

	t.Run("Failure - Oversized File", func(t *testing.T) {
		// Arrange
		uploadService, _ := newUploadServiceForTest(t)
		headers := makeFileHeaders(t, map[string]string{"besar.png": strings.Repeat("x", service.MaxImageSize+1)})

		// Act
		resp, err := uploadService.SaveImage(ctx, headers[0])

		// Assert
		require.Error(t, err)
		assert.Nil(t, resp)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodePayloadTooLarge, appErr.Code)
	})
}

func TestSaveImages(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		uploadService, _ := newUploadServiceForTest(t)
		headers := makeFileHeaders(t, map[string]string{
			"satu.jpg": "one",
			"dua.png":  "two",
		})

		// Act
		resp, err := uploadService.SaveImages(ctx, headers)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Count)
		assert.Len(t, resp.Files, 2)
	})

	t.Run("Failure - Empty Batch", func(t *testing.T) {
		// Arrange
		uploadService, _ := newUploadServiceForTest(t)

		// Act
		resp, err := uploadService.SaveImages(ctx, nil)

		// Assert
		require.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("Failure - One Bad File Rejects The Batch", func(t *testing.T) {
		// Arrange
		uploadService, dir := newUploadServiceForTest(t)
		headers := makeFileHeaders(t, map[string]string{
			"bagus.jpg": "ok",
			"jelek.txt": "not an image",
		})

		// Act
		resp, err := uploadService.SaveImages(ctx, headers)

		// Assert
		require.Error(t, err)
		assert.Nil(t, resp)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeUnsupportedFormat, appErr.Code)

		entries, readErr := os.ReadDir(dir)
		require.NoError(t, readErr)
		assert.Empty(t, entries, "Nothing should be stored when validation fails")
	})

	t.Run("Failure - Too Many Files", func(t *testing.T) {
		// Arrange
		uploadService, _ := newUploadServiceForTest(t)

		files := make(map[string]string, service.MaxBatchSize+1)
		for i := 0; i <= service.MaxBatchSize; i++ {
			files["f"+strings.Repeat("a", i+1)+".jpg"] = "x"
		}

		headers := makeFileHeaders(t, files)
		require.Greater(t, len(headers), service.MaxBatchSize)

		// Act
		resp, err := uploadService.SaveImages(ctx, headers)

		// Assert
		require.Error(t, err)
		assert.Nil(t, resp)
	})
}
