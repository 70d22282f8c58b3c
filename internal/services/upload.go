package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/naufalhakim/product-management-api/internal/errors"
	"github.com/naufalhakim/product-management-api/internal/models"
	"github.com/naufalhakim/product-management-api/internal/storage"
)

const (
	// MaxImageSize caps a single uploaded image.
	MaxImageSize = 5 << 20
	// MaxBatchSize caps the number of images in one multi-upload request.
	MaxBatchSize = 10
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

type UploadService interface {
	SaveImage(ctx context.Context, header *multipart.FileHeader) (*models.FileUploadResponse, error)
	SaveImages(ctx context.Context, headers []*multipart.FileHeader) (*models.MultipleFileUploadResponse, error)
}

type uploadService struct {
	store storage.FileStore
}

func NewUploadService(store storage.FileStore) UploadService {
	return &uploadService{store: store}
}

func (s *uploadService) SaveImage(ctx context.Context, header *multipart.FileHeader) (*models.FileUploadResponse, error) {

	ext := strings.ToLower(filepath.Ext(header.Filename))

	if !allowedImageExtensions[ext] {
		return nil, errors.UnsupportedFormatError(
			fmt.Sprintf("File format %q is not allowed", ext))
	}

	if header.Size > MaxImageSize {
		return nil, errors.PayloadTooLargeError("File exceeds the 5 MiB limit")
	}

	src, err := header.Open()
	if err != nil {
		return nil, errors.BadRequestError("Failed to read uploaded file").WithError(err)
	}
	defer src.Close()

	// Random name so uploads can never collide or be guessed.
	filename := strings.ReplaceAll(uuid.NewString(), "-", "") + ext

	size, err := s.store.Save(ctx, filename, src)
	if err != nil {
		return nil, errors.InternalError("Failed to store uploaded file").WithError(err)
	}

	return &models.FileUploadResponse{
		Filename: filename,
		URL:      "/uploads/" + filename,
		Size:     size,
	}, nil
}

// SaveImages validates the whole batch before storing anything, so a bad file
// in the middle never leaves half a batch behind.
func (s *uploadService) SaveImages(ctx context.Context, headers []*multipart.FileHeader) (*models.MultipleFileUploadResponse, error) {

	if len(headers) == 0 {
		return nil, errors.BadRequestError("No files provided")
	}

	if len(headers) > MaxBatchSize {
		return nil, errors.BadRequestError(
			fmt.Sprintf("At most %d files may be uploaded at once", MaxBatchSize))
	}

	for _, header := range headers {
		ext := strings.ToLower(filepath.Ext(header.Filename))

		if !allowedImageExtensions[ext] {
			return nil, errors.UnsupportedFormatError(
				fmt.Sprintf("File format %q is not allowed", ext))
		}

		if header.Size > MaxImageSize {
			return nil, errors.PayloadTooLargeError(
				fmt.Sprintf("File %q exceeds the 5 MiB limit", header.Filename))
		}
	}

	files := make([]*models.FileUploadResponse, 0, len(headers))

	for _, header := range headers {
		file, err := s.SaveImage(ctx, header)
		if err != nil {
			// Roll back what landed so far.
			for _, saved := range files {
				_ = s.store.Delete(ctx, saved.Filename)
			}

			return nil, err
		}

		files = append(files, file)
	}

	return &models.MultipleFileUploadResponse{
		Files: files,
		Count: len(files),
	}, nil
}
