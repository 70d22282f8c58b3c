package handlers

import (
	"log/slog"
	"net/http"

	"github.com/naufalhakim/product-management-api/internal/api/middleware"
	"github.com/naufalhakim/product-management-api/internal/errors"
	service "github.com/naufalhakim/product-management-api/internal/services"
	"github.com/naufalhakim/product-management-api/internal/utils/response"
)

// maxUploadRequestSize bounds the whole multipart body: the largest allowed
// batch plus form overhead.
const maxUploadRequestSize = (service.MaxBatchSize * service.MaxImageSize) + (1 << 20)

type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

func (h *UploadHandler) UploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, service.MaxImageSize+(1<<20))

		if err := r.ParseMultipartForm(service.MaxImageSize); err != nil {
			logger.Warn("Multipart parse failed", slog.String("error", err.Error()))
			response.Error(w, errors.PayloadTooLargeError("File exceeds the 5 MiB limit"))

			return
		}

		_, header, err := r.FormFile("file")
		if err != nil {
			response.Error(w, errors.BadRequestError("Form field 'file' is required"))

			return
		}

		resp, uploadErr := h.uploadService.SaveImage(r.Context(), header)
		if uploadErr != nil {
			logger.Warn("Image upload rejected", slog.String("filename", header.Filename), slog.String("error", uploadErr.Error()))
			response.Error(w, uploadErr)

			return
		}

		logger.Info("Image uploaded", slog.String("filename", resp.Filename), slog.Int64("size", resp.Size))
		response.Success(w, http.StatusCreated, resp)

	}
}

func (h *UploadHandler) UploadImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestSize)

		if err := r.ParseMultipartForm(maxUploadRequestSize); err != nil {
			logger.Warn("Multipart parse failed", slog.String("error", err.Error()))
			response.Error(w, errors.PayloadTooLargeError("Upload request is too large"))

			return
		}

		headers := r.MultipartForm.File["files"]

		resp, err := h.uploadService.SaveImages(r.Context(), headers)
		if err != nil {
			logger.Warn("Batch upload rejected", slog.Int("files", len(headers)), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Images uploaded", slog.Int("count", resp.Count))
		response.Success(w, http.StatusCreated, resp)

	}
}
