package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/naufalhakim/product-management-api/internal/api/middleware"
	"github.com/naufalhakim/product-management-api/internal/models"
	repository "github.com/naufalhakim/product-management-api/internal/repositories"
	service "github.com/naufalhakim/product-management-api/internal/services"
	"github.com/naufalhakim/product-management-api/internal/utils"
	"github.com/naufalhakim/product-management-api/internal/utils/response"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Product creation failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Product created", slog.Int64("productId", product.ID))
		response.Success(w, http.StatusCreated, product.ToResponse())

	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := pathID(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product.ToResponse())

	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Product update failed", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Product updated", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, product.ToResponse())

	}
}

func (h *ProductHandler) UpdateProductStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateProductStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.UpdateProductStatus(r.Context(), id, &req)
		if err != nil {
			logger.Error("Product status update failed", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Product status updated",
			slog.Int64("productId", id),
			slog.String("status", string(product.StatusProduk)))
		response.Success(w, http.StatusOK, product.ToResponse())

	}
}

func (h *ProductHandler) UpdateProductStock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateProductStockRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.AdjustStock(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Stock adjustment rejected", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Stock adjusted",
			slog.Int64("productId", id),
			slog.Int64("stok", product.Stok))
		response.Success(w, http.StatusOK, product.ToResponse())

	}
}

func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			logger.Error("Product deletion failed", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Product deleted", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, models.MessageResponse{Message: "Product deleted"})

	}
}

// for eg: GET /products?page=1&limit=10&kategori=elektronik&sort_by=harga_satuan&sort_order=desc
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		query := r.URL.Query()

		opts := repository.ProductListOptions{
			Page:      queryInt(r, "page"),
			Limit:     queryInt(r, "limit"),
			Kategori:  query.Get("kategori"),
			Status:    query.Get("status"),
			Search:    query.Get("search"),
			SortBy:    query.Get("sort_by"),
			SortOrder: query.Get("sort_order"),
		}

		products, total, err := h.productService.ListProducts(r.Context(), opts)
		if err != nil {
			logger.Error("Failed to fetch products", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		items := make([]*models.ProductResponse, 0, len(products))
		for _, product := range products {
			items = append(items, product.ToResponse())
		}

		page := repository.NormalizePage(opts.Page)
		limit := repository.NormalizeLimit(opts.Limit)

		response.Success(w, http.StatusOK, models.NewPaginatedResponse(items, total, page, limit))

	}
}
