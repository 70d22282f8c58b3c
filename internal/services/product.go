package service

import (
	"context"
	"database/sql"
	goerrors "errors"

	"github.com/microcosm-cc/bluemonday"
	"github.com/naufalhakim/product-management-api/internal/errors"
	"github.com/naufalhakim/product-management-api/internal/models"
	repository "github.com/naufalhakim/product-management-api/internal/repositories"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error)
	UpdateProductStatus(ctx context.Context, id int64, req *models.UpdateProductStatusRequest) (*models.Product, error)
	AdjustStock(ctx context.Context, id int64, req *models.UpdateProductStockRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, opts repository.ProductListOptions) ([]*models.Product, int64, error)
}

type productService struct {
	repo      repository.ProductRepository
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{
		repo:      repo,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	status := req.StatusProduk
	if status == "" {
		status = models.ProductStatusAktif
	}

	product := &models.Product{
		NamaProduk:    req.NamaProduk,
		Kategori:      req.Kategori,
		Deskripsi:     s.sanitizer.Sanitize(req.Deskripsi),
		HargaSatuan:   req.HargaSatuan,
		StokAwal:      req.StokAwal,
		Stok:          req.StokAwal,
		Gambar:        models.ImageList(req.Gambar),
		StatusProduk:  models.DeriveProductStatus(status, req.StokAwal, req.ThresholdStok),
		ThresholdStok: req.ThresholdStok,
		Diskon:        req.Diskon,
		Rating:        req.Rating,
		JumlahTerjual: req.JumlahTerjual,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if req.NamaProduk != nil {
		product.NamaProduk = *req.NamaProduk
	}

	if req.Kategori != nil {
		product.Kategori = *req.Kategori
	}

	if req.Deskripsi != nil {
		product.Deskripsi = s.sanitizer.Sanitize(*req.Deskripsi)
	}

	if req.HargaSatuan != nil {
		product.HargaSatuan = *req.HargaSatuan
	}

	if req.StokAwal != nil {
		product.StokAwal = *req.StokAwal
	}

	if req.Stok != nil {
		product.Stok = *req.Stok
	}

	if req.Gambar != nil {
		product.Gambar = models.ImageList(*req.Gambar)
	}

	if req.StatusProduk != nil {
		product.StatusProduk = *req.StatusProduk
	}

	if req.ThresholdStok != nil {
		product.ThresholdStok = req.ThresholdStok
	}

	if req.Diskon != nil {
		product.Diskon = *req.Diskon
	}

	if req.Rating != nil {
		product.Rating = *req.Rating
	}

	if req.JumlahTerjual != nil {
		product.JumlahTerjual = *req.JumlahTerjual
	}

	// Every write re-derives the status so a stock or threshold change is
	// reflected immediately.
	product.StatusProduk = models.DeriveProductStatus(product.StatusProduk, product.Stok, product.ThresholdStok)

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	return product, nil
}

func (s *productService) UpdateProductStatus(ctx context.Context, id int64, req *models.UpdateProductStatusRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	// A requested aktif can still land on menipis when the stock sits at or
	// below the threshold; nonaktif always sticks.
	product.StatusProduk = models.DeriveProductStatus(req.StatusProduk, product.Stok, product.ThresholdStok)

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to update product status").WithError(err)
	}

	return product, nil
}

func (s *productService) AdjustStock(ctx context.Context, id int64, req *models.UpdateProductStockRequest) (*models.Product, error) {

	product, err := s.repo.AdjustStock(ctx, id, req.Adjustment, req.Operation)
	if err != nil {
		switch {
		case goerrors.Is(err, repository.ErrInsufficientStock):
			return nil, errors.InsufficientStockError("Insufficient stock for this adjustment").WithError(err)
		case goerrors.Is(err, sql.ErrNoRows):
			return nil, errors.NotFoundError("Product not found").WithError(err)
		default:
			return nil, errors.DatabaseError("Failed to adjust stock").WithError(err)
		}
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Product not found").WithError(err)
		}

		return errors.DatabaseError("Failed to delete product").WithError(err)
	}

	return nil
}

func (s *productService) ListProducts(ctx context.Context, opts repository.ProductListOptions) ([]*models.Product, int64, error) {

	products, total, err := s.repo.ListProducts(ctx, opts)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}
