package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/naufalhakim/product-management-api/internal/models"
	"github.com/naufalhakim/product-management-api/internal/utils"
)

// ErrInsufficientStock is returned when a subtract adjustment would drive
// stock below zero. The stored value is left untouched.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, opts ProductListOptions) ([]*models.Product, int64, error)
	AdjustStock(ctx context.Context, id, adjustment int64, op models.StockOperation) (*models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `id, nama_produk, kategori, deskripsi, harga_satuan, stok_awal, stok,
	gambar, status_produk, threshold_stok, diskon, rating, jumlah_terjual, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {

	product := &models.Product{}

	var (
		deskripsi sql.NullString
		threshold sql.NullInt64
	)

	err := row.Scan(&product.ID, &product.NamaProduk, &product.Kategori, &deskripsi,
		&product.HargaSatuan, &product.StokAwal, &product.Stok, &product.Gambar,
		&product.StatusProduk, &threshold, &product.Diskon, &product.Rating,
		&product.JumlahTerjual, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	product.Deskripsi = deskripsi.String

	if threshold.Valid {
		product.ThresholdStok = &threshold.Int64
	}

	return product, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (nama_produk, kategori, deskripsi, harga_satuan, stok_awal, stok,
				gambar, status_produk, threshold_stok, diskon, rating, jumlah_terjual)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id, created_at, updated_at`

	var threshold sql.NullInt64
	if product.ThresholdStok != nil {
		threshold = sql.NullInt64{Int64: *product.ThresholdStok, Valid: true}
	}

	return r.DB.QueryRowContext(dbCtx, query,
		product.NamaProduk, product.Kategori, product.Deskripsi, product.HargaSatuan,
		product.StokAwal, product.Stok, product.Gambar, product.StatusProduk, threshold,
		product.Diskon, product.Rating, product.JumlahTerjual).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	return scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE products
			  SET nama_produk = $1, kategori = $2, deskripsi = $3, harga_satuan = $4,
				  stok_awal = $5, stok = $6, gambar = $7, status_produk = $8,
				  threshold_stok = $9, diskon = $10, rating = $11, jumlah_terjual = $12,
				  updated_at = NOW()
			  WHERE id = $13
			  RETURNING updated_at`

	var threshold sql.NullInt64
	if product.ThresholdStok != nil {
		threshold = sql.NullInt64{Int64: *product.ThresholdStok, Valid: true}
	}

	return r.DB.QueryRowContext(dbCtx, query,
		product.NamaProduk, product.Kategori, product.Deskripsi, product.HargaSatuan,
		product.StokAwal, product.Stok, product.Gambar, product.StatusProduk, threshold,
		product.Diskon, product.Rating, product.JumlahTerjual, product.ID).
		Scan(&product.UpdatedAt)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *productRepository) ListProducts(ctx context.Context, opts ProductListOptions) ([]*models.Product, int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	q := BuildProductListQuery(opts)

	var total int64

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM products %s`, q.Where)

	err := r.DB.QueryRowContext(dbCtx, countQuery, q.Args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, q.Where, q.OrderBy, len(q.Args)+1, len(q.Args)+2)

	args := append(q.Args, q.Limit, q.Offset)

	rows, err := r.DB.QueryContext(dbCtx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// AdjustStock runs the read-modify-write inside a transaction with a row
// lock, so two concurrent adjustments to the same product serialize and a
// subtract can never drive stock negative.
func (r *productRepository) AdjustStock(ctx context.Context, id, adjustment int64, op models.StockOperation) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin stock adjustment: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var (
		stok      int64
		status    models.ProductStatus
		threshold sql.NullInt64
	)

	lockQuery := `SELECT stok, status_produk, threshold_stok FROM products WHERE id = $1 FOR UPDATE`

	if err := tx.QueryRowContext(dbCtx, lockQuery, id).Scan(&stok, &status, &threshold); err != nil {
		return nil, err
	}

	var newStok int64

	switch op {
	case models.StockOpAdd:
		newStok = stok + adjustment
	case models.StockOpSubtract:
		if adjustment > stok {
			return nil, ErrInsufficientStock
		}

		newStok = stok - adjustment
	default:
		return nil, fmt.Errorf("unknown stock operation %q", op)
	}

	var thresholdPtr *int64
	if threshold.Valid {
		thresholdPtr = &threshold.Int64
	}

	newStatus := models.DeriveProductStatus(status, newStok, thresholdPtr)

	updateQuery := fmt.Sprintf(`UPDATE products SET stok = $1, status_produk = $2, updated_at = NOW()
			  WHERE id = $3
			  RETURNING %s`, productColumns)

	product, err := scanProduct(tx.QueryRowContext(dbCtx, updateQuery, newStok, newStatus, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit stock adjustment: %w", err)
	}

	return product, nil
}
