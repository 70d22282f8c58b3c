package repository_test

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/naufalhakim/product-management-api/internal/models"
	repository "github.com/naufalhakim/product-management-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productColumnsSQL = `id, nama_produk, kategori, deskripsi, harga_satuan, stok_awal, stok,
	gambar, status_produk, threshold_stok, diskon, rating, jumlah_terjual, created_at, updated_at`

var productCols = []string{
	"id", "nama_produk", "kategori", "deskripsi", "harga_satuan", "stok_awal", "stok",
	"gambar", "status_produk", "threshold_stok", "diskon", "rating", "jumlah_terjual",
	"created_at", "updated_at",
}

func productRow(id int64, nama string, stok int64, status models.ProductStatus, now time.Time) []driver.Value {
	return []driver.Value{
		id, nama, "elektronik", "deskripsi", 150000.0, stok, stok,
		[]byte(`[]`), string(status), nil, int64(0), 0.0, int64(0), now, now,
	}
}

func TestNewProductRepo(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductRepo(db)
	assert.NotNil(t, repo, "NewProductRepo should return a non-nil repository")
}

func TestProductRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductRepo(db)
	ctx := t.Context()

	t.Run("CreateProduct", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`INSERT INTO products (nama_produk, kategori, deskripsi, harga_satuan, stok_awal, stok,
				gambar, status_produk, threshold_stok, diskon, rating, jumlah_terjual)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id, created_at, updated_at`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			product := &models.Product{
				NamaProduk:   "Kipas Angin",
				Kategori:     "elektronik",
				Deskripsi:    "Kipas angin meja",
				HargaSatuan:  150000,
				StokAwal:     100,
				Stok:         100,
				Gambar:       models.ImageList{"kipas.jpg"},
				StatusProduk: models.ProductStatusAktif,
			}
			now := time.Now()

			mock.ExpectQuery(expectedSQL).
				WithArgs(product.NamaProduk, product.Kategori, product.Deskripsi, product.HargaSatuan,
					product.StokAwal, product.Stok, product.Gambar, product.StatusProduk, sql.NullInt64{},
					product.Diskon, product.Rating, product.JumlahTerjual).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
					AddRow(int64(1), now, now))

			// Act
			err := repo.CreateProduct(ctx, product)

			// Assert
			require.NoError(t, err, "CreateProduct should not return an error on success")
			assert.Equal(t, int64(1), product.ID, "Product ID should be updated")
			assert.WithinDuration(t, now, product.CreatedAt, time.Second)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Error", func(t *testing.T) {
			// Arrange
			product := &models.Product{NamaProduk: "Gagal", Kategori: "elektronik", HargaSatuan: 10}
			dbError := errors.New("database insertion error")

			mock.ExpectQuery(expectedSQL).WillReturnError(dbError)

			// Act
			err := repo.CreateProduct(ctx, product)

			// Assert
			require.Error(t, err, "CreateProduct should return an error on database failure")
			assert.ErrorIs(t, err, dbError, "Returned error should be the database error")
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetProductByID", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`SELECT ` + productColumnsSQL + ` FROM products WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			now := time.Now()
			rows := sqlmock.NewRows(productCols).
				AddRow(productRow(7, "Kipas Angin", 40, models.ProductStatusAktif, now)...)

			mock.ExpectQuery(expectedSQL).WithArgs(int64(7)).WillReturnRows(rows)

			// Act
			product, err := repo.GetProductByID(ctx, 7)

			// Assert
			require.NoError(t, err, "GetProductByID should not return an error when product is found")
			assert.Equal(t, int64(7), product.ID)
			assert.Equal(t, "Kipas Angin", product.NamaProduk)
			assert.Equal(t, models.ProductStatusAktif, product.StatusProduk)
			assert.Nil(t, product.ThresholdStok, "NULL threshold should scan to nil")
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("NotFound", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).WithArgs(int64(999)).WillReturnError(sql.ErrNoRows)

			// Act
			product, err := repo.GetProductByID(ctx, 999)

			// Assert
			require.Error(t, err, "GetProductByID should return an error when product is not found")
			assert.ErrorIs(t, err, sql.ErrNoRows, "Returned error should be sql.ErrNoRows")
			assert.Nil(t, product, "Returned product should be nil on error")
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("UpdateProduct", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`UPDATE products
			  SET nama_produk = $1, kategori = $2, deskripsi = $3, harga_satuan = $4,
				  stok_awal = $5, stok = $6, gambar = $7, status_produk = $8,
				  threshold_stok = $9, diskon = $10, rating = $11, jumlah_terjual = $12,
				  updated_at = NOW()
			  WHERE id = $13
			  RETURNING updated_at`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			threshold := int64(5)
			product := &models.Product{
				ID:            3,
				NamaProduk:    "Kipas Angin Baru",
				Kategori:      "elektronik",
				HargaSatuan:   175000,
				StokAwal:      100,
				Stok:          4,
				Gambar:        models.ImageList{},
				StatusProduk:  models.ProductStatusMenipis,
				ThresholdStok: &threshold,
			}
			now := time.Now()

			mock.ExpectQuery(expectedSQL).
				WithArgs(product.NamaProduk, product.Kategori, product.Deskripsi, product.HargaSatuan,
					product.StokAwal, product.Stok, product.Gambar, product.StatusProduk,
					sql.NullInt64{Int64: threshold, Valid: true},
					product.Diskon, product.Rating, product.JumlahTerjual, product.ID).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

			// Act
			err := repo.UpdateProduct(ctx, product)

			// Assert
			require.NoError(t, err, "UpdateProduct should not return an error on success")
			assert.WithinDuration(t, now, product.UpdatedAt, time.Second)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("NotFound", func(t *testing.T) {
			// Arrange
			product := &models.Product{ID: 999, NamaProduk: "Hilang", Gambar: models.ImageList{}}

			mock.ExpectQuery(expectedSQL).WillReturnError(sql.ErrNoRows)

			// Act
			err := repo.UpdateProduct(ctx, product)

			// Assert
			require.Error(t, err, "UpdateProduct should return an error if the product is not found")
			assert.ErrorIs(t, err, sql.ErrNoRows, "Returned error should be sql.ErrNoRows")
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("DeleteProduct", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`DELETE FROM products WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).WithArgs(int64(3)).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.DeleteProduct(ctx, 3)

			// Assert
			require.NoError(t, err, "DeleteProduct should not return an error on success")
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("NotFound", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).WithArgs(int64(999)).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.DeleteProduct(ctx, 999)

			// Assert
			require.Error(t, err, "DeleteProduct should surface a missing row")
			assert.ErrorIs(t, err, sql.ErrNoRows, "Returned error should be sql.ErrNoRows")
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("ListProducts", func(t *testing.T) {
		t.Run("Success_WithFilters", func(t *testing.T) {
			// Arrange
			now := time.Now()
			opts := repository.ProductListOptions{
				Page:     1,
				Limit:    10,
				Kategori: "elektronik",
				Search:   "kipas",
			}

			expectedCountSQL := regexp.QuoteMeta(
				`SELECT COUNT(*) FROM products WHERE kategori = $1 AND nama_produk ILIKE $2`)
			expectedListSQL := regexp.QuoteMeta(
				`SELECT ` + productColumnsSQL + ` FROM products WHERE kategori = $1 AND nama_produk ILIKE $2 ORDER BY updated_at DESC, id ASC LIMIT $3 OFFSET $4`)

			mock.ExpectQuery(expectedCountSQL).
				WithArgs("elektronik", "%kipas%").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

			rows := sqlmock.NewRows(productCols).
				AddRow(productRow(1, "Kipas Angin Meja", 40, models.ProductStatusAktif, now)...).
				AddRow(productRow(2, "Kipas Angin Berdiri", 12, models.ProductStatusAktif, now)...)
			mock.ExpectQuery(expectedListSQL).
				WithArgs("elektronik", "%kipas%", 10, 0).
				WillReturnRows(rows)

			// Act
			products, total, err := repo.ListProducts(ctx, opts)

			// Assert
			require.NoError(t, err, "ListProducts should not return an error on success")
			assert.Equal(t, int64(2), total, "Returned total should match the count query")
			require.Len(t, products, 2)
			assert.Equal(t, "Kipas Angin Meja", products[0].NamaProduk)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Success_NoItems", func(t *testing.T) {
			// Arrange
			opts := repository.ProductListOptions{Page: 1, Limit: 10}

			expectedCountSQL := regexp.QuoteMeta(`SELECT COUNT(*) FROM products`)
			expectedListSQL := regexp.QuoteMeta(
				`SELECT ` + productColumnsSQL + ` FROM products ORDER BY updated_at DESC, id ASC LIMIT $1 OFFSET $2`)

			mock.ExpectQuery(expectedCountSQL).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
			mock.ExpectQuery(expectedListSQL).WithArgs(10, 0).
				WillReturnRows(sqlmock.NewRows(productCols))

			// Act
			products, total, err := repo.ListProducts(ctx, opts)

			// Assert
			require.NoError(t, err, "ListProducts should not return an error when no items exist")
			assert.Zero(t, total)
			assert.Empty(t, products)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("CountError", func(t *testing.T) {
			// Arrange
			dbError := errors.New("count query failed")
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products`)).
				WillReturnError(dbError)

			// Act
			products, total, err := repo.ListProducts(ctx, repository.ProductListOptions{})

			// Assert
			require.Error(t, err, "ListProducts should return an error if count query fails")
			assert.ErrorIs(t, err, dbError)
			assert.Nil(t, products)
			assert.Zero(t, total)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("AdjustStock", func(t *testing.T) {
		lockSQL := regexp.QuoteMeta(
			`SELECT stok, status_produk, threshold_stok FROM products WHERE id = $1 FOR UPDATE`)
		updateSQL := regexp.QuoteMeta(`UPDATE products SET stok = $1, status_produk = $2, updated_at = NOW()
			  WHERE id = $3
			  RETURNING ` + productColumnsSQL)

		t.Run("Add_Success", func(t *testing.T) {
			// Arrange
			now := time.Now()

			mock.ExpectBegin()
			mock.ExpectQuery(lockSQL).WithArgs(int64(1)).
				WillReturnRows(sqlmock.NewRows([]string{"stok", "status_produk", "threshold_stok"}).
					AddRow(int64(10), string(models.ProductStatusAktif), nil))
			mock.ExpectQuery(updateSQL).
				WithArgs(int64(15), models.ProductStatusAktif, int64(1)).
				WillReturnRows(sqlmock.NewRows(productCols).
					AddRow(productRow(1, "Kipas Angin", 15, models.ProductStatusAktif, now)...))
			mock.ExpectCommit()

			// Act
			product, err := repo.AdjustStock(ctx, 1, 5, models.StockOpAdd)

			// Assert
			require.NoError(t, err, "AdjustStock should not return an error on success")
			assert.Equal(t, int64(15), product.Stok, "Stock should reflect the addition")
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Subtract_CrossesThreshold", func(t *testing.T) {
			// Arrange
			now := time.Now()

			mock.ExpectBegin()
			mock.ExpectQuery(lockSQL).WithArgs(int64(2)).
				WillReturnRows(sqlmock.NewRows([]string{"stok", "status_produk", "threshold_stok"}).
					AddRow(int64(10), string(models.ProductStatusAktif), int64(5)))
			mock.ExpectQuery(updateSQL).
				WithArgs(int64(4), models.ProductStatusMenipis, int64(2)).
				WillReturnRows(sqlmock.NewRows(productCols).
					AddRow(productRow(2, "Kipas Angin", 4, models.ProductStatusMenipis, now)...))
			mock.ExpectCommit()

			// Act
			product, err := repo.AdjustStock(ctx, 2, 6, models.StockOpSubtract)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, models.ProductStatusMenipis, product.StatusProduk,
				"Status should be re-derived when stock falls to the threshold or below")
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Subtract_InsufficientStock", func(t *testing.T) {
			// Arrange
			mock.ExpectBegin()
			mock.ExpectQuery(lockSQL).WithArgs(int64(3)).
				WillReturnRows(sqlmock.NewRows([]string{"stok", "status_produk", "threshold_stok"}).
					AddRow(int64(5), string(models.ProductStatusAktif), nil))
			mock.ExpectRollback()

			// Act
			product, err := repo.AdjustStock(ctx, 3, 10, models.StockOpSubtract)

			// Assert
			require.Error(t, err, "AdjustStock should reject a subtraction larger than the stock")
			assert.ErrorIs(t, err, repository.ErrInsufficientStock)
			assert.Nil(t, product, "No product should be returned when the adjustment is rejected")
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("NotFound", func(t *testing.T) {
			// Arrange
			mock.ExpectBegin()
			mock.ExpectQuery(lockSQL).WithArgs(int64(999)).WillReturnError(sql.ErrNoRows)
			mock.ExpectRollback()

			// Act
			product, err := repo.AdjustStock(ctx, 999, 1, models.StockOpAdd)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			assert.Nil(t, product)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
