package models_test

import (
	"encoding/json"
	"testing"

	"github.com/naufalhakim/product-management-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestDeriveProductStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    models.ProductStatus
		stok      int64
		threshold *int64
		expected  models.ProductStatus
	}{
		{
			name:      "Explicit nonaktif wins over low stock",
			status:    models.ProductStatusNonaktif,
			stok:      0,
			threshold: int64Ptr(5),
			expected:  models.ProductStatusNonaktif,
		},
		{
			name:      "Stock below threshold is menipis",
			status:    models.ProductStatusAktif,
			stok:      3,
			threshold: int64Ptr(5),
			expected:  models.ProductStatusMenipis,
		},
		{
			name:      "Stock equal to threshold is menipis",
			status:    models.ProductStatusAktif,
			stok:      5,
			threshold: int64Ptr(5),
			expected:  models.ProductStatusMenipis,
		},
		{
			name:      "Stock above threshold is aktif",
			status:    models.ProductStatusAktif,
			stok:      6,
			threshold: int64Ptr(5),
			expected:  models.ProductStatusAktif,
		},
		{
			name:      "No threshold set means never menipis",
			status:    models.ProductStatusAktif,
			stok:      0,
			threshold: nil,
			expected:  models.ProductStatusAktif,
		},
		{
			name:      "Stored menipis with restocked quantity re-derives to aktif",
			status:    models.ProductStatusMenipis,
			stok:      100,
			threshold: int64Ptr(5),
			expected:  models.ProductStatusAktif,
		},
		{
			name:      "Zero threshold with zero stock is menipis",
			status:    models.ProductStatusAktif,
			stok:      0,
			threshold: int64Ptr(0),
			expected:  models.ProductStatusMenipis,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := models.DeriveProductStatus(tc.status, tc.stok, tc.threshold)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDiscountedPrice(t *testing.T) {
	t.Run("Zero discount returns unit price", func(t *testing.T) {
		assert.InDelta(t, 15000000.0, models.DiscountedPrice(15000000.0, 0), 1e-9)
	})

	t.Run("Full discount returns zero", func(t *testing.T) {
		assert.InDelta(t, 0.0, models.DiscountedPrice(15000000.0, 100), 1e-9)
	})

	t.Run("Partial discount", func(t *testing.T) {
		assert.InDelta(t, 13500000.0, models.DiscountedPrice(15000000.0, 10), 1e-6)
	})

	t.Run("Response rounds to two decimals", func(t *testing.T) {
		p := &models.Product{HargaSatuan: 99.99, Diskon: 33}
		resp := p.ToResponse()
		assert.Equal(t, 66.99, resp.HargaSetelahDiskon)
	})

	t.Run("Response recomputes from current fields", func(t *testing.T) {
		p := &models.Product{HargaSatuan: 200, Diskon: 50}
		assert.Equal(t, 100.0, p.ToResponse().HargaSetelahDiskon)

		p.Diskon = 25
		assert.Equal(t, 150.0, p.ToResponse().HargaSetelahDiskon)
	})
}

func TestProductResponseSerialization(t *testing.T) {
	p := &models.Product{
		ID:          1,
		NamaProduk:  "Laptop ASUS ROG",
		Kategori:    "Electronics",
		HargaSatuan: 15000000,
		Stok:        8,
		Diskon:      10,
	}

	data, err := json.Marshal(p.ToResponse())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "Laptop ASUS ROG", decoded["nama_produk"])
	assert.InDelta(t, 13500000.0, decoded["harga_setelah_diskon"].(float64), 1e-6)
	assert.Equal(t, []any{}, decoded["gambar"], "nil image list serializes as empty array")
	assert.Nil(t, decoded["threshold_stok"])
}

func TestImageListScan(t *testing.T) {
	t.Run("Scans JSON bytes", func(t *testing.T) {
		var l models.ImageList
		require.NoError(t, l.Scan([]byte(`["/uploads/a.jpg","/uploads/b.png"]`)))
		assert.Equal(t, models.ImageList{"/uploads/a.jpg", "/uploads/b.png"}, l)
	})

	t.Run("Nil column scans as empty list", func(t *testing.T) {
		var l models.ImageList
		require.NoError(t, l.Scan(nil))
		assert.Empty(t, l)
	})

	t.Run("Nil list stores as empty JSON array", func(t *testing.T) {
		var l models.ImageList
		v, err := l.Value()
		require.NoError(t, err)
		assert.Equal(t, []byte("[]"), v)
	})
}
