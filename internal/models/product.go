package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

type ProductStatus string

const (
	ProductStatusAktif    ProductStatus = "aktif"
	ProductStatusNonaktif ProductStatus = "nonaktif"
	ProductStatusMenipis  ProductStatus = "menipis"
)

type StockOperation string

const (
	StockOpAdd      StockOperation = "add"
	StockOpSubtract StockOperation = "subtract"
)

// ImageList is stored as a JSON array in a single column.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(l)
}

func (l *ImageList) Scan(src any) error {
	if src == nil {
		*l = ImageList{}
		return nil
	}

	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, l)
	case string:
		return json.Unmarshal([]byte(data), l)
	default:
		return fmt.Errorf("unsupported type %T for ImageList", src)
	}
}

type Product struct {
	ID            int64         `json:"id"`
	NamaProduk    string        `json:"nama_produk"`
	Kategori      string        `json:"kategori"`
	Deskripsi     string        `json:"deskripsi"`
	HargaSatuan   float64       `json:"harga_satuan"`
	StokAwal      int64         `json:"stok_awal"`
	Stok          int64         `json:"stok"`
	Gambar        ImageList     `json:"gambar"`
	StatusProduk  ProductStatus `json:"status_produk"`
	ThresholdStok *int64        `json:"threshold_stok"`
	Diskon        float64       `json:"diskon"`
	Rating        float64       `json:"rating"`
	JumlahTerjual int64         `json:"jumlah_terjual"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// HargaSetelahDiskon computes the unit price after discount. Derived on read,
// never persisted.
func (p *Product) HargaSetelahDiskon() float64 {
	return DiscountedPrice(p.HargaSatuan, p.Diskon)
}

func DiscountedPrice(hargaSatuan, diskon float64) float64 {
	return hargaSatuan * (1 - diskon/100)
}

// roundCurrency rounds to the minor-unit precision used in responses.
func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}

// DeriveProductStatus applies the status policy, in priority order:
// an explicit nonaktif always wins, then menipis when the threshold is set
// and reached, otherwise aktif. Applied on every write path.
func DeriveProductStatus(status ProductStatus, stok int64, thresholdStok *int64) ProductStatus {
	if status == ProductStatusNonaktif {
		return ProductStatusNonaktif
	}

	if thresholdStok != nil && stok <= *thresholdStok {
		return ProductStatusMenipis
	}

	return ProductStatusAktif
}

type CreateProductRequest struct {
	NamaProduk    string        `json:"nama_produk" validate:"required,min=1,max=255"`
	Kategori      string        `json:"kategori" validate:"required,min=1,max=100"`
	Deskripsi     string        `json:"deskripsi,omitempty"`
	HargaSatuan   float64       `json:"harga_satuan" validate:"required,gt=0"`
	StokAwal      int64         `json:"stok_awal" validate:"gte=0"`
	Gambar        []string      `json:"gambar,omitempty"`
	StatusProduk  ProductStatus `json:"status_produk" validate:"omitempty,oneof=aktif nonaktif menipis"`
	ThresholdStok *int64        `json:"threshold_stok,omitempty" validate:"omitempty,gte=0"`
	Diskon        float64       `json:"diskon" validate:"gte=0,lte=100"`
	Rating        float64       `json:"rating" validate:"gte=0,lte=5"`
	JumlahTerjual int64         `json:"jumlah_terjual" validate:"gte=0"`
}

type UpdateProductRequest struct {
	NamaProduk    *string        `json:"nama_produk,omitempty" validate:"omitempty,min=1,max=255"`
	Kategori      *string        `json:"kategori,omitempty" validate:"omitempty,min=1,max=100"`
	Deskripsi     *string        `json:"deskripsi,omitempty"`
	HargaSatuan   *float64       `json:"harga_satuan,omitempty" validate:"omitempty,gt=0"`
	StokAwal      *int64         `json:"stok_awal,omitempty" validate:"omitempty,gte=0"`
	Stok          *int64         `json:"stok,omitempty" validate:"omitempty,gte=0"`
	Gambar        *[]string      `json:"gambar,omitempty"`
	StatusProduk  *ProductStatus `json:"status_produk,omitempty" validate:"omitempty,oneof=aktif nonaktif menipis"`
	ThresholdStok *int64         `json:"threshold_stok,omitempty" validate:"omitempty,gte=0"`
	Diskon        *float64       `json:"diskon,omitempty" validate:"omitempty,gte=0,lte=100"`
	Rating        *float64       `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	JumlahTerjual *int64         `json:"jumlah_terjual,omitempty" validate:"omitempty,gte=0"`
}

type UpdateProductStatusRequest struct {
	StatusProduk ProductStatus `json:"status_produk" validate:"required,oneof=aktif nonaktif menipis"`
}

type UpdateProductStockRequest struct {
	Adjustment int64          `json:"adjustment" validate:"required,gt=0"`
	Operation  StockOperation `json:"operation" validate:"required,oneof=add subtract"`
}

// ProductResponse is the wire shape of a product, including the derived
// discounted price.
type ProductResponse struct {
	ID                 int64         `json:"id"`
	NamaProduk         string        `json:"nama_produk"`
	Kategori           string        `json:"kategori"`
	Deskripsi          string        `json:"deskripsi"`
	HargaSatuan        float64       `json:"harga_satuan"`
	StokAwal           int64         `json:"stok_awal"`
	Stok               int64         `json:"stok"`
	Gambar             ImageList     `json:"gambar"`
	StatusProduk       ProductStatus `json:"status_produk"`
	ThresholdStok      *int64        `json:"threshold_stok"`
	Diskon             float64       `json:"diskon"`
	Rating             float64       `json:"rating"`
	JumlahTerjual      int64         `json:"jumlah_terjual"`
	HargaSetelahDiskon float64       `json:"harga_setelah_diskon"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

func (p *Product) ToResponse() *ProductResponse {
	gambar := p.Gambar
	if gambar == nil {
		gambar = ImageList{}
	}

	return &ProductResponse{
		ID:                 p.ID,
		NamaProduk:         p.NamaProduk,
		Kategori:           p.Kategori,
		Deskripsi:          p.Deskripsi,
		HargaSatuan:        p.HargaSatuan,
		StokAwal:           p.StokAwal,
		Stok:               p.Stok,
		Gambar:             gambar,
		StatusProduk:       p.StatusProduk,
		ThresholdStok:      p.ThresholdStok,
		Diskon:             p.Diskon,
		Rating:             p.Rating,
		JumlahTerjual:      p.JumlahTerjual,
		HargaSetelahDiskon: roundCurrency(p.HargaSetelahDiskon()),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
