package repository

import (
	"fmt"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListQuery is the composed result of filter/search/sort/pagination
// parameters: a WHERE clause with positional args, an ORDER BY clause, and
// LIMIT/OFFSET values. The same WHERE clause drives both the count query and
// the page query.
type ListQuery struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

type ProductListOptions struct {
	Page      int
	Limit     int
	Kategori  string
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}

type UserListOptions struct {
	Page      int
	Limit     int
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}

// Sort allow-lists. Anything else falls back to the entity default so a
// caller can never sort by an unindexed or unexposed column.
var productSortColumns = map[string]string{
	"nama_produk":    "nama_produk",
	"kategori":       "kategori",
	"harga_satuan":   "harga_satuan",
	"stok":           "stok",
	"rating":         "rating",
	"jumlah_terjual": "jumlah_terjual",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

var userSortColumns = map[string]string{
	"nama":       "nama",
	"email":      "email",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// NormalizePage and NormalizeLimit are also used by handlers so the
// pagination envelope reports the values actually applied.
func NormalizePage(page int) int {
	if page < 1 {
		return defaultPage
	}

	return page
}

func NormalizeLimit(limit int) int {
	if limit < 1 {
		return defaultLimit
	}

	if limit > maxLimit {
		return maxLimit
	}

	return limit
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "desc") {
		return "DESC"
	}

	return "ASC"
}

// BuildProductListQuery composes the product list query. Unknown sort fields
// fall back to updated_at DESC; id is always the tie-break so pagination
// stays deterministic.
func BuildProductListQuery(opts ProductListOptions) ListQuery {

	var (
		conditions []string
		args       []any
	)

	if opts.Kategori != "" {
		args = append(args, opts.Kategori)
		conditions = append(conditions, fmt.Sprintf("kategori = $%d", len(args)))
	}

	if opts.Status != "" {
		args = append(args, opts.Status)
		conditions = append(conditions, fmt.Sprintf("status_produk = $%d", len(args)))
	}

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		conditions = append(conditions, fmt.Sprintf("nama_produk ILIKE $%d", len(args)))
	}

	orderBy := "updated_at DESC"
	if col, ok := productSortColumns[opts.SortBy]; ok {
		orderBy = col + " " + sortDirection(opts.SortOrder)
	}

	page := NormalizePage(opts.Page)
	limit := NormalizeLimit(opts.Limit)

	return ListQuery{
		Where:   joinConditions(conditions),
		Args:    args,
		OrderBy: orderBy + ", id ASC",
		Limit:   limit,
		Offset:  (page - 1) * limit,
	}
}

// BuildUserListQuery composes the user list query. Unknown sort fields fall
// back to nama ASC.
func BuildUserListQuery(opts UserListOptions) ListQuery {

	var (
		conditions []string
		args       []any
	)

	if opts.Status != "" {
		args = append(args, opts.Status)
		conditions = append(conditions, fmt.Sprintf("status_user = $%d", len(args)))
	}

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		conditions = append(conditions, fmt.Sprintf("nama ILIKE $%d", len(args)))
	}

	orderBy := "nama ASC"
	if col, ok := userSortColumns[opts.SortBy]; ok {
		orderBy = col + " " + sortDirection(opts.SortOrder)
	}

	page := NormalizePage(opts.Page)
	limit := NormalizeLimit(opts.Limit)

	return ListQuery{
		Where:   joinConditions(conditions),
		Args:    args,
		OrderBy: orderBy + ", id ASC",
		Limit:   limit,
		Offset:  (page - 1) * limit,
	}
}

func joinConditions(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}

	return "WHERE " + strings.Join(conditions, " AND ")
}
