package models

// PaginatedResponse is the envelope returned by every list endpoint.
type PaginatedResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

func NewPaginatedResponse(items any, total int64, page, limit int) *PaginatedResponse {
	var pages int64
	if total > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}

	return &PaginatedResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}
