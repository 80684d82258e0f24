package models

// PageRequest captures a sanitised page/limit pair with the derived offset.
type PageRequest struct {
	Page   int
	Limit  int
	Offset int
}

// Paginate normalises raw page/limit input. Page floors at 1, limit is
// clamped to [1,100] and non-positive input falls back to the default of 10.
func Paginate(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return PageRequest{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination derives list metadata from a total row count and the
// sanitised page/limit pair used for the query.
func NewPagination(total, page, limit int) *Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page*limit < total,
		HasPrev:    page > 1,
	}
}
