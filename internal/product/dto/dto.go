package dto

import "github.com/fekuna/omnipos-billing-service/internal/model"

type ProductFilters struct {
	Category    string            `json:"category,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	SearchQuery string            `json:"query,omitempty"` // name, brand, item number
	StockStatus model.StockStatus `json:"stock_status,omitempty"`
	SortBy      string            `json:"sort_by,omitempty"` // name, price, stock, created_at
	SortOrder   string            `json:"sort_order,omitempty"`
	Page        int               `json:"page,omitempty"`
	PageSize    int               `json:"page_size,omitempty"`
}
