package dto

type MovementFilters struct {
	ProductID    string `json:"product_id"`
	MovementType string `json:"movement_type"`
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
}

type LowStockFilters struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}
