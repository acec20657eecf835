package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	Name               string          `json:"name"`
	Brand              string          `json:"brand"`
	Category           string          `json:"category"`
	ItemNumber         string          `json:"item_number"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Stock              int             `json:"stock"`
	SizesStock         map[string]int  `json:"sizes_stock"`
	LowStockThreshold  *int            `json:"low_stock_threshold"`
	Description        string          `json:"description"`
	Image              string          `json:"image"`
	Color              string          `json:"color"`
}

type UpdateProductInput struct {
	ID string `json:"id"`
	CreateProductInput
}
