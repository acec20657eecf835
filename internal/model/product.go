package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in-stock"
	StockStatusLowStock   StockStatus = "low-stock"
	StockStatusOutOfStock StockStatus = "out-of-stock"
)

const DefaultLowStockThreshold = 5

// SizesStock maps a size label to its unit count. Stored as JSONB.
type SizesStock map[string]int

func (s SizesStock) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SizesStock) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return s.unmarshal(v)
	case string:
		return s.unmarshal([]byte(v))
	default:
		return fmt.Errorf("sizes_stock: unsupported type %T", src)
	}
}

func (s *SizesStock) unmarshal(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*s = nil
		return nil
	}
	m := map[string]int{}
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("sizes_stock: %w", err)
	}
	*s = m
	return nil
}

func (s SizesStock) Total() int {
	total := 0
	for _, qty := range s {
		total += qty
	}
	return total
}

func (s SizesStock) Clone() SizesStock {
	if s == nil {
		return nil
	}
	out := make(SizesStock, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

type Product struct {
	BaseModel
	Name               string          `db:"name" json:"name"`
	Brand              string          `db:"brand" json:"brand"`
	Category           string          `db:"category" json:"category"`
	ItemNumber         string          `db:"item_number" json:"item_number"`
	Price              decimal.Decimal `db:"price" json:"price"`
	DiscountPercentage decimal.Decimal `db:"discount_percentage" json:"discount_percentage"`
	Stock              int             `db:"stock" json:"stock"`
	SizesStock         SizesStock      `db:"sizes_stock" json:"sizes_stock,omitempty"`
	LowStockThreshold  int             `db:"low_stock_threshold" json:"low_stock_threshold"`
	Description        *string         `db:"description" json:"description"`
	Image              *string         `db:"image" json:"image"`
	Color              *string         `db:"color" json:"color"`
}

func (p *Product) HasSizes() bool {
	return len(p.SizesStock) > 0
}

// AvailableFor returns the stock for a cart key. ok is false when the size is not offered.
func (p *Product) AvailableFor(size string) (available int, ok bool) {
	if !p.HasSizes() {
		return p.Stock, size == ""
	}
	qty, found := p.SizesStock[size]
	return qty, found
}

// NormalizeStock derives the aggregate stock from the size entries when the product has any.
func (p *Product) NormalizeStock() {
	if p.HasSizes() {
		p.Stock = p.SizesStock.Total()
	}
}

func (p *Product) StockStatus() StockStatus {
	switch {
	case p.Stock <= 0:
		return StockStatusOutOfStock
	case p.Stock <= p.LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// EffectivePrice is the unit price after the product's own promotional discount.
func (p *Product) EffectivePrice() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(1).Sub(p.DiscountPercentage.Div(hundred)))
}

type ProductWithStatus struct {
	Product
	Status StockStatus `json:"stock_status"`
}

func WithStatus(p Product) ProductWithStatus {
	return ProductWithStatus{Product: p, Status: p.StockStatus()}
}
