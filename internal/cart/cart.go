// Package cart is the in-memory billing cart: line items with a product
// snapshot, a cart level discount and the derived totals. It does no I/O.
package cart

import (
	"strings"

	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Item struct {
	Product      model.Product `json:"product"`
	Quantity     int           `json:"quantity"`
	SelectedSize string        `json:"selected_size,omitempty"`
}

func (i *Item) matches(productID, size string) bool {
	return i.Product.ID == productID && i.SelectedSize == size
}

// LineTotal is the discounted unit price times quantity, unrounded.
func (i *Item) LineTotal() decimal.Decimal {
	return i.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	Items    []Item         `json:"items"`
	Discount model.Discount `json:"discount"`
}

func New() *Cart {
	return &Cart{Items: []Item{}, Discount: model.NoDiscount()}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) find(productID, size string) int {
	for i := range c.Items {
		if c.Items[i].matches(productID, size) {
			return i
		}
	}
	return -1
}

// AddItem merges into the line with the same product and size, or appends a new line.
// The cart is left unchanged on error.
func (c *Cart) AddItem(p model.Product, quantity int, size string) error {
	if quantity < 1 {
		return apperror.Validation("quantity", "quantity must be at least 1")
	}
	size = strings.TrimSpace(size)

	available, err := availableFor(&p, size)
	if err != nil {
		return err
	}

	idx := c.find(p.ID, size)
	requested := quantity
	if idx >= 0 {
		requested += c.Items[idx].Quantity
	}
	if requested > available {
		return stockExceeded(&p, size, requested, available)
	}

	if idx >= 0 {
		c.Items[idx].Quantity = requested
		return nil
	}
	c.Items = append(c.Items, Item{Product: p, Quantity: quantity, SelectedSize: size})
	return nil
}

// UpdateQuantity replaces the quantity of a line. n <= 0 removes it.
func (c *Cart) UpdateQuantity(productID, size string, n int) error {
	size = strings.TrimSpace(size)
	if n <= 0 {
		c.RemoveItem(productID, size)
		return nil
	}
	idx := c.find(productID, size)
	if idx < 0 {
		return apperror.Validation("product_id", "product %s is not in the cart", describeKey(productID, size))
	}

	item := &c.Items[idx]
	available, _ := item.Product.AvailableFor(size)
	if n > available {
		return stockExceeded(&item.Product, size, n, available)
	}
	item.Quantity = n
	return nil
}

func (c *Cart) RemoveItem(productID, size string) {
	size = strings.TrimSpace(size)
	idx := c.find(productID, size)
	if idx < 0 {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

func (c *Cart) Clear() {
	c.Items = []Item{}
	c.Discount = model.NoDiscount()
}

func (c *Cart) ApplyDiscount(t model.DiscountType, value decimal.Decimal) error {
	d := model.Discount{Type: t, Value: value}
	if err := ValidateDiscount(d); err != nil {
		return err
	}
	c.Discount = d
	return nil
}

func (c *Cart) RemoveDiscount() {
	c.Discount = model.NoDiscount()
}

func (c *Cart) Totals(taxRate decimal.Decimal) Totals {
	return Compute(c.Items, c.Discount, taxRate)
}

func ValidateDiscount(d model.Discount) error {
	if !d.Type.Valid() {
		return apperror.Validation("discount_type", "unknown discount type %q", d.Type)
	}
	if d.Value.IsNegative() {
		return apperror.Validation("discount_value", "discount cannot be negative")
	}
	if d.Type == model.DiscountPercent && d.Value.GreaterThan(hundred) {
		return apperror.Validation("discount_value", "percent discount cannot exceed 100")
	}
	return nil
}

func availableFor(p *model.Product, size string) (int, error) {
	if p.HasSizes() {
		if size == "" {
			return 0, apperror.Validation("selected_size", "%s requires a size", p.Name)
		}
		qty, ok := p.SizesStock[size]
		if !ok {
			return 0, apperror.Validation("selected_size", "%s has no size %q", p.Name, size)
		}
		if qty <= 0 {
			return 0, apperror.Validation("selected_size", "%s (%s) is out of stock", p.Name, size)
		}
		return qty, nil
	}
	if size != "" {
		return 0, apperror.Validation("selected_size", "%s has no sizes", p.Name)
	}
	return p.Stock, nil
}

func stockExceeded(p *model.Product, size string, requested, available int) error {
	return &apperror.StockExceededError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Size:        size,
		Requested:   requested,
		Available:   available,
	}
}

func describeKey(productID, size string) string {
	if size == "" {
		return productID
	}
	return productID + " (" + size + ")"
}
