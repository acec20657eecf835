package cart

import (
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/shopspring/decimal"
)

// Totals are rounded to cents and always satisfy Total = Subtotal + Tax - Discount.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount_amount"`
	Total    decimal.Decimal `json:"total"`
}

// Compute derives the bill amounts from line items, a cart discount and a tax rate fraction.
func Compute(items []Item, d model.Discount, taxRate decimal.Decimal) Totals {
	raw := decimal.Zero
	for i := range items {
		raw = raw.Add(items[i].LineTotal())
	}
	subtotal := raw.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	var discount decimal.Decimal
	switch d.Type {
	case model.DiscountAmount:
		discount = decimal.Min(d.Value, subtotal)
	default:
		discount = subtotal.Mul(d.Value).Div(hundred)
	}
	discount = discount.Round(2)
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	total := subtotal.Add(tax).Sub(discount)
	if total.IsNegative() {
		// keep the identity by absorbing the excess into the discount
		discount = subtotal.Add(tax)
		total = decimal.Zero
	}

	return Totals{Subtotal: subtotal, Tax: tax, Discount: discount, Total: total}
}
