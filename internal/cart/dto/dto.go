package dto

import (
	billdto "github.com/fekuna/omnipos-billing-service/internal/bill/dto"
	"github.com/fekuna/omnipos-billing-service/internal/cart"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/shopspring/decimal"
)

type AddItemInput struct {
	ProductID    string `json:"product_id"`
	Quantity     *int   `json:"quantity,omitempty"` // defaults to 1
	SelectedSize string `json:"selected_size,omitempty"`
}

type UpdateQuantityInput struct {
	ProductID    string `json:"product_id"`
	SelectedSize string `json:"selected_size,omitempty"`
	Quantity     int    `json:"quantity"`
}

type ItemKeyInput struct {
	ProductID    string `json:"product_id"`
	SelectedSize string `json:"selected_size,omitempty"`
}

type DiscountInput struct {
	Type  model.DiscountType `json:"type"`
	Value decimal.Decimal    `json:"value"`
}

type CheckoutInput struct {
	Customer      billdto.Customer    `json:"customer"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

// View is a cart with its totals computed at the configured tax rate.
type View struct {
	Cart      *cart.Cart  `json:"cart"`
	Totals    cart.Totals `json:"totals"`
	ItemCount int         `json:"item_count"`
}
