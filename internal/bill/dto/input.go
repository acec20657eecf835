package dto

import (
	"github.com/fekuna/omnipos-billing-service/internal/cart"
	"github.com/fekuna/omnipos-billing-service/internal/model"
)

type Customer struct {
	Name  string `json:"customer_name"`
	Phone string `json:"customer_phone"`
	Email string `json:"customer_email"`
}

type CheckoutInput struct {
	Items         []cart.Item         `json:"items"`
	Discount      model.Discount      `json:"discount"`
	Customer      Customer            `json:"customer"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}
