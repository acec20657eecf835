package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCard          PaymentMethod = "card"
	PaymentDigitalWallet PaymentMethod = "digital-wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentDigitalWallet:
		return true
	}
	return false
}

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercent || t == DiscountAmount
}

// Discount is the cart level reduction, applied to the subtotal.
type Discount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

func NoDiscount() Discount {
	return Discount{Type: DiscountPercent, Value: decimal.Zero}
}

type BillStatus string

const (
	BillStatusDraft      BillStatus = "draft"
	BillStatusPending    BillStatus = "pending"
	BillStatusPersisted  BillStatus = "persisted"
	BillStatusReconciled BillStatus = "reconciled"
	BillStatusCompleted  BillStatus = "completed"
)

var billTransitions = map[BillStatus]BillStatus{
	BillStatusDraft:      BillStatusPending,
	BillStatusPending:    BillStatusPersisted,
	BillStatusPersisted:  BillStatusReconciled,
	BillStatusReconciled: BillStatusCompleted,
}

// CanTransition allows only the single forward step of the checkout pipeline.
func (s BillStatus) CanTransition(to BillStatus) bool {
	next, ok := billTransitions[s]
	return ok && next == to
}

type Bill struct {
	ID             string          `db:"id" json:"id"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	CustomerName   string          `db:"customer_name" json:"customer_name"`
	CustomerPhone  string          `db:"customer_phone" json:"customer_phone"`
	CustomerEmail  string          `db:"customer_email" json:"customer_email"`
	PaymentMethod  PaymentMethod   `db:"payment_method" json:"payment_method"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax            decimal.Decimal `db:"tax" json:"tax"`
	DiscountType   DiscountType    `db:"discount_type" json:"discount_type"`
	DiscountValue  decimal.Decimal `db:"discount_value" json:"discount_value"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	Total          decimal.Decimal `db:"total" json:"total"`
	Status         BillStatus      `db:"status" json:"status"`
	OperatorID     string          `db:"operator_id" json:"operator_id"`
}

// BillItem is a snapshot of the product at sale time. Later product edits never touch it.
type BillItem struct {
	ID                 string          `db:"id" json:"id"`
	BillID             string          `db:"bill_id" json:"bill_id"`
	ProductID          string          `db:"product_id" json:"product_id"`
	ProductName        string          `db:"product_name" json:"product_name"`
	ProductPrice       decimal.Decimal `db:"product_price" json:"product_price"`
	DiscountPercentage decimal.Decimal `db:"discount_percentage" json:"discount_percentage"`
	SelectedSize       string          `db:"selected_size" json:"selected_size,omitempty"`
	Quantity           int             `db:"quantity" json:"quantity"`
	Total              decimal.Decimal `db:"total" json:"total"`
	Position           int             `db:"position" json:"-"`
}

type BillWithItems struct {
	Bill
	Items []BillItem `json:"items"`
}

// TotalQuantity and TotalMRP feed the receipt footer.
func (b *BillWithItems) TotalQuantity() int {
	qty := 0
	for _, it := range b.Items {
		qty += it.Quantity
	}
	return qty
}

func (b *BillWithItems) TotalMRP() decimal.Decimal {
	mrp := decimal.Zero
	for _, it := range b.Items {
		mrp = mrp.Add(it.ProductPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return mrp
}
