package dto

import (
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/model"
)

type BillFilters struct {
	From          *time.Time          `json:"from,omitempty"`
	To            *time.Time          `json:"to,omitempty"`
	PaymentMethod model.PaymentMethod `json:"payment_method,omitempty"`
	Status        model.BillStatus    `json:"status,omitempty"`
	Query         string              `json:"query,omitempty"` // customer name or phone
	Page          int                 `json:"page,omitempty"`
	PageSize      int                 `json:"page_size,omitempty"`
}

// Warning records a cart line whose stock could not be decremented after the bill was stored.
type Warning struct {
	ProductID string `json:"product_id"`
	Size      string `json:"selected_size,omitempty"`
	Reason    string `json:"reason"`
}

// StockNotice reports a product that reached low or zero stock through this sale.
type StockNotice struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	Stock     int               `json:"stock"`
	Status    model.StockStatus `json:"stock_status"`
}

type CheckoutResult struct {
	Bill     *model.BillWithItems `json:"bill"`
	Warnings []Warning            `json:"warnings"`
	LowStock []StockNotice        `json:"low_stock"`
}

const EventBillCompleted = "BillCompleted"

type BillCompletedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   *model.BillWithItems `json:"payload"`
	Warnings  []Warning            `json:"warnings,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}
