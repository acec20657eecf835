package receipt

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/receipt/dto"
)

type UseCase interface {
	Render(ctx context.Context, input *dto.RenderInput) (*dto.Receipt, error)
	Send(ctx context.Context, input *dto.SendInput) (*dto.Delivery, error)

	// DeliverCompleted sends the receipt of a just completed bill when the customer left a phone.
	DeliverCompleted(ctx context.Context, bill *model.BillWithItems) (*dto.Delivery, error)
}

// Sender delivers a text message to a phone number and returns the provider message id.
type Sender interface {
	SendText(ctx context.Context, phone, body string) (string, error)
}
