package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorKindsSurviveWrapping(t *testing.T) {
	stock := fmt.Errorf("add item: %w", &StockExceededError{ProductID: "p1", ProductName: "Kurta", Size: "M", Requested: 3, Available: 2})
	assert.True(t, IsStockExceeded(stock))
	assert.False(t, IsInsufficientStock(stock))
	assert.Contains(t, stock.Error(), "Kurta (M)")

	insufficient := fmt.Errorf("decrease: %w", &InsufficientStockError{ProductID: "p1", Requested: 5, Available: 1})
	assert.True(t, IsInsufficientStock(insufficient))

	persist := Persistence("bill", errors.New("connection reset"))
	assert.True(t, IsPersistence(persist))
	assert.Equal(t, "connection reset", errors.Unwrap(persist).Error())

	assert.True(t, errors.Is(NotFound("product", "p9"), ErrNotFound))
	assert.True(t, IsValidation(Validation("customer_name", "is required")))
	assert.Equal(t, "customer_name: is required", Validation("customer_name", "is required").Error())
}

func TestToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{Validation("size", "is required"), codes.InvalidArgument},
		{&StockExceededError{}, codes.FailedPrecondition},
		{&InsufficientStockError{}, codes.FailedPrecondition},
		{fmt.Errorf("checkout: %w", ErrEmptyCart), codes.FailedPrecondition},
		{ErrAuthenticationRequired, codes.Unauthenticated},
		{ErrForbidden, codes.PermissionDenied},
		{NotFound("bill", "b1"), codes.NotFound},
		{Persistence("bill", errors.New("boom")), codes.Internal},
		{ErrBusy, codes.Unavailable},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("anything"), codes.Internal},
		{status.Error(codes.Aborted, "already a status"), codes.Aborted},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, status.Code(ToStatus(tc.err)), tc.err.Error())
	}
	assert.NoError(t, ToStatus(nil))
}
