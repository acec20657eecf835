package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBillStatusCanTransition(t *testing.T) {
	assert.True(t, BillStatusDraft.CanTransition(BillStatusPending))
	assert.True(t, BillStatusPending.CanTransition(BillStatusPersisted))
	assert.True(t, BillStatusPersisted.CanTransition(BillStatusReconciled))
	assert.True(t, BillStatusReconciled.CanTransition(BillStatusCompleted))

	assert.False(t, BillStatusPersisted.CanTransition(BillStatusCompleted))
	assert.False(t, BillStatusCompleted.CanTransition(BillStatusDraft))
	assert.False(t, BillStatusReconciled.CanTransition(BillStatusPersisted))
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentCard.Valid())
	assert.True(t, PaymentDigitalWallet.Valid())
	assert.False(t, PaymentMethod("cheque").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestBillWithItemsTotals(t *testing.T) {
	b := BillWithItems{Items: []BillItem{
		{ProductPrice: decimal.RequireFromString("99.50"), Quantity: 2},
		{ProductPrice: decimal.NewFromInt(10), Quantity: 1},
	}}
	assert.Equal(t, 3, b.TotalQuantity())
	assert.True(t, b.TotalMRP().Equal(decimal.NewFromInt(209)))
}

func TestSessionHasRole(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.HasRole(RoleAdmin))

	s := &Session{Role: RoleCashier}
	assert.True(t, s.HasRole(RoleAdmin, RoleCashier))
	assert.False(t, s.HasRole(RoleAdmin))
}
