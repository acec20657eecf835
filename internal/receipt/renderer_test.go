package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/pkg/i18n"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBill() *model.BillWithItems {
	return &model.BillWithItems{
		Bill: model.Bill{
			ID:             "b-1",
			CreatedAt:      time.Date(2026, 1, 15, 6, 30, 0, 0, time.UTC),
			CustomerName:   "Ravi",
			CustomerPhone:  "9876543210",
			PaymentMethod:  model.PaymentCard,
			Subtotal:       decimal.NewFromInt(245),
			Tax:            decimal.RequireFromString("24.5"),
			DiscountAmount: decimal.RequireFromString("24.5"),
			Total:          decimal.NewFromInt(245),
			Status:         model.BillStatusCompleted,
		},
		Items: []model.BillItem{
			{ProductName: "Shirt", ProductPrice: decimal.NewFromInt(100), Quantity: 2, Total: decimal.NewFromInt(200)},
			{ProductName: "Cap", ProductPrice: decimal.NewFromInt(50), DiscountPercentage: decimal.NewFromInt(10), SelectedSize: "M", Quantity: 1, Total: decimal.NewFromInt(45)},
		},
	}
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	tr, err := i18n.New("en")
	require.NoError(t, err)
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return NewRenderer(tr, ShopInfo{
		Name:     "Sharma Garments",
		Address:  []string{"12 MG Road", "Pune"},
		Contact:  "020-5555",
		GSTIN:    "27ABCDE1234F1Z5",
		Currency: "Rs.",
		GSTLabel: "GST",
	}, loc)
}

func TestRender(t *testing.T) {
	text := newRenderer(t).Render(sampleBill(), "en")

	for _, want := range []string{
		"SHARMA GARMENTS",
		"GSTIN : 27ABCDE1234F1Z5",
		"Bill No : b-1",
		"Date : 15/01/2026   Time : 12:00",
		"Customer : Ravi (9876543210)",
		"Shirt",
		"2 x Rs.100.00",
		"Size M  1 x Rs.50.00 (-10%)",
		"Qty: 3   Total MRP: Rs.250.00",
		"Subtotal : Rs.245.00",
		"Tax : Rs.24.50",
		"Discount : -Rs.24.50",
		"Net Amount : Rs.245.00",
		"GST Summary : Taxable Rs.245.00 | CGST Rs.12.25 | SGST Rs.12.25",
		"Card : Rs.245.00",
		"Thank you for shopping at Sharma Garments!",
	} {
		assert.Contains(t, text, want)
	}

	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if strings.HasPrefix(line, "  ") && strings.Contains(line, " x ") {
			assert.Len(t, []rune(line), width, line)
		}
	}
}

func TestGSTSummaryTaxesSubtotalBeforeDiscount(t *testing.T) {
	b := &model.BillWithItems{
		Bill: model.Bill{
			ID:             "b-2",
			PaymentMethod:  model.PaymentCash,
			Subtotal:       decimal.NewFromInt(1000),
			Tax:            decimal.NewFromInt(180),
			DiscountAmount: decimal.NewFromInt(500),
			Total:          decimal.NewFromInt(680),
		},
		Items: []model.BillItem{
			{ProductName: "Saree", ProductPrice: decimal.NewFromInt(1000), Quantity: 1, Total: decimal.NewFromInt(1000)},
		},
	}

	text := newRenderer(t).Render(b, "en")
	assert.Contains(t, text, "GST Summary : Taxable Rs.1000.00 | CGST Rs.90.00 | SGST Rs.90.00")
}

func TestRenderOmitsZeroTaxAndDiscount(t *testing.T) {
	b := sampleBill()
	b.Tax = decimal.Zero
	b.DiscountAmount = decimal.Zero
	b.PaymentMethod = model.PaymentCash

	text := newRenderer(t).Render(b, "en")
	assert.NotContains(t, text, "Tax :")
	assert.NotContains(t, text, "Discount :")
	assert.NotContains(t, text, "GST Summary")
	assert.Contains(t, text, "Cash : Rs.245.00")
}

func TestRenderTranslates(t *testing.T) {
	text := newRenderer(t).Render(sampleBill(), "hi")
	assert.Contains(t, text, "बिल नं : b-1")
	assert.Contains(t, text, "कार्ड : Rs.245.00")
}

func TestGreeting(t *testing.T) {
	got := newRenderer(t).Greeting(sampleBill(), "en")
	assert.Equal(t, "Hello Ravi, here is your receipt from Sharma Garments.", got)
}

func TestSplitGST(t *testing.T) {
	tests := []struct {
		tax, cgst, sgst string
	}{
		{"24.5", "12.25", "12.25"},
		{"0.05", "0.02", "0.03"},
		{"10.01", "5", "5.01"},
		{"0", "0", "0"},
	}
	for _, tt := range tests {
		cgst, sgst := SplitGST(decimal.RequireFromString(tt.tax))
		assert.True(t, cgst.Equal(decimal.RequireFromString(tt.cgst)), "cgst of %s = %s", tt.tax, cgst)
		assert.True(t, sgst.Equal(decimal.RequireFromString(tt.sgst)), "sgst of %s = %s", tt.tax, sgst)
	}
}
