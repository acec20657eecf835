package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/pkg/i18n"
	"github.com/shopspring/decimal"
)

const width = 40

type ShopInfo struct {
	Name     string
	Address  []string
	Contact  string
	GSTIN    string
	Currency string
	GSTLabel string
}

// Renderer turns a stored bill into the plain text receipt printed or sent to customers.
type Renderer struct {
	tr       *i18n.Translator
	shop     ShopInfo
	location *time.Location
}

func NewRenderer(tr *i18n.Translator, shop ShopInfo, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{tr: tr, shop: shop, location: loc}
}

func (r *Renderer) Render(b *model.BillWithItems, lang string) string {
	var sb strings.Builder
	rule := strings.Repeat("-", width)
	line := func(s string) {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	t := func(id string, data map[string]interface{}) string {
		return r.tr.T(lang, id, data)
	}

	line(center(strings.ToUpper(r.shop.Name)))
	for _, a := range r.shop.Address {
		line(center(a))
	}
	if r.shop.Contact != "" {
		line(center(r.shop.Contact))
	}
	if r.shop.GSTIN != "" {
		line(center("GSTIN : " + r.shop.GSTIN))
	}
	line(rule)

	created := b.CreatedAt.In(r.location)
	line(t("ReceiptBillNo", map[string]interface{}{"ID": b.ID}))
	line(t("ReceiptDateTime", map[string]interface{}{"Date": created.Format("02/01/2006"), "Time": created.Format("15:04")}))
	if b.CustomerName != "" {
		line(t("ReceiptCustomer", map[string]interface{}{"Name": b.CustomerName, "Phone": b.CustomerPhone}))
	}
	line(rule)
	line(t("ReceiptColumns", nil))
	line(rule)

	for _, it := range b.Items {
		line(it.ProductName)
		detail := fmt.Sprintf("%d x %s", it.Quantity, r.money(it.ProductPrice))
		if it.DiscountPercentage.IsPositive() {
			detail += fmt.Sprintf(" (-%s%%)", it.DiscountPercentage.String())
		}
		if it.SelectedSize != "" {
			detail = t("ReceiptSize", map[string]interface{}{"Size": it.SelectedSize}) + "  " + detail
		}
		line(columns("  "+detail, r.money(it.Total)))
	}
	line(rule)

	line(t("ReceiptTotals", map[string]interface{}{"Qty": b.TotalQuantity(), "MRP": r.money(b.TotalMRP())}))
	line(t("ReceiptSubtotal", map[string]interface{}{"Amount": r.money(b.Subtotal)}))
	if b.Tax.IsPositive() {
		line(t("ReceiptTax", map[string]interface{}{"Amount": r.money(b.Tax)}))
	}
	if b.DiscountAmount.IsPositive() {
		line(t("ReceiptDiscount", map[string]interface{}{"Amount": r.money(b.DiscountAmount)}))
	}
	line(t("ReceiptNet", map[string]interface{}{"Amount": r.money(b.Total)}))

	if b.Tax.IsPositive() {
		cgst, sgst := SplitGST(b.Tax)
		line(rule)
		line(t("ReceiptGSTSummary", map[string]interface{}{
			"Label":   r.shop.GSTLabel,
			"Taxable": r.money(b.Subtotal),
			"CGST":    r.money(cgst),
			"SGST":    r.money(sgst),
		}))
	}

	line(rule)
	line(t("ReceiptPayment", map[string]interface{}{"Method": t(paymentMessageID(b.PaymentMethod), nil), "Amount": r.money(b.Total)}))
	line(rule)
	line(center(t("ReceiptThanks", map[string]interface{}{"Shop": r.shop.Name})))

	return sb.String()
}

// Greeting is the first line of a WhatsApp receipt message.
func (r *Renderer) Greeting(b *model.BillWithItems, lang string) string {
	return r.tr.T(lang, "WhatsAppGreeting", map[string]interface{}{"Name": b.CustomerName, "Shop": r.shop.Name})
}

// SplitGST halves the tax into central and state parts that always add back up to tax.
func SplitGST(tax decimal.Decimal) (cgst, sgst decimal.Decimal) {
	cgst = tax.Div(decimal.NewFromInt(2)).RoundFloor(2)
	return cgst, tax.Sub(cgst)
}

func (r *Renderer) money(d decimal.Decimal) string {
	return r.shop.Currency + d.StringFixed(2)
}

func paymentMessageID(m model.PaymentMethod) string {
	switch m {
	case model.PaymentCard:
		return "PaymentCard"
	case model.PaymentDigitalWallet:
		return "PaymentDigitalWallet"
	default:
		return "PaymentCash"
	}
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

func columns(left, right string) string {
	gap := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
