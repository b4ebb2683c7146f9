// Package share builds pre-filled messaging deep links for handing an
// invoice off to an external client.
package share

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"retailpos-backend/internal/domain"
	"retailpos-backend/internal/export"
)

const countryCode = "91"

// WhatsAppLink builds a wa.me URL carrying the invoice as pre-filled,
// percent-encoded message text. When the invoice has no usable phone
// number the link opens the recipient picker instead.
func WhatsAppLink(profile domain.Profile, inv domain.Invoice) string {
	text := MessageText(profile, inv)
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")

	phone := digitsOnly(inv.Phone)
	if phone == "" {
		return "https://wa.me/?text=" + encoded
	}
	if !strings.HasPrefix(phone, countryCode) {
		phone = countryCode + phone
	}
	return "https://wa.me/" + phone + "?text=" + encoded
}

// MessageText renders the share message: business header, invoice
// details, itemized lines, totals and payment method.
func MessageText(profile domain.Profile, inv domain.Invoice) string {
	customer := inv.Customer
	if customer == "" {
		customer = "Walk-in"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n%s\n\n", profile.BusinessName, profile.Address)
	fmt.Fprintf(&b, "*Invoice: %s*\n", inv.ID)
	fmt.Fprintf(&b, "Date: %s\n", inv.Date.Format("02/01/2006"))
	fmt.Fprintf(&b, "Customer: %s\n\n", customer)
	b.WriteString("*Items:*\n")
	for _, it := range inv.Items {
		amount := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		fmt.Fprintf(&b, "%s x%d = %s\n", it.Name, it.Quantity, export.FormatMoney(amount))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", export.FormatMoney(inv.Subtotal))
	fmt.Fprintf(&b, "GST (%s%%): %s\n", inv.TaxRate.String(), export.FormatMoney(inv.Tax))
	if inv.Discount.IsPositive() {
		fmt.Fprintf(&b, "Discount (%s%%): %s\n", inv.DiscountRate.String(), export.FormatMoney(inv.Discount))
	}
	fmt.Fprintf(&b, "*Total: %s*\n\n", export.FormatMoney(inv.Total))
	fmt.Fprintf(&b, "Payment: %s\n\n", inv.PaymentMethod)
	fmt.Fprintf(&b, "Thank you for shopping with us!\n\n")
	fmt.Fprintf(&b, "*%s | %s*", strings.ToUpper(profile.BusinessName), profile.Address)
	return b.String()
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
