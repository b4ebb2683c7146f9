package share

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos-backend/internal/domain"
)

func sampleInvoice(phone string) domain.Invoice {
	price, _ := decimal.NewFromString("799")
	return domain.Invoice{
		ID:            "INV25010003",
		Date:          time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
		Customer:      "Anita Desai",
		Phone:         phone,
		PaymentMethod: "UPI",
		Items:         []domain.InvoiceLine{{ItemID: "1", Quantity: 2, Name: "Cotton Kurti", Price: price, Category: "Kurtis"}},
		Subtotal:      decimal.NewFromInt(1598),
		Tax:           decimal.NewFromFloat(287.64),
		TaxRate:       decimal.NewFromInt(18),
		Total:         decimal.NewFromFloat(1885.64),
	}
}

var profile = domain.Profile{BusinessName: "Aleen Clothing", Address: "Baba Jaan Chawk, Pune"}

func TestWhatsAppLinkWithPhone(t *testing.T) {
	link := WhatsAppLink(profile, sampleInvoice("+91 98765 43210"))
	assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?text="), link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Contains(t, text, "Invoice: INV25010003")
	assert.Contains(t, text, "Cotton Kurti x2")
	assert.Contains(t, text, "Payment: UPI")
}

func TestWhatsAppLinkAddsCountryCode(t *testing.T) {
	link := WhatsAppLink(profile, sampleInvoice("98765 43210"))
	assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?text="), link)
}

func TestWhatsAppLinkWithoutPhone(t *testing.T) {
	link := WhatsAppLink(profile, sampleInvoice(""))
	assert.True(t, strings.HasPrefix(link, "https://wa.me/?text="), link)
}

func TestWhatsAppLinkIsPercentEncoded(t *testing.T) {
	link := WhatsAppLink(profile, sampleInvoice(""))
	_, query, _ := strings.Cut(link, "?text=")
	assert.NotContains(t, query, " ")
	assert.NotContains(t, query, "+")
	assert.NotContains(t, query, "\n")
}

func TestMessageTextTotals(t *testing.T) {
	text := MessageText(profile, sampleInvoice(""))
	assert.Contains(t, text, "Subtotal: Rs. 1,598.00")
	assert.Contains(t, text, "GST (18%): Rs. 287.64")
	assert.Contains(t, text, "*Total: Rs. 1,885.64*")
	assert.Contains(t, text, "*ALEEN CLOTHING | Baba Jaan Chawk, Pune*")
}
