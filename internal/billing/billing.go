// Package billing holds the pure invoice arithmetic: totals, invoice
// numbering and draft composition. Nothing here touches storage.
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"retailpos-backend/internal/domain"
)

var (
	ErrEmptyInvoice      = errors.New("invoice has no items")
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("line quantity must be at least 1")
)

// Defaults applied when a draft leaves the rates unset.
const (
	DefaultTaxRatePercent      = 18
	DefaultDiscountRatePercent = 0
)

var hundred = decimal.NewFromInt(100)

type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals computes invoice totals from line items and the two
// percentage rates. Tax applies to the post-discount amount: the two
// orderings observed historically disagreed, and taxing the discounted
// base is the accounting behavior this system commits to.
//
//	subtotal = sum(price * qty)
//	discount = subtotal * discountRate/100
//	tax      = (subtotal - discount) * taxRate/100
//	total    = subtotal - discount + tax
//
// An empty line list yields all-zero totals.
func CalculateTotals(lines []Line, taxRatePercent, discountRatePercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	discount := subtotal.Mul(discountRatePercent).Div(hundred)
	afterDiscount := subtotal.Sub(discount)
	tax := afterDiscount.Mul(taxRatePercent).Div(hundred)
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    afterDiscount.Add(tax),
	}
}

// NextInvoiceNumber formats INV{YY}{MM}{NNNN} from the count of
// invoices created so far. Two clients computing from the same count
// produce the same number; the duplicate surfaces as a key conflict on
// insert and the caller retries with a fresh number. Numbers are not
// globally unique by construction.
func NextInvoiceNumber(count int, now time.Time) string {
	return fmt.Sprintf("INV%02d%02d%04d", now.Year()%100, int(now.Month()), count+1)
}

// Draft is the user-submitted invoice before resolution against
// inventory.
type Draft struct {
	Customer      string
	Phone         string
	CustomerID    *string
	PaymentMethod string
	Lines         []DraftLine
	TaxRate       decimal.Decimal
	DiscountRate  decimal.Decimal
}

type DraftLine struct {
	ItemID   string
	Quantity int
}

// ComposeInvoice resolves a draft against an inventory snapshot into a
// persistable invoice. Each line takes the item's current price, name
// and category as a denormalized snapshot. A line referencing an
// unknown item aborts the whole composition. When allowOversell is
// false, a line that would drive the item's quantity negative aborts
// with ErrInsufficientStock; otherwise negative quantities are
// permitted. The stock check deducts from a running copy of the
// snapshot, so several lines referencing the same item are judged
// against their combined quantity.
func ComposeInvoice(draft Draft, snapshot map[string]domain.InventoryItem, invoiceCount int, now time.Time, allowOversell bool) (*domain.Invoice, error) {
	if len(draft.Lines) == 0 {
		return nil, ErrEmptyInvoice
	}

	remaining := make(map[string]int, len(snapshot))
	for id, item := range snapshot {
		remaining[id] = item.Quantity
	}

	lines := make([]Line, 0, len(draft.Lines))
	items := make([]domain.InvoiceLine, 0, len(draft.Lines))
	for _, dl := range draft.Lines {
		if dl.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %s", ErrInvalidQuantity, dl.ItemID)
		}
		item, ok := snapshot[dl.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, dl.ItemID)
		}
		if !allowOversell && remaining[dl.ItemID] < dl.Quantity {
			return nil, fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, dl.ItemID, remaining[dl.ItemID], dl.Quantity)
		}
		remaining[dl.ItemID] -= dl.Quantity
		lines = append(lines, Line{UnitPrice: item.Price, Quantity: dl.Quantity})
		items = append(items, domain.InvoiceLine{
			ItemID:   item.ID,
			Quantity: dl.Quantity,
			Name:     item.Name,
			Price:    item.Price,
			Category: item.Category,
		})
	}

	totals := CalculateTotals(lines, draft.TaxRate, draft.DiscountRate)
	return &domain.Invoice{
		ID:            NextInvoiceNumber(invoiceCount, now),
		Date:          now,
		Customer:      draft.Customer,
		Phone:         draft.Phone,
		CustomerID:    draft.CustomerID,
		PaymentMethod: draft.PaymentMethod,
		Items:         items,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		TaxRate:       draft.TaxRate,
		Discount:      totals.Discount,
		DiscountRate:  draft.DiscountRate,
		Total:         totals.Total,
	}, nil
}
