package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enumerations
const (
	PaymentCash PaymentMethod = "Cash"
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"

	StockLow    StockLevel = "low"
	StockMedium StockLevel = "medium"
	StockHigh   StockLevel = "high"
)

type PaymentMethod string
type StockLevel string

// InventoryItem is a sellable product. Quantity may go negative when
// overselling is permitted (consignment/backorder); the store does not
// enforce quantity >= 0.
type InventoryItem struct {
	ID        string
	Name      string
	Category  string
	Size      string
	Color     string
	Price     decimal.Decimal
	Cost      decimal.Decimal
	Quantity  int
	Supplier  string
	DateAdded time.Time
}

// Invoice is immutable once created except for administrative edits
// (customer, phone, payment method) and deletion. Item lines carry
// denormalized snapshots of the inventory item at time of sale so the
// document stays accurate if the source item changes or is deleted.
type Invoice struct {
	ID            string
	Date          time.Time
	Customer      string
	Phone         string
	CustomerID    *string
	PaymentMethod string
	Items         []InvoiceLine
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	TaxRate       decimal.Decimal
	Discount      decimal.Decimal
	DiscountRate  decimal.Decimal
	Total         decimal.Decimal
}

type InvoiceLine struct {
	ItemID   string
	Quantity int
	Name     string
	Price    decimal.Decimal
	Category string
}

// Customer carries running aggregates maintained by the invoice
// creation transaction.
type Customer struct {
	ID         string
	Name       string
	Phone      string
	Email      string
	Address    string
	Notes      string
	DateAdded  time.Time
	TotalSpent decimal.Decimal
	VisitCount int
}

// Profile is the singleton business identity used on documents and
// exports.
type Profile struct {
	BusinessName   string
	OwnerName      string
	Email          string
	Phone          string
	Address        string
	GSTIN          string
	Description    string
	Established    string
	Specialization string
	UpdatedAt      time.Time
}

type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// ClassifyStock buckets a quantity against the low/high thresholds.
// quantity == lowThreshold is NOT low stock.
func ClassifyStock(quantity, lowThreshold, highThreshold int) StockLevel {
	switch {
	case quantity < lowThreshold:
		return StockLow
	case quantity >= highThreshold:
		return StockHigh
	default:
		return StockMedium
	}
}
