package domain

import "github.com/shopspring/decimal"

// Patch types list exactly the fields that may be changed after
// creation. A nil field leaves the stored value untouched.

type InventoryPatch struct {
	Name     *string
	Category *string
	Size     *string
	Color    *string
	Price    *decimal.Decimal
	Cost     *decimal.Decimal
	Quantity *int
	Supplier *string
}

type CustomerPatch struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

// InvoicePatch covers the administrative edit only. Totals, items and
// the invoice date never change after creation.
type InvoicePatch struct {
	Customer      *string
	Phone         *string
	PaymentMethod *string
}

type ProfilePatch struct {
	BusinessName   *string
	OwnerName      *string
	Email          *string
	Phone          *string
	Address        *string
	GSTIN          *string
	Description    *string
	Established    *string
	Specialization *string
}
