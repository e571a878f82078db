// Package billing holds the pure money math of the POS: order totals and
// the bill-split engine. Nothing in here touches the database or gin; the
// services feed it line items and persist whatever comes back.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/restopos/backend/poserr"
)

// DefaultTaxRate is applied when a request does not carry its own rate.
var DefaultTaxRate = decimal.NewFromFloat(0.15)

// LineItem is the calculator's view of one order line. Price is the unit
// price; Subtotal is derived, never trusted from input.
type LineItem struct {
	ID       uint
	NameAr   string
	NameEn   string
	Quantity int
	Price    decimal.Decimal
	Notes    string
}

// Subtotal returns Price * Quantity rounded to cents.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))).Round(2)
}

// Totals is the financial summary of an order or of one split share.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// Calculate sums the line items and applies the tax rate. It is
// deterministic and idempotent: the same inputs always yield the same
// cent-exact outputs.
func Calculate(items []LineItem, taxRate decimal.Decimal) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, poserr.Validationf("order must contain at least one item")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return Totals{}, poserr.Validationf("tax rate %s outside [0,1]", taxRate)
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return Totals{}, poserr.Validationf("item %d has non-positive quantity %d", item.ID, item.Quantity)
		}
		if item.Price.IsNegative() {
			return Totals{}, poserr.Validationf("item %d has negative price %s", item.ID, item.Price)
		}
		subtotal = subtotal.Add(item.Subtotal())
	}

	taxAmount := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}, nil
}
