package billing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restopos/backend/poserr"
)

// Share assigns part of one line item to a participant.
type Share struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

// Assignment maps a participant name to the shares they take.
type Assignment map[string][]Share

// PersonBill is one participant's portion of the order after a split.
type PersonBill struct {
	ID         string
	PersonName string
	Items      []LineItem
	Totals     Totals
}

// SplitOptions tunes split validation.
type SplitOptions struct {
	// AllowPartial leaves unassigned quantities on the order instead of
	// rejecting the split. Off by default: a split that does not cover the
	// whole order cannot be reconciled against the order total.
	AllowPartial bool
}

// Split partitions an order's line items across named participants and
// computes each participant's totals with the same tax rate as the order.
//
// Every share must reference an existing line item and the assigned
// quantities per item must not exceed the item's quantity (OverAllocation
// otherwise). Under full coverage the participants' tax amounts are
// reconciled against the order's own tax so the person totals sum exactly
// to the order total; any rounding remainder lands on the last participant
// in name order.
func Split(items []LineItem, taxRate decimal.Decimal, assignment Assignment, opts SplitOptions) ([]PersonBill, error) {
	if len(assignment) == 0 {
		return nil, poserr.Validationf("split requires at least one participant")
	}

	byID := make(map[uint]LineItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	// Over-allocation check across all participants first, so a bad
	// assignment never yields a partial result.
	assigned := make(map[uint]int)
	for name, shares := range assignment {
		if name == "" {
			return nil, poserr.Validationf("participant name must not be empty")
		}
		for _, share := range shares {
			item, ok := byID[share.ItemID]
			if !ok {
				return nil, poserr.NotFound("line item", share.ItemID)
			}
			if share.Quantity <= 0 {
				return nil, poserr.Validationf("participant %q assigns non-positive quantity for item %d", name, share.ItemID)
			}
			assigned[share.ItemID] += share.Quantity
			if assigned[share.ItemID] > item.Quantity {
				return nil, &poserr.OverAllocationError{
					ItemID:    share.ItemID,
					Assigned:  assigned[share.ItemID],
					Available: item.Quantity,
				}
			}
		}
	}

	fullCoverage := true
	for _, item := range items {
		if assigned[item.ID] != item.Quantity {
			fullCoverage = false
			break
		}
	}
	if !fullCoverage && !opts.AllowPartial {
		return nil, poserr.Validationf("split does not cover the full order")
	}

	// Deterministic participant order regardless of map iteration.
	names := make([]string, 0, len(assignment))
	for name := range assignment {
		names = append(names, name)
	}
	sort.Strings(names)

	bills := make([]PersonBill, 0, len(names))
	taxSum := decimal.Zero
	for _, name := range names {
		shares := assignment[name]
		personItems := make([]LineItem, 0, len(shares))
		for _, share := range shares {
			item := byID[share.ItemID]
			item.Quantity = share.Quantity
			personItems = append(personItems, item)
		}
		totals, err := Calculate(personItems, taxRate)
		if err != nil {
			return nil, err
		}
		taxSum = taxSum.Add(totals.TaxAmount)
		bills = append(bills, PersonBill{
			ID:         uuid.NewString(),
			PersonName: name,
			Items:      personItems,
			Totals:     totals,
		})
	}

	if fullCoverage {
		orderTotals, err := Calculate(items, taxRate)
		if err != nil {
			return nil, err
		}
		// Per-person rounding can drift from the order tax by a cent or
		// two; push the remainder onto the last participant.
		if diff := orderTotals.TaxAmount.Sub(taxSum); !diff.IsZero() {
			last := &bills[len(bills)-1]
			last.Totals.TaxAmount = last.Totals.TaxAmount.Add(diff)
			last.Totals.Total = last.Totals.Subtotal.Add(last.Totals.TaxAmount)
		}
	}

	return bills, nil
}
