package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/restopos/backend/billing"
)

type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is the bill of one table visit. Totals are snapshots computed by
// the billing calculator at write time; Version backs the optimistic
// concurrency check on every mutation.
type Order struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	TableID      uint              `gorm:"index;not null" json:"table_id"`
	Table        Table             `gorm:"foreignKey:TableID" json:"-"`
	Items        []OrderItem       `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal     decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxRate      decimal.Decimal   `gorm:"type:decimal(6,4);not null" json:"tax_rate"`
	TaxAmount    decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"tax_amount"`
	Total        decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"total"`
	Status       OrderStatus       `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	SplitDetails []BillSplitPerson `gorm:"foreignKey:OrderID" json:"split_details,omitempty"`
	Version      uint              `gorm:"not null;default:1" json:"version"`
	CreatedAt    time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null" json:"updated_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// BillingLines converts the persisted items into the calculator's view.
func (o *Order) BillingLines() []billing.LineItem {
	lines := make([]billing.LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, billing.LineItem{
			ID:       item.ID,
			NameAr:   item.NameAr,
			NameEn:   item.NameEn,
			Quantity: item.Quantity,
			Price:    item.Price,
			Notes:    item.Notes,
		})
	}
	return lines
}

// IsOpen reports whether lifecycle actions may still mutate the order.
func (o *Order) IsOpen() bool {
	return o.Status == OrderOpen
}
