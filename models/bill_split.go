package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillSplitPerson is one participant of a split bill with their share of
// the order's totals.
type BillSplitPerson struct {
	ID         string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID    uint            `gorm:"not null;index" json:"order_id"`
	PersonName string          `gorm:"type:varchar(255);not null" json:"person_name"`
	Items      []BillSplitItem `gorm:"foreignKey:PersonID" json:"items"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax_amount"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
}

// BillSplitItem records how many units of an order line a participant
// takes.
type BillSplitItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PersonID    string          `gorm:"type:varchar(36);not null;index" json:"person_id"`
	OrderItemID uint            `gorm:"not null" json:"order_item_id"`
	NameAr      string          `gorm:"type:varchar(255);not null" json:"name_ar"`
	NameEn      string          `gorm:"type:varchar(255);not null" json:"name_en"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
}
