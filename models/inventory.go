package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn     MovementType = "in"
	MovementOut    MovementType = "out"
	MovementAdjust MovementType = "adjust"
)

// InventoryItem is a stocked ingredient or good. Quantity is decimal so
// bulk units (kg, liters) work as well as counts.
type InventoryItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	SKU          string          `gorm:"type:varchar(100);uniqueIndex" json:"sku"`
	Unit         string          `gorm:"type:varchar(50);not null" json:"unit"`
	Quantity     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"quantity"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"reorder_level"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"cost_price"`
	SupplierID   *uint           `gorm:"index" json:"supplier_id,omitempty"`
	Supplier     *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}

// LowStock reports whether the item has fallen to or below its reorder
// level.
func (i *InventoryItem) LowStock() bool {
	return i.Quantity.LessThanOrEqual(i.ReorderLevel)
}

// StockMovement is the append-only audit trail of inventory changes.
type StockMovement struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	InventoryItemID uint            `gorm:"not null;index" json:"inventory_item_id"`
	InventoryItem   InventoryItem   `gorm:"foreignKey:InventoryItemID" json:"-"`
	Type            MovementType    `gorm:"type:varchar(10);not null" json:"type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Reason          string          `gorm:"type:varchar(255)" json:"reason,omitempty"`
	RefType         string          `gorm:"type:varchar(50)" json:"ref_type,omitempty"`
	RefID           *uint           `json:"ref_id,omitempty"`
	CreatedBy       *uint           `json:"created_by,omitempty"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
}
