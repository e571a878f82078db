package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type POStatus string

const (
	PODraft     POStatus = "draft"
	POPending   POStatus = "pending"
	POConfirmed POStatus = "confirmed"
	POReceived  POStatus = "received"
	POCancelled POStatus = "cancelled"
)

type PurchaseOrder struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	PONumber             string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"po_number"`
	SupplierID           uint            `gorm:"not null;index" json:"supplier_id"`
	Supplier             Supplier        `gorm:"foreignKey:SupplierID" json:"supplier"`
	Items                []POLineItem    `gorm:"foreignKey:PurchaseOrderID" json:"items"`
	OrderDate            time.Time       `gorm:"not null" json:"order_date"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date,omitempty"`
	Status               POStatus        `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Subtotal             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax                  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	ShippingCost         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"shipping_cost"`
	Total                decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Notes                string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy            uint            `gorm:"not null" json:"created_by"`
	CreatedAt            time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"not null" json:"updated_at"`
}

type POLineItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	PurchaseOrderID  uint            `gorm:"not null;index" json:"purchase_order_id"`
	InventoryItemID  uint            `gorm:"not null" json:"inventory_item_id"`
	InventoryItem    InventoryItem   `gorm:"foreignKey:InventoryItemID" json:"-"`
	SupplierSKU      string          `gorm:"type:varchar(100)" json:"supplier_sku,omitempty"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
	ReceivedQuantity int             `gorm:"not null;default:0" json:"received_quantity"`
}
