package models

import "time"

type TableStatus string

const (
	TableEmpty          TableStatus = "empty"
	TableOccupied       TableStatus = "occupied"
	TablePendingPayment TableStatus = "pending_payment"
	TableMerged         TableStatus = "merged"
)

// Table carries its display number in both locales. CurrentOrderID is a
// back-reference kept in sync by the order lifecycle; the Order owns the
// relation.
type Table struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	NumberAr       string      `gorm:"type:varchar(50);not null" json:"number_ar"`
	NumberEn       string      `gorm:"type:varchar(50);not null" json:"number_en"`
	Capacity       int         `gorm:"not null" json:"capacity"`
	Status         TableStatus `gorm:"type:varchar(20);not null;default:'empty'" json:"status"`
	NumberOfGuests *int        `json:"number_of_guests,omitempty"`
	CurrentOrderID *uint       `json:"current_order_id,omitempty"`
	MergedWithID   *uint       `json:"merged_with_id,omitempty"`
	CreatedAt      time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null" json:"updated_at"`
}
