package models

import "time"

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Email       string  `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password    string  `gorm:"type:varchar(255);not null" json:"-"`
	Role        string  `gorm:"type:varchar(20);not null" json:"role"`
	Active      bool    `gorm:"not null;default:true" json:"active"`
	TOTPSecret  *string `gorm:"type:varchar(255)" json:"-"`
	TwoFAOn     bool    `gorm:"not null;default:false" json:"two_fa_enabled"`
	BackupCodes string  `gorm:"type:text" json:"-"` // JSON array of unused codes
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
