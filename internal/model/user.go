package model

import "time"

// User represents a registered employee assigned to exactly one office.
type User struct {
	ID           int64  `gorm:"primaryKey"`
	FirstName    string `gorm:"size:128;not null"`
	LastName     string `gorm:"size:128;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:256;not null"`
	// Role is carried for forward compatibility; no handler checks it.
	Role      string `gorm:"size:64;not null;default:employee"`
	OfficeID  int64  `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Office Office `gorm:"constraint:OnDelete:CASCADE"`
}
