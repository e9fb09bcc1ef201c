package model

import "time"

// Office represents a bookable office room.
type Office struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:128;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Users []User `gorm:"foreignKey:OfficeID"`
}
