package model

import "time"

// OfficeStatus holds the single free-text status message of an office.
// The unique index on OfficeID guarantees at most one row per office, so
// concurrent updates cannot produce duplicates.
type OfficeStatus struct {
	ID            int64  `gorm:"primaryKey"`
	StatusMessage string `gorm:"size:512;not null"`
	OfficeID      int64  `gorm:"uniqueIndex;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Associations
	Office Office `gorm:"constraint:OnDelete:CASCADE"`
}
