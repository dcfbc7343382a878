package models

import "time"

// WardMapping says which new ward an old ward (optionally narrowed by an
// address detail) now belongs to.
type WardMapping struct {
	ID               uint   `gorm:"primaryKey"`
	OldProvinceID    string `gorm:"size:32;not null"`
	OldDistrictID    string `gorm:"size:32;not null"`
	OldWardID        string `gorm:"size:32;not null;uniqueIndex:idx_mapping_key,priority:1"`
	OldAddressDetail string `gorm:"size:255;not null;default:''"`
	// NormDetail is the normalised OldAddressDetail, the second half of the key.
	NormDetail    string `gorm:"size:191;not null;default:'';uniqueIndex:idx_mapping_key,priority:2"`
	NewProvinceID string `gorm:"size:32;not null"`
	NewWardID     string `gorm:"size:32;not null"`
	CreatedBy     string `gorm:"size:191"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
