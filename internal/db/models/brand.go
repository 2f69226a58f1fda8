package models

import "time"

// Brand is a vehicle manufacturer.
// Deleting a brand removes its vehicles (CASCADE).
type Brand struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:50;not null"`
	OriginCountry string `gorm:"size:50;not null"`
	// FoundingYear is optional; nil when unknown.
	FoundingYear *int
	Description  string `gorm:"type:text"`

	Vehicles []Vehicle `gorm:"foreignKey:BrandID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Brand model.
func (Brand) TableName() string {
	return "brands"
}
