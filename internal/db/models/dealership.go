package models

import "time"

// Dealership is a sales location owning employees and vehicle inventory.
// Deleting a dealership removes its employees and vehicles (CASCADE).
type Dealership struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:100;not null"`
	Address string `gorm:"size:255;not null"`
	Phone   string `gorm:"size:20;not null"`
	City    string `gorm:"size:50;not null"`

	Employees []Employee `gorm:"foreignKey:DealershipID;constraint:OnDelete:CASCADE"`
	Vehicles  []Vehicle  `gorm:"foreignKey:DealershipID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Dealership model.
func (Dealership) TableName() string {
	return "dealerships"
}
