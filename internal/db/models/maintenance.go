package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Maintenance is a workshop revision covering one or more vehicles.
type Maintenance struct {
	ID uint `gorm:"primaryKey"`

	Vehicles []Vehicle `gorm:"many2many:maintenance_vehicles"`

	RevisionDate time.Time       `gorm:"type:date;not null"`
	Mileage      int             `gorm:"not null"`
	Comments     string          `gorm:"type:text"`
	Cost         decimal.Decimal `gorm:"type:decimal(8,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Maintenance model.
func (Maintenance) TableName() string {
	return "maintenances"
}
