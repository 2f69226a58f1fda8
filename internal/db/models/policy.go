package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy is the insurance cover attached to a single vehicle.
type Policy struct {
	ID uint `gorm:"primaryKey"`

	VehicleID uint    `gorm:"not null;unique"`
	Vehicle   Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`

	Type           string          `gorm:"size:50;not null"`
	MonthlyPrice   decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	DurationMonths int             `gorm:"not null"`

	Insurers []Insurer `gorm:"many2many:insurer_policies"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Policy model.
func (Policy) TableName() string {
	return "policies"
}
