package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a member of staff employed by a dealership.
type Employee struct {
	ID           uint       `gorm:"primaryKey"`
	DealershipID uint       `gorm:"not null;index"`
	Dealership   Dealership `gorm:"foreignKey:DealershipID;constraint:OnDelete:CASCADE"`

	Name     string          `gorm:"size:100;not null"`
	Position string          `gorm:"size:100;not null"`
	Salary   decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	HireDate time.Time       `gorm:"type:date;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Employee model.
func (Employee) TableName() string {
	return "employees"
}
