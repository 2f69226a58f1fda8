package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transmission is the gearbox kind of a vehicle.
type Transmission string

const (
	// TransmissionManual is a manual gearbox.
	TransmissionManual Transmission = "MT"
	// TransmissionAutomatic is an automatic gearbox.
	TransmissionAutomatic Transmission = "AT"
)

// Valid reports whether the transmission is a known kind.
func (t Transmission) Valid() bool {
	switch t {
	case TransmissionManual, TransmissionAutomatic:
		return true
	}

	return false
}

// Vehicle is a single car instance held by a dealership.
// A vehicle is available for sale iff no Sale row references it.
type Vehicle struct {
	ID uint `gorm:"primaryKey"`

	BrandID uint  `gorm:"not null;index"`
	Brand   Brand `gorm:"foreignKey:BrandID;constraint:OnDelete:CASCADE"`

	DealershipID uint       `gorm:"not null;index"`
	Dealership   Dealership `gorm:"foreignKey:DealershipID;constraint:OnDelete:CASCADE"`

	Model           string          `gorm:"size:100;not null"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Transmission    Transmission    `gorm:"type:varchar(2);not null;default:'MT'"`
	ManufactureDate time.Time       `gorm:"type:date;not null"`
	// ImagePath is the optional uploaded image location relative to the media root.
	ImagePath string `gorm:"size:255"`

	// Sale is set when the vehicle has been sold.
	Sale *Sale `gorm:"foreignKey:VehicleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Vehicle model.
func (Vehicle) TableName() string {
	return "vehicles"
}

// Sold reports whether a sale references the vehicle. The Sale association
// must be preloaded.
func (v *Vehicle) Sold() bool {
	return v.Sale != nil
}

// DisplayName is the brand plus model label used in listings and selects.
func (v *Vehicle) DisplayName() string {
	if v.Brand.Name == "" {
		return v.Model
	}

	return v.Brand.Name + " " + v.Model
}
