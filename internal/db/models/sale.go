package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was paid for.
type PaymentMethod string

const (
	PaymentCash      PaymentMethod = "cash"
	PaymentCard      PaymentMethod = "card"
	PaymentFinancing PaymentMethod = "financing"
	PaymentTransfer  PaymentMethod = "transfer"
)

// Valid reports whether the payment method is a known kind.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentFinancing, PaymentTransfer:
		return true
	}

	return false
}

// Sale records the purchase of a vehicle by a buyer. A buyer holds at most
// one sale; the vehicle side is a plain many-to-one so an administrator can
// record a resale of an already sold vehicle.
type Sale struct {
	ID uint `gorm:"primaryKey"`

	BuyerID uint  `gorm:"not null;unique"`
	Buyer   Buyer `gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE"`

	VehicleID uint    `gorm:"not null;index"`
	Vehicle   Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`

	Date time.Time `gorm:"type:date;not null"`
	// FinalPrice is always copied from the vehicle price at sale time,
	// never taken from client input.
	FinalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Sale model.
func (Sale) TableName() string {
	return "sales"
}
