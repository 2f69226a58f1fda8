package models

import "time"

// Buyer is the purchase profile attached to a user account with the buyer
// role. Exactly one Buyer row may exist per user.
type Buyer struct {
	ID uint `gorm:"primaryKey"`

	UserID uint64 `gorm:"not null;unique"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Phone string `gorm:"size:20"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Buyer model.
func (Buyer) TableName() string {
	return "buyers"
}
