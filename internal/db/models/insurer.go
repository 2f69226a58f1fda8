package models

import "time"

// Insurer is an insurance company that underwrites vehicle policies.
type Insurer struct {
	ID uint `gorm:"primaryKey"`

	Name    string `gorm:"size:100;not null;unique"`
	Country string `gorm:"size:60"`
	Phone   string `gorm:"size:20"`
	Website string `gorm:"size:255"`

	// Policies the insurer underwrites. A policy may be carried by
	// several insurers.
	Policies []Policy `gorm:"many2many:insurer_policies"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Insurer model.
func (Insurer) TableName() string {
	return "insurers"
}
