package models

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openDB mirrors the DSN the daemon uses for SQLite. Without the pragma
// the engine ignores the ON DELETE CASCADE constraints entirely.
func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&Role{},
		&Permission{},
		&RolePermission{},
		&User{},
		&Dealership{},
		&Employee{},
		&Brand{},
		&Vehicle{},
		&Buyer{},
		&Sale{},
		&Insurer{},
		&Policy{},
		&Maintenance{},
	))

	return db
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)

	return n
}

func TestDeleteCascades(t *testing.T) {
	db := openDB(t)

	role := Role{Name: string(RoleBuyer), IsSystem: true}
	require.NoError(t, db.Create(&role).Error)
	user := User{Username: "carla", Password: "x", RoleID: role.ID, Active: true}
	require.NoError(t, db.Create(&user).Error)
	buyer := Buyer{UserID: user.ID}
	require.NoError(t, db.Create(&buyer).Error)

	dealership := Dealership{Name: "Alpha Madrid", City: "Madrid"}
	require.NoError(t, db.Create(&dealership).Error)
	brand := Brand{Name: "Seat"}
	require.NoError(t, db.Create(&brand).Error)

	employee := Employee{
		DealershipID: dealership.ID,
		Name:         "Ines",
		Position:     "mechanic",
		Salary:       decimal.NewFromInt(2100),
		HireDate:     time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&employee).Error)

	sold := Vehicle{
		BrandID:         brand.ID,
		DealershipID:    dealership.ID,
		Model:           "Leon",
		Price:           decimal.NewFromInt(20000),
		Transmission:    TransmissionManual,
		ManufactureDate: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&sold).Error)
	stock := Vehicle{
		BrandID:         brand.ID,
		DealershipID:    dealership.ID,
		Model:           "Ibiza",
		Price:           decimal.NewFromInt(15000),
		Transmission:    TransmissionAutomatic,
		ManufactureDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&stock).Error)

	policy := Policy{
		VehicleID:      sold.ID,
		Type:           "full",
		MonthlyPrice:   decimal.NewFromInt(45),
		DurationMonths: 12,
	}
	require.NoError(t, db.Create(&policy).Error)

	sale := Sale{
		BuyerID:       buyer.ID,
		VehicleID:     sold.ID,
		Date:          time.Now(),
		FinalPrice:    sold.Price,
		PaymentMethod: PaymentCash,
	}
	require.NoError(t, db.Create(&sale).Error)

	// Removing a vehicle takes its policy and sale with it.
	require.NoError(t, db.Delete(&Vehicle{}, sold.ID).Error)
	assert.Zero(t, count(t, db, &Policy{}))
	assert.Zero(t, count(t, db, &Sale{}))

	// Removing a dealership takes its employees and remaining stock.
	require.NoError(t, db.Delete(&Dealership{}, dealership.ID).Error)
	assert.Zero(t, count(t, db, &Employee{}))
	assert.Zero(t, count(t, db, &Vehicle{}))
}

func TestDeleteUserCascadesBuyerProfile(t *testing.T) {
	db := openDB(t)

	role := Role{Name: string(RoleBuyer), IsSystem: true}
	require.NoError(t, db.Create(&role).Error)
	user := User{Username: "carla", Password: "x", RoleID: role.ID, Active: true}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&Buyer{UserID: user.ID}).Error)

	require.NoError(t, db.Delete(&User{}, user.ID).Error)
	assert.Zero(t, count(t, db, &Buyer{}))
}
