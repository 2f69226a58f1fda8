package inventory

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Dealership{},
		&models.Brand{},
		&models.Vehicle{},
		&models.Buyer{},
		&models.Sale{},
	))

	return db
}

func seedCatalogue(t *testing.T, db *gorm.DB) (sold, unsold models.Vehicle) {
	t.Helper()

	brand := models.Brand{Name: "Seat"}
	require.NoError(t, db.Create(&brand).Error)

	dealership := models.Dealership{Name: "Alpha Madrid", City: "Madrid"}
	require.NoError(t, db.Create(&dealership).Error)

	sold = models.Vehicle{
		BrandID:         brand.ID,
		DealershipID:    dealership.ID,
		Model:           "Ibiza",
		Price:           decimal.NewFromInt(14500),
		Transmission:    models.TransmissionManual,
		ManufactureDate: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&sold).Error)

	unsold = models.Vehicle{
		BrandID:         brand.ID,
		DealershipID:    dealership.ID,
		Model:           "Leon",
		Price:           decimal.NewFromInt(21000),
		Transmission:    models.TransmissionAutomatic,
		ManufactureDate: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&unsold).Error)

	role := models.Role{Name: string(models.RoleBuyer)}
	require.NoError(t, db.Create(&role).Error)

	user := models.User{Username: "carla", Password: "x", RoleID: role.ID, Active: true}
	require.NoError(t, db.Create(&user).Error)

	buyer := models.Buyer{UserID: user.ID, Phone: "600111222"}
	require.NoError(t, db.Create(&buyer).Error)

	sale := models.Sale{
		BuyerID:       buyer.ID,
		VehicleID:     sold.ID,
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		FinalPrice:    sold.Price,
		PaymentMethod: models.PaymentCash,
	}
	require.NoError(t, db.Create(&sale).Error)

	return sold, unsold
}

func TestOfferedForSaleAdminSeesSoldVehicles(t *testing.T) {
	db := newTestDB(t)
	sold, unsold := seedCatalogue(t, db)

	vehicles, err := OfferedForSale(db, models.RoleAdmin)
	require.NoError(t, err)

	require.Len(t, vehicles, 2)
	assert.Equal(t, sold.ID, vehicles[0].ID)
	assert.Equal(t, unsold.ID, vehicles[1].ID)
}

func TestOfferedForSaleNonAdminOnlyUnsold(t *testing.T) {
	db := newTestDB(t)
	_, unsold := seedCatalogue(t, db)

	for _, role := range []models.RoleName{models.RoleManager, models.RoleBuyer} {
		vehicles, err := OfferedForSale(db, role)
		require.NoError(t, err)

		require.Len(t, vehicles, 1)
		assert.Equal(t, unsold.ID, vehicles[0].ID)
	}
}

func TestByManufacture(t *testing.T) {
	db := newTestDB(t)
	_, unsold := seedCatalogue(t, db)

	vehicles, err := ByManufacture(db, 2023, 7)
	require.NoError(t, err)

	require.Len(t, vehicles, 1)
	assert.Equal(t, unsold.ID, vehicles[0].ID)

	vehicles, err = ByManufacture(db, 2023, 8)
	require.NoError(t, err)
	assert.Empty(t, vehicles)
}

func TestByTransmissionAlwaysIncludesManual(t *testing.T) {
	db := newTestDB(t)
	seedCatalogue(t, db)

	vehicles, err := ByTransmission(db, models.TransmissionAutomatic)
	require.NoError(t, err)
	assert.Len(t, vehicles, 2)

	vehicles, err = ByTransmission(db, models.TransmissionManual)
	require.NoError(t, err)
	assert.Len(t, vehicles, 1)
}

func TestByDealershipModel(t *testing.T) {
	db := newTestDB(t)
	sold, _ := seedCatalogue(t, db)

	vehicles, err := ByDealershipModel(db, sold.DealershipID, "ibi")
	require.NoError(t, err)

	require.Len(t, vehicles, 1)
	assert.Equal(t, "Ibiza", vehicles[0].Model)
}

func TestLatestBuyer(t *testing.T) {
	db := newTestDB(t)
	sold, unsold := seedCatalogue(t, db)

	buyer, err := LatestBuyer(db, unsold.ID)
	require.NoError(t, err)
	assert.Nil(t, buyer)

	buyer, err = LatestBuyer(db, sold.ID)
	require.NoError(t, err)
	require.NotNil(t, buyer)
	assert.Equal(t, "carla", buyer.User.Username)
}

func TestLatestBuyerPicksMostRecentSale(t *testing.T) {
	db := newTestDB(t)
	sold, _ := seedCatalogue(t, db)

	var role models.Role
	require.NoError(t, db.First(&role, "name = ?", string(models.RoleBuyer)).Error)

	user := models.User{Username: "mallory", Password: "x", RoleID: role.ID, Active: true}
	require.NoError(t, db.Create(&user).Error)
	buyer := models.Buyer{UserID: user.ID}
	require.NoError(t, db.Create(&buyer).Error)

	require.NoError(t, db.Create(&models.Sale{
		BuyerID:       buyer.ID,
		VehicleID:     sold.ID,
		Date:          time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		FinalPrice:    sold.Price,
		PaymentMethod: models.PaymentCard,
	}).Error)

	latest, err := LatestBuyer(db, sold.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "mallory", latest.User.Username)
}
