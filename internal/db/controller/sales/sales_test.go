package sales

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

type fixture struct {
	db      *gorm.DB
	admin   *models.User
	manager *models.User
	buyer   *models.User
	profile models.Buyer
	vehicle models.Vehicle
}

func newFixture(t *testing.T) *fixture {
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

	adminRole := models.Role{Name: string(models.RoleAdmin)}
	require.NoError(t, db.Create(&adminRole).Error)
	managerRole := models.Role{Name: string(models.RoleManager)}
	require.NoError(t, db.Create(&managerRole).Error)
	buyerRole := models.Role{Name: string(models.RoleBuyer)}
	require.NoError(t, db.Create(&buyerRole).Error)

	admin := models.User{Username: "admin", Password: "x", RoleID: adminRole.ID, Active: true}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Preload("Role").First(&admin, admin.ID).Error)

	manager := models.User{Username: "martin", Password: "x", RoleID: managerRole.ID, Active: true}
	require.NoError(t, db.Create(&manager).Error)
	require.NoError(t, db.Preload("Role").First(&manager, manager.ID).Error)

	buyerUser := models.User{Username: "carla", Password: "x", RoleID: buyerRole.ID, Active: true}
	require.NoError(t, db.Create(&buyerUser).Error)
	require.NoError(t, db.Preload("Role").First(&buyerUser, buyerUser.ID).Error)

	profile := models.Buyer{UserID: buyerUser.ID, Phone: "600111222"}
	require.NoError(t, db.Create(&profile).Error)

	brand := models.Brand{Name: "Seat"}
	require.NoError(t, db.Create(&brand).Error)

	dealership := models.Dealership{Name: "Alpha Madrid", City: "Madrid"}
	require.NoError(t, db.Create(&dealership).Error)

	vehicle := models.Vehicle{
		BrandID:         brand.ID,
		DealershipID:    dealership.ID,
		Model:           "Leon",
		Price:           decimal.NewFromInt(20000),
		Transmission:    models.TransmissionManual,
		ManufactureDate: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&vehicle).Error)

	return &fixture{
		db:      db,
		admin:   &admin,
		manager: &manager,
		buyer:   &buyerUser,
		profile: profile,
		vehicle: vehicle,
	}
}

func (f *fixture) addBuyer(t *testing.T, username string) models.Buyer {
	t.Helper()

	var role models.Role
	require.NoError(t, f.db.Where("name = ?", string(models.RoleBuyer)).First(&role).Error)

	user := models.User{Username: username, Password: "x", RoleID: role.ID, Active: true}
	require.NoError(t, f.db.Create(&user).Error)

	profile := models.Buyer{UserID: user.ID}
	require.NoError(t, f.db.Create(&profile).Error)

	return profile
}

func TestCreateCopiesVehiclePrice(t *testing.T) {
	f := newFixture(t)

	sale, err := Create(f.db, f.admin, CreateInput{
		BuyerID:       f.profile.ID,
		VehicleID:     f.vehicle.ID,
		Date:          time.Now().AddDate(0, 0, -1),
		PaymentMethod: models.PaymentCash,
	})
	require.NoError(t, err)

	assert.True(t, sale.FinalPrice.Equal(decimal.NewFromInt(20000)),
		"final price must come from the vehicle, got %s", sale.FinalPrice)
}

func TestCreateBuyerIgnoresSubmittedBuyer(t *testing.T) {
	f := newFixture(t)
	other := f.addBuyer(t, "mallory")

	sale, err := Create(f.db, f.buyer, CreateInput{
		BuyerID:       other.ID,
		VehicleID:     f.vehicle.ID,
		Date:          time.Now(),
		PaymentMethod: models.PaymentCard,
	})
	require.NoError(t, err)

	assert.Equal(t, f.profile.ID, sale.BuyerID)
}

func TestCreateVehicleAlreadySold(t *testing.T) {
	f := newFixture(t)

	_, err := Create(f.db, f.buyer, CreateInput{
		VehicleID:     f.vehicle.ID,
		Date:          time.Now(),
		PaymentMethod: models.PaymentCash,
	})
	require.NoError(t, err)

	other := f.addBuyer(t, "mallory")

	_, err = Create(f.db, f.manager, CreateInput{
		BuyerID:       other.ID,
		VehicleID:     f.vehicle.ID,
		Date:          time.Now(),
		PaymentMethod: models.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrVehicleSold)
}

func TestCreateAdminMayResellVehicle(t *testing.T) {
	f := newFixture(t)

	_, err := Create(f.db, f.buyer, CreateInput{
		VehicleID:     f.vehicle.ID,
		Date:          time.Now(),
		PaymentMethod: models.PaymentCash,
	})
	require.NoError(t, err)

	other := f.addBuyer(t, "mallory")

	// Admins see sold vehicles in the offering, so recording a resale
	// must go through.
	sale, err := Create(f.db, f.admin, CreateInput{
		BuyerID:       other.ID,
		VehicleID:     f.vehicle.ID,
		Date:          time.Now(),
		PaymentMethod: models.PaymentCard,
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, sale.BuyerID)

	var count int64
	require.NoError(t, f.db.Model(&models.Sale{}).Where("vehicle_id = ?", f.vehicle.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCreateBuyerAlreadyHasSale(t *testing.T) {
	f := newFixture(t)

	_, err := Create(f.db, f.buyer, CreateInput{
		VehicleID:     f.vehicle.ID,
		Date:          time.Now(),
		PaymentMethod: models.PaymentCash,
	})
	require.NoError(t, err)

	second := models.Vehicle{
		BrandID:         f.vehicle.BrandID,
		DealershipID:    f.vehicle.DealershipID,
		Model:           "Ibiza",
		Price:           decimal.NewFromInt(14000),
		Transmission:    models.TransmissionManual,
		ManufactureDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.db.Create(&second).Error)

	_, err = Create(f.db, f.buyer, CreateInput{
		VehicleID:     second.ID,
		Date:          time.Now(),
		PaymentMethod: models.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrBuyerHasSale)
}

func TestCreateVehicleNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := Create(f.db, f.buyer, CreateInput{
		VehicleID:     9999,
		Date:          time.Now(),
		PaymentMethod: models.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestCreateDateInFuture(t *testing.T) {
	f := newFixture(t)

	_, err := Create(f.db, f.buyer, CreateInput{
		VehicleID:     f.vehicle.ID,
		Date:          time.Now().AddDate(0, 0, 2),
		PaymentMethod: models.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrDateInFuture)
}

func TestCreateInvalidPaymentMethod(t *testing.T) {
	f := newFixture(t)

	_, err := Create(f.db, f.buyer, CreateInput{
		VehicleID:     f.vehicle.ID,
		Date:          time.Now(),
		PaymentMethod: "barter",
	})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestSearchScopesBuyerToOwnSales(t *testing.T) {
	f := newFixture(t)

	_, err := Create(f.db, f.buyer, CreateInput{
		VehicleID:     f.vehicle.ID,
		Date:          time.Now(),
		PaymentMethod: models.PaymentCash,
	})
	require.NoError(t, err)

	other := f.addBuyer(t, "mallory")

	second := models.Vehicle{
		BrandID:         f.vehicle.BrandID,
		DealershipID:    f.vehicle.DealershipID,
		Model:           "Arona",
		Price:           decimal.NewFromInt(18000),
		Transmission:    models.TransmissionAutomatic,
		ManufactureDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.db.Create(&second).Error)

	sale := models.Sale{
		BuyerID:       other.ID,
		VehicleID:     second.ID,
		Date:          time.Now(),
		FinalPrice:    second.Price,
		PaymentMethod: models.PaymentCard,
	}
	require.NoError(t, f.db.Create(&sale).Error)

	// The buyer name filter would match the other buyer but must be
	// ignored for buyer users.
	result, err := Search(f.db, f.buyer, SearchCriteria{BuyerName: "mallory"})
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, f.profile.ID, result[0].BuyerID)

	result, err = Search(f.db, f.admin, SearchCriteria{})
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestSearchFilters(t *testing.T) {
	f := newFixture(t)

	_, err := Create(f.db, f.buyer, CreateInput{
		VehicleID:     f.vehicle.ID,
		Date:          time.Now(),
		PaymentMethod: models.PaymentCash,
	})
	require.NoError(t, err)

	result, err := Search(f.db, f.admin, SearchCriteria{VehicleModel: "LEO"})
	require.NoError(t, err)
	assert.Len(t, result, 1)

	result, err = Search(f.db, f.admin, SearchCriteria{VehicleModel: "golf"})
	require.NoError(t, err)
	assert.Empty(t, result)

	result, err = Search(f.db, f.admin, SearchCriteria{BuyerName: "carl", PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Len(t, result, 1)

	// Payment method is a case insensitive substring match like the other
	// text filters.
	result, err = Search(f.db, f.admin, SearchCriteria{PaymentMethod: "CAS"})
	require.NoError(t, err)
	assert.Len(t, result, 1)

	result, err = Search(f.db, f.admin, SearchCriteria{PaymentMethod: "financing"})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSummarize(t *testing.T) {
	f := newFixture(t)

	summary, err := Summarize(f.db)
	require.NoError(t, err)
	assert.Zero(t, summary.Count)

	_, err = Create(f.db, f.buyer, CreateInput{
		VehicleID:     f.vehicle.ID,
		Date:          time.Now(),
		PaymentMethod: models.PaymentCash,
	})
	require.NoError(t, err)

	summary, err = Summarize(f.db)
	require.NoError(t, err)

	assert.EqualValues(t, 1, summary.Count)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(20000)))
	assert.True(t, summary.Highest.Equal(summary.Lowest))
}
