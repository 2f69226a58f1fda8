package sale

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
	"github.com/AlphaAutos/AlphaAutos/internal/web/session"
)

type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, layouts ...string) error {
	return nil
}

type fixture struct {
	db      *gorm.DB
	admin   models.User
	buyer   models.User
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
		&models.Permission{},
		&models.RolePermission{},
		&models.User{},
		&models.Dealership{},
		&models.Brand{},
		&models.Vehicle{},
		&models.Buyer{},
		&models.Sale{},
	))

	adminRole := models.Role{Name: string(models.RoleAdmin), IsSystem: true}
	require.NoError(t, db.Create(&adminRole).Error)
	buyerRole := models.Role{Name: string(models.RoleBuyer), IsSystem: true}
	require.NoError(t, db.Create(&buyerRole).Error)

	for _, name := range []string{auth.PermSaleCreate, auth.PermSaleSearch, auth.PermSaleManage} {
		permission := models.Permission{Name: name}
		require.NoError(t, db.Create(&permission).Error)

		require.NoError(t, db.Create(&models.RolePermission{
			RoleID: adminRole.ID, PermissionID: permission.ID,
		}).Error)

		if name != auth.PermSaleManage {
			require.NoError(t, db.Create(&models.RolePermission{
				RoleID: buyerRole.ID, PermissionID: permission.ID,
			}).Error)
		}
	}

	admin := models.User{Username: "admin", Password: "x", RoleID: adminRole.ID, Active: true, Role: adminRole}
	require.NoError(t, db.Create(&admin).Error)

	buyerUser := models.User{Username: "carla", Password: "x", RoleID: buyerRole.ID, Active: true, Role: buyerRole}
	require.NoError(t, db.Create(&buyerUser).Error)

	profile := models.Buyer{UserID: buyerUser.ID}
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

	return &fixture{db: db, admin: admin, buyer: buyerUser, profile: profile, vehicle: vehicle}
}

// newTestApp builds an app where every request runs as the given user.
func (f *fixture) newTestApp(user models.User) *fiber.App {
	app := fiber.New(fiber.Config{Views: noOpViews{}})

	app.Use(func(c *fiber.Ctx) error {
		c.Locals(session.LocalsKey, &session.Data{User: user})

		return c.Next()
	})

	cfg := &config.Config{Title: "AlphaAutos"}
	Handler.Init(app, cfg, f.db, auth.NewService(f.db), nil)

	return app
}

func performPost(t *testing.T, app *fiber.App, path string, values url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func today() string {
	return time.Now().Format(dateLayout)
}

func TestCreateIgnoresForgedPrice(t *testing.T) {
	f := newFixture(t)
	app := f.newTestApp(f.buyer)

	resp := performPost(t, app, PathNew, url.Values{
		"vehicle_id":     {"1"},
		"date":           {today()},
		"payment_method": {"cash"},
		// A forged price field must have no effect.
		"final_price": {"1"},
	})

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	var sale models.Sale
	require.NoError(t, f.db.First(&sale).Error)
	assert.True(t, sale.FinalPrice.Equal(decimal.NewFromInt(20000)),
		"expected the vehicle price, got %s", sale.FinalPrice)
}

func TestCreateBuyerBuysForSelf(t *testing.T) {
	f := newFixture(t)
	app := f.newTestApp(f.buyer)

	resp := performPost(t, app, PathNew, url.Values{
		"vehicle_id":     {"1"},
		"buyer_id":       {"9999"},
		"date":           {today()},
		"payment_method": {"card"},
	})

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	var sale models.Sale
	require.NoError(t, f.db.First(&sale).Error)
	assert.Equal(t, f.profile.ID, sale.BuyerID)
}

func TestCreateStaffNeedsBuyer(t *testing.T) {
	f := newFixture(t)
	app := f.newTestApp(f.admin)

	resp := performPost(t, app, PathNew, url.Values{
		"vehicle_id":     {"1"},
		"date":           {today()},
		"payment_method": {"cash"},
	})

	// Form is rendered again with an error instead of redirecting.
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, f.db.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSoldVehicleRejected(t *testing.T) {
	f := newFixture(t)
	app := f.newTestApp(f.buyer)

	resp := performPost(t, app, PathNew, url.Values{
		"vehicle_id":     {"1"},
		"date":           {today()},
		"payment_method": {"cash"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	// A second buyer cannot buy the same vehicle again.
	var buyerRole models.Role
	require.NoError(t, f.db.First(&buyerRole, "name = ?", string(models.RoleBuyer)).Error)
	other := models.User{Username: "mallory", Password: "x", RoleID: buyerRole.ID, Active: true, Role: buyerRole}
	require.NoError(t, f.db.Create(&other).Error)
	require.NoError(t, f.db.Create(&models.Buyer{UserID: other.ID}).Error)

	otherApp := f.newTestApp(other)

	resp = performPost(t, otherApp, PathNew, url.Values{
		"vehicle_id":     {"1"},
		"date":           {today()},
		"payment_method": {"cash"},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, f.db.Model(&models.Sale{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateFutureDateRejected(t *testing.T) {
	f := newFixture(t)
	app := f.newTestApp(f.buyer)

	resp := performPost(t, app, PathNew, url.Values{
		"vehicle_id":     {"1"},
		"date":           {time.Now().AddDate(0, 0, 7).Format(dateLayout)},
		"payment_method": {"cash"},
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, f.db.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteRequiresManagePermission(t *testing.T) {
	f := newFixture(t)
	app := f.newTestApp(f.buyer)

	resp := performPost(t, app, "/sales/1/delete", url.Values{})

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestListRendersForAllRoles(t *testing.T) {
	f := newFixture(t)

	for _, user := range []models.User{f.admin, f.buyer} {
		app := f.newTestApp(user)

		req := httptest.NewRequest(fiber.MethodGet, PathList, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
