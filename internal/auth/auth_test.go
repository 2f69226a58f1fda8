package auth

import (
	"testing"

	"github.com/glebarez/sqlite"
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
		&models.Permission{},
		&models.RolePermission{},
		&models.User{},
		&models.Buyer{},
	))

	for _, name := range []models.RoleName{models.RoleAdmin, models.RoleManager, models.RoleBuyer} {
		require.NoError(t, db.Create(&models.Role{Name: string(name), IsSystem: true}).Error)
	}

	return db
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	provider := NewLocalProvider(db)

	created, err := provider.CreateUser(CreateUserInput{
		Username: "carla",
		Email:    "carla@example.com",
		Password: "super-secret",
		Role:     models.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, created.RoleName())

	user, err := provider.Authenticate("carla", "super-secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = provider.Authenticate("carla", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = provider.Authenticate("nobody", "super-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateDisabledUser(t *testing.T) {
	db := newTestDB(t)
	provider := NewLocalProvider(db)

	user, err := provider.CreateUser(CreateUserInput{
		Username: "carla",
		Password: "super-secret",
		Role:     models.RoleBuyer,
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false).Error)

	_, err = provider.Authenticate("carla", "super-secret")
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestCreateUserDuplicate(t *testing.T) {
	db := newTestDB(t)
	provider := NewLocalProvider(db)

	_, err := provider.CreateUser(CreateUserInput{Username: "carla", Password: "x1234567", Role: models.RoleBuyer})
	require.NoError(t, err)

	_, err = provider.CreateUser(CreateUserInput{Username: "carla", Password: "x1234567", Role: models.RoleBuyer})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestCreateBuyerCreatesProfile(t *testing.T) {
	db := newTestDB(t)
	provider := NewLocalProvider(db)

	user, err := provider.CreateUser(CreateUserInput{
		Username: "carla",
		Password: "super-secret",
		Role:     models.RoleBuyer,
		Phone:    "600111222",
	})
	require.NoError(t, err)

	var buyer models.Buyer
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&buyer).Error)
	assert.Equal(t, "600111222", buyer.Phone)
}

func TestCreateUserUnknownRole(t *testing.T) {
	db := newTestDB(t)
	provider := NewLocalProvider(db)

	_, err := provider.CreateUser(CreateUserInput{Username: "carla", Password: "x1234567", Role: "root"})
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestHasPermission(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)
	provider := NewLocalProvider(db)

	permission := models.Permission{Name: PermSaleCreate, Resource: "sale", Action: "create"}
	require.NoError(t, db.Create(&permission).Error)

	var buyerRole models.Role
	require.NoError(t, db.Where("name = ?", string(models.RoleBuyer)).First(&buyerRole).Error)
	require.NoError(t, db.Create(&models.RolePermission{RoleID: buyerRole.ID, PermissionID: permission.ID}).Error)

	buyer, err := provider.CreateUser(CreateUserInput{Username: "carla", Password: "x1234567", Role: models.RoleBuyer})
	require.NoError(t, err)
	manager, err := provider.CreateUser(CreateUserInput{Username: "marc", Password: "x1234567", Role: models.RoleManager})
	require.NoError(t, err)

	allowed, err := service.HasPermission(buyer, PermSaleCreate)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.HasPermission(manager, PermSaleCreate)
	require.NoError(t, err)
	assert.False(t, allowed)

	names, err := service.UserPermissions(buyer)
	require.NoError(t, err)
	assert.Equal(t, []string{PermSaleCreate}, names)
}
