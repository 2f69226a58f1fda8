package login

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
)

type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, layouts ...string) error {
	return nil
}

type testStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newTestStorage() *testStorage {
	return &testStorage{data: map[string][]byte{}}
}

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data[key], nil
}

func (s *testStorage) Set(key string, val []byte, exp time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = val

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = map[string][]byte{}

	return nil
}

func (s *testStorage) Close() error { return nil }

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

	role := models.Role{Name: string(models.RoleManager), IsSystem: true}
	require.NoError(t, db.Create(&role).Error)

	user := models.User{
		Active:   true,
		Username: "carla",
		Password: models.HashPassword("super-secret"),
		RoleID:   role.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	return db
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{Views: noOpViews{}})

	cfg := &config.Config{
		Title: "AlphaAutos",
		Webserver: config.Webserver{
			Session: config.Session{ExpiryTime: time.Hour},
		},
	}

	db := newTestDB(t)
	Handler.Init(app, cfg, db, auth.NewService(db), newTestStorage())

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

func TestLoginSuccess(t *testing.T) {
	app := newTestApp(t)

	resp := performPost(t, app, Path, url.Values{
		"username": {"carla"},
		"password": {"super-secret"},
	})

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/home", resp.Header.Get(fiber.HeaderLocation))

	var sessionCookie string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "session" {
			sessionCookie = cookie.Value
		}
	}

	assert.NotEmpty(t, sessionCookie)
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)

	resp := performPost(t, app, Path, url.Values{
		"username": {"carla"},
		"password": {"wrong"},
	})

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}

func TestLoginMissingFields(t *testing.T) {
	app := newTestApp(t)

	resp := performPost(t, app, Path, url.Values{"username": {"carla"}})

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginFormRenders(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, Path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
