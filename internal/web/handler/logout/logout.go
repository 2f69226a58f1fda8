// Package logout tears down the session.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/web/session"
)

// Path is the logout route.
const Path = "/logout"

// Service is the logout handler.
type Service struct {
	store storage.Storage
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the logout route.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.store = store

	app.Get(Path, s.Logout)
}

// Logout destroys the session and returns to the login page.
func (s *Service) Logout(c *fiber.Ctx) error {
	err := session.Destroy(c, s.store)
	if err != nil {
		log.Error().Err(err).Msg("destroying session")
	}

	return c.Redirect("/login")
}
