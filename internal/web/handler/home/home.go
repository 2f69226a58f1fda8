// Package home serves the landing page with the per session visit counter.
package home

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/db/controller/sales"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler"
	"github.com/AlphaAutos/AlphaAutos/internal/web/session"
)

// Path is the home page route.
const Path = "/home"

// Service is the home page handler.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	store storage.Storage
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the home route.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.db = db
	s.store = store

	app.Get(Path, s.Home)
}

// Home renders the landing page and bumps the session page view counter.
func (s *Service) Home(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if sess == nil {
		return c.Redirect("/login")
	}

	sess.PageViews++

	err := session.Write(s.store, c.Cookies(session.CookieName), *sess, s.cfg.Webserver.Session.ExpiryTime)
	if err != nil {
		log.Error().Err(err).Msg("updating session counters")
	}

	summary, err := sales.Summarize(s.db)
	if err != nil {
		log.Error().Err(err).Msg("loading sale summary")

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "home/home", fiber.Map{
		"Title":   "Home",
		"Summary": summary,
	})
}
