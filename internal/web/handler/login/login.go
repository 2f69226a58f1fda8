// Package login serves the login form and establishes the session.
package login

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler"
	"github.com/AlphaAutos/AlphaAutos/internal/web/session"
)

// Path is the login page route.
const Path = "/login"

// Service is the login handler.
type Service struct {
	cfg      *config.Config
	store    storage.Storage
	provider *auth.LocalProvider
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the login routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.store = store
	s.provider = auth.NewLocalProvider(db)
	s.validate = validator.New()

	app.Get(Path, s.Form)
	app.Post(Path, s.Login)
}

// Form renders the login page.
func (s *Service) Form(c *fiber.Ctx) error {
	if session.FromCtx(c) != nil {
		return c.Redirect("/home")
	}

	return c.Render("login/login", fiber.Map{
		"Title":    "Sign in",
		"AppTitle": s.cfg.Title,
	}, handler.BaseLayout)
}

type loginForm struct {
	Username string `form:"username" validate:"required,min=1,max=100"`
	Password string `form:"password" validate:"required,min=1"`
}

// Login checks the credentials and starts a session.
func (s *Service) Login(c *fiber.Ctx) error {
	var form loginForm

	err := c.BodyParser(&form)
	if err != nil {
		return s.failed(c, ErrMissingCredentials)
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.failed(c, ErrMissingCredentials)
	}

	user, err := s.provider.Authenticate(form.Username, form.Password)
	if err != nil {
		log.Info().Str("username", form.Username).Err(err).Msg("login failed")

		return s.failed(c, auth.ErrInvalidCredentials)
	}

	err = session.Init(c, s.store, *user, s.cfg.Webserver.Session.ExpiryTime, !s.cfg.DevMode)
	if err != nil {
		log.Error().Err(err).Msg("initializing session")

		return fiber.ErrInternalServerError
	}

	log.Info().Str("username", user.Username).Msg("user logged in")

	return c.Redirect("/home")
}

func (s *Service) failed(c *fiber.Ctx, cause error) error {
	return c.Status(fiber.StatusUnauthorized).Render("login/login", fiber.Map{
		"Title":    "Sign in",
		"AppTitle": s.cfg.Title,
		"Error":    cause.Error(),
	}, handler.BaseLayout)
}
