// Package register serves the self service account registration page.
// Administrator accounts can not be created here; those are managed on the
// admin pages.
package register

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler"
	"github.com/AlphaAutos/AlphaAutos/internal/web/session"
)

// Path is the registration page route.
const Path = "/register"

// ErrPasswordMismatch is shown when the repeated password differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// ErrAdminNotAllowed is shown when someone submits the admin role.
var ErrAdminNotAllowed = errors.New("administrator accounts cannot be self registered")

// Service is the registration handler.
type Service struct {
	cfg      *config.Config
	provider *auth.LocalProvider
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the registration routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.provider = auth.NewLocalProvider(db)
	s.validate = validator.New()

	app.Get(Path, s.Form)
	app.Post(Path, s.Register)
}

// Form renders the registration page.
func (s *Service) Form(c *fiber.Ctx) error {
	if session.FromCtx(c) != nil {
		return c.Redirect("/home")
	}

	return s.render(c, fiber.Map{})
}

type registerForm struct {
	Username       string `form:"username" validate:"required,min=3,max=100,alphanum"`
	Email          string `form:"email" validate:"required,email"`
	Password       string `form:"password" validate:"required,min=8"`
	PasswordRepeat string `form:"password_repeat" validate:"required"`
	Role           string `form:"role" validate:"required,oneof=manager buyer"`
	Phone          string `form:"phone" validate:"omitempty,numeric,min=7,max=20"`
}

// Register creates the account and sends the user to the login page.
func (s *Service) Register(c *fiber.Ctx) error {
	var form registerForm

	err := c.BodyParser(&form)
	if err != nil {
		return s.failed(c, errors.New("invalid form submission"), form)
	}

	if models.RoleName(form.Role) == models.RoleAdmin {
		return s.failed(c, ErrAdminNotAllowed, form)
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.failed(c, errors.New("please review the highlighted fields"), form)
	}

	if form.Password != form.PasswordRepeat {
		return s.failed(c, ErrPasswordMismatch, form)
	}

	user, err := s.provider.CreateUser(auth.CreateUserInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Role:     models.RoleName(form.Role),
		Phone:    form.Phone,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return s.failed(c, err, form)
		}

		log.Error().Err(err).Msg("registering user")

		return fiber.ErrInternalServerError
	}

	log.Info().Str("username", user.Username).Str("role", form.Role).Msg("user registered")

	return c.Redirect("/login?success=Account created, you can sign in now")
}

func (s *Service) render(c *fiber.Ctx, data fiber.Map) error {
	data["Title"] = "Register"
	data["AppTitle"] = s.cfg.Title

	return c.Render("register/register", data, handler.BaseLayout)
}

func (s *Service) failed(c *fiber.Ctx, cause error, form registerForm) error {
	return c.Status(fiber.StatusBadRequest).Render("register/register", fiber.Map{
		"Title":    "Register",
		"AppTitle": s.cfg.Title,
		"Error":    cause.Error(),
		"Form":     form,
	}, handler.BaseLayout)
}
