// Package user serves the administrator's account management pages.
package user

import (
	"fmt"

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

const (
	PathList   = "/admin/users"
	PathNew    = "/admin/users/new"
	PathEdit   = "/admin/users/:id/edit"
	PathDelete = "/admin/users/:id/delete"
)

// Service is the user management handler.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	provider *auth.LocalProvider
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the user management routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.db = db
	s.provider = auth.NewLocalProvider(db)
	s.validate = validator.New()

	admin := auth.RequirePermission(authService, auth.PermUserAdmin)

	app.Get(PathList, admin, s.List)
	app.Get(PathNew, admin, s.New)
	app.Post(PathNew, admin, s.Create)
	app.Get(PathEdit, admin, s.Edit)
	app.Post(PathEdit, admin, s.Update)
	app.Post(PathDelete, admin, s.Delete)
}

// List renders all accounts, optionally filtered by username.
func (s *Service) List(c *fiber.Ctx) error {
	query := s.db.Model(&models.User{}).Preload("Role").Order("username")

	search := c.Query("q")
	if search != "" {
		query = query.Where("LOWER(username) LIKE LOWER(?)", "%"+search+"%")
	}

	var users []models.User

	err := query.Find(&users).Error
	if err != nil {
		log.Error().Err(err).Msg("listing users")

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "admin/user/list", fiber.Map{
		"Title":  "Users",
		"Users":  users,
		"Search": search,
	})
}

type createForm struct {
	Username string `form:"username" validate:"required,min=3,max=100,alphanum"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
	Role     string `form:"role" validate:"required,oneof=admin manager buyer"`
	Phone    string `form:"phone" validate:"omitempty,numeric,min=7,max=20"`
}

// New renders the account creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return handler.Render(c, s.cfg, "admin/user/form", fiber.Map{
		"Title":  "New user",
		"Action": PathNew,
		"Roles":  s.roles(),
	})
}

// Create inserts an account. Unlike self registration, an administrator may
// create accounts of any role.
func (s *Service) Create(c *fiber.Ctx) error {
	var form createForm

	err := c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.formError(c, PathNew, "New user", "please review the highlighted fields")
	}

	_, err = s.provider.CreateUser(auth.CreateUserInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Role:     models.RoleName(form.Role),
		Phone:    form.Phone,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return s.formError(c, PathNew, "New user", err.Error())
		}

		log.Error().Err(err).Msg("creating user")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=User created")
}

type updateForm struct {
	Email    string `form:"email" validate:"required,email"`
	Role     string `form:"role" validate:"required,oneof=admin manager buyer"`
	Active   bool   `form:"active"`
	Password string `form:"password" validate:"omitempty,min=8"`
}

// Edit renders the account edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var account models.User

	err = s.db.Preload("Role").First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "admin/user/form", fiber.Map{
		"Title":   "Edit user",
		"Action":  fmt.Sprintf("/admin/users/%d/edit", account.ID),
		"Account": account,
		"Roles":   s.roles(),
	})
}

// Update persists account changes and optionally resets the password.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var account models.User

	err = s.db.First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	action := fmt.Sprintf("/admin/users/%d/edit", account.ID)

	var form updateForm

	err = c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.formError(c, action, "Edit user", "please review the highlighted fields")
	}

	var role models.Role

	err = s.db.Where("name = ?", form.Role).First(&role).Error
	if err != nil {
		return s.formError(c, action, "Edit user", "unknown role")
	}

	account.Email = form.Email
	account.RoleID = role.ID
	account.Active = form.Active

	err = s.db.Save(&account).Error
	if err != nil {
		log.Error().Err(err).Msg("updating user")

		return fiber.ErrInternalServerError
	}

	if form.Password != "" {
		err = s.provider.ChangePassword(account.ID, form.Password)
		if err != nil {
			log.Error().Err(err).Msg("resetting password")

			return fiber.ErrInternalServerError
		}
	}

	return c.Redirect(PathList + "?success=User updated")
}

// Delete removes an account. Administrators can not delete themselves.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	sess := session.FromCtx(c)
	if sess != nil && sess.User.ID == uint64(id) {
		return c.Redirect(PathList + "?success=You cannot delete your own account")
	}

	err = s.db.Delete(&models.User{}, id).Error
	if err != nil {
		log.Error().Err(err).Msg("deleting user")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=User deleted")
}

func (s *Service) formError(c *fiber.Ctx, action, title, msg string) error {
	return handler.Render(c, s.cfg, "admin/user/form", fiber.Map{
		"Title":  title,
		"Action": action,
		"Error":  msg,
		"Roles":  s.roles(),
	})
}

func (s *Service) roles() []models.Role {
	var roles []models.Role

	err := s.db.Order("name").Find(&roles).Error
	if err != nil {
		log.Error().Err(err).Msg("loading roles for select")
	}

	return roles
}
