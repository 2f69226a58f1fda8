// Package buyer serves the buyer profile pages. Listing and searching
// buyers is restricted to staff; buyers see their own profile on the sale
// pages instead.
package buyer

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
	"github.com/AlphaAutos/AlphaAutos/internal/web/forms"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler"
)

const (
	PathList   = "/buyers"
	PathEdit   = "/buyers/:id/edit"
	PathDelete = "/buyers/:id/delete"
)

// Service is the buyer handler.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the buyer routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	manage := auth.RequirePermission(authService, auth.PermBuyerManage)

	app.Get(PathList, manage, s.List)
	app.Get(PathEdit, manage, s.Edit)
	app.Post(PathEdit, manage, s.Update)
	app.Post(PathDelete, manage, s.Delete)
}

// List renders the buyer list with optional search filters.
func (s *Service) List(c *fiber.Ctx) error {
	data := fiber.Map{"Title": "Buyers"}

	query := s.db.Model(&models.Buyer{}).
		Preload("User").
		Joins("JOIN users ON users.id = buyers.user_id").
		Order("users.username")

	var form forms.BuyerSearch

	err := c.QueryParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	searched := forms.WasSubmitted(c)
	if searched {
		if e := form.Validate(); e.Any() {
			data["Form"] = form
			data["FormErrors"] = e

			return handler.Render(c, s.cfg, "buyer/list", data)
		}

		if form.Username != "" {
			query = query.Where("LOWER(users.username) LIKE LOWER(?)", "%"+form.Username+"%")
		}
		if form.Phone != "" {
			query = query.Where("buyers.phone LIKE ?", "%"+form.Phone+"%")
		}
		if form.Email != "" {
			query = query.Where("LOWER(users.email) LIKE LOWER(?)", "%"+form.Email+"%")
		}
	}

	var buyers []models.Buyer

	err = query.Find(&buyers).Error
	if err != nil {
		log.Error().Err(err).Msg("listing buyers")

		return fiber.ErrInternalServerError
	}

	data["Buyers"] = buyers
	data["Form"] = form
	data["Searched"] = searched

	return handler.Render(c, s.cfg, "buyer/list", data)
}

type buyerForm struct {
	Phone string `form:"phone" validate:"omitempty,numeric,min=7,max=20"`
}

// Edit renders the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var buyer models.Buyer

	err = s.db.Preload("User").First(&buyer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "buyer/form", fiber.Map{
		"Title":  "Edit buyer",
		"Action": fmt.Sprintf("/buyers/%d/edit", buyer.ID),
		"Buyer":  buyer,
	})
}

// Update persists an edit.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var buyer models.Buyer

	err = s.db.Preload("User").First(&buyer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	var form buyerForm

	err = c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return handler.Render(c, s.cfg, "buyer/form", fiber.Map{
			"Title":  "Edit buyer",
			"Action": fmt.Sprintf("/buyers/%d/edit", buyer.ID),
			"Error":  "phone may only contain digits",
			"Buyer":  buyer,
		})
	}

	buyer.Phone = form.Phone

	err = s.db.Save(&buyer).Error
	if err != nil {
		log.Error().Err(err).Msg("updating buyer")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Buyer updated")
}

// Delete removes a buyer profile. The linked user account stays.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var count int64

	err = s.db.Model(&models.Sale{}).Where("buyer_id = ?", id).Count(&count).Error
	if err != nil {
		return fiber.ErrInternalServerError
	}

	if count > 0 {
		return c.Redirect(PathList + "?success=Buyer has a recorded sale and cannot be deleted")
	}

	err = s.db.Delete(&models.Buyer{}, id).Error
	if err != nil {
		log.Error().Err(err).Msg("deleting buyer")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Buyer deleted")
}
