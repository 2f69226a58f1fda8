// Package dealership serves the dealership pages: listing with search,
// detail and the management forms.
package dealership

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
	"github.com/AlphaAutos/AlphaAutos/internal/db/controller/inventory"
	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
	"github.com/AlphaAutos/AlphaAutos/internal/web/forms"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler"
)

const (
	PathList   = "/dealerships"
	PathNew    = "/dealerships/new"
	PathDetail = "/dealerships/:id"
	PathEdit   = "/dealerships/:id/edit"
	PathDelete = "/dealerships/:id/delete"
)

// Service is the dealership handler.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the dealership routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	manage := auth.RequirePermission(authService, auth.PermDealershipManage)

	app.Get(PathList, s.List)
	app.Get(PathNew, manage, s.New)
	app.Post(PathNew, manage, s.Create)
	app.Get(PathDetail, s.Detail)
	app.Get(PathEdit, manage, s.Edit)
	app.Post(PathEdit, manage, s.Update)
	app.Post(PathDelete, manage, s.Delete)
}

// List renders the dealership list, filtered when search criteria were
// submitted.
func (s *Service) List(c *fiber.Ctx) error {
	data := fiber.Map{"Title": "Dealerships"}

	query := s.db.Model(&models.Dealership{}).Order("name")

	var form forms.DealershipSearch

	err := c.QueryParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	searched := forms.WasSubmitted(c)
	if searched {
		if e := form.Validate(); e.Any() {
			data["Form"] = form
			data["FormErrors"] = e

			return handler.Render(c, s.cfg, "dealership/list", data)
		}

		if form.Name != "" {
			query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+form.Name+"%")
		}
		if form.City != "" {
			query = query.Where("LOWER(city) LIKE LOWER(?)", "%"+form.City+"%")
		}
		if form.Phone != "" {
			query = query.Where("phone LIKE ?", "%"+form.Phone+"%")
		}
	}

	var dealerships []models.Dealership

	err = query.Find(&dealerships).Error
	if err != nil {
		log.Error().Err(err).Msg("listing dealerships")

		return fiber.ErrInternalServerError
	}

	data["Dealerships"] = dealerships
	data["Form"] = form
	data["Searched"] = searched

	return handler.Render(c, s.cfg, "dealership/list", data)
}

// Detail renders one dealership with its employees and vehicles. The stock
// table can be narrowed to models containing the given text.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var dealership models.Dealership

	err = s.db.Preload("Employees").First(&dealership, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Msg("loading dealership")

		return fiber.ErrInternalServerError
	}

	model := c.Query("model")

	vehicles, err := inventory.ByDealershipModel(s.db, dealership.ID, model)
	if err != nil {
		log.Error().Err(err).Msg("loading dealership stock")

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "dealership/detail", fiber.Map{
		"Title":      dealership.Name,
		"Dealership": dealership,
		"Vehicles":   vehicles,
		"Model":      model,
	})
}

type dealershipForm struct {
	Name    string `form:"name" validate:"required,min=2,max=100"`
	Address string `form:"address" validate:"required,max=255"`
	City    string `form:"city" validate:"required,min=2,max=60"`
	Phone   string `form:"phone" validate:"required,numeric,min=7,max=20"`
}

// New renders the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return handler.Render(c, s.cfg, "dealership/form", fiber.Map{
		"Title":  "New dealership",
		"Action": PathNew,
	})
}

// Create inserts a dealership.
func (s *Service) Create(c *fiber.Ctx) error {
	var form dealershipForm

	err := c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return handler.Render(c, s.cfg, "dealership/form", fiber.Map{
			"Title":  "New dealership",
			"Action": PathNew,
			"Error":  "please review the highlighted fields",
			"Form":   form,
		})
	}

	dealership := models.Dealership{
		Name:    form.Name,
		Address: form.Address,
		City:    form.City,
		Phone:   form.Phone,
	}

	err = s.db.Create(&dealership).Error
	if err != nil {
		log.Error().Err(err).Msg("creating dealership")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Dealership created")
}

// Edit renders the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var dealership models.Dealership

	err = s.db.First(&dealership, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "dealership/form", fiber.Map{
		"Title":      "Edit dealership",
		"Action":     fmt.Sprintf("/dealerships/%d/edit", dealership.ID),
		"Dealership": dealership,
	})
}

// Update persists an edit.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var dealership models.Dealership

	err = s.db.First(&dealership, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	var form dealershipForm

	err = c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return handler.Render(c, s.cfg, "dealership/form", fiber.Map{
			"Title":      "Edit dealership",
			"Action":     fmt.Sprintf("/dealerships/%d/edit", dealership.ID),
			"Error":      "please review the highlighted fields",
			"Dealership": dealership,
			"Form":       form,
		})
	}

	dealership.Name = form.Name
	dealership.Address = form.Address
	dealership.City = form.City
	dealership.Phone = form.Phone

	err = s.db.Save(&dealership).Error
	if err != nil {
		log.Error().Err(err).Msg("updating dealership")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Dealership updated")
}

// Delete removes a dealership. Employees and vehicles cascade.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.db.Delete(&models.Dealership{}, id).Error
	if err != nil {
		log.Error().Err(err).Msg("deleting dealership")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Dealership deleted")
}
