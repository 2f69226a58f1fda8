// Package insurer serves the insurance company pages.
package insurer

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
	PathList   = "/insurers"
	PathNew    = "/insurers/new"
	PathDetail = "/insurers/:id"
	PathEdit   = "/insurers/:id/edit"
	PathDelete = "/insurers/:id/delete"
)

// Service is the insurer handler.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the insurer routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	manage := auth.RequirePermission(authService, auth.PermInsurerManage)

	app.Get(PathList, s.List)
	app.Get(PathNew, manage, s.New)
	app.Post(PathNew, manage, s.Create)
	app.Get(PathDetail, s.Detail)
	app.Get(PathEdit, manage, s.Edit)
	app.Post(PathEdit, manage, s.Update)
	app.Post(PathDelete, manage, s.Delete)
}

// List renders the insurer list with optional search filters.
func (s *Service) List(c *fiber.Ctx) error {
	data := fiber.Map{"Title": "Insurers"}

	query := s.db.Model(&models.Insurer{}).Order("name")

	var form forms.InsurerSearch

	err := c.QueryParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	searched := forms.WasSubmitted(c)
	if searched {
		if e := form.Validate(); e.Any() {
			data["Form"] = form
			data["FormErrors"] = e

			return handler.Render(c, s.cfg, "insurer/list", data)
		}

		if form.Name != "" {
			query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+form.Name+"%")
		}
		if form.Country != "" {
			query = query.Where("LOWER(country) LIKE LOWER(?)", "%"+form.Country+"%")
		}
		if form.Phone != "" {
			query = query.Where("phone LIKE ?", "%"+form.Phone+"%")
		}
	}

	var insurers []models.Insurer

	err = query.Find(&insurers).Error
	if err != nil {
		log.Error().Err(err).Msg("listing insurers")

		return fiber.ErrInternalServerError
	}

	data["Insurers"] = insurers
	data["Form"] = form
	data["Searched"] = searched

	return handler.Render(c, s.cfg, "insurer/list", data)
}

// Detail renders one insurer with the policies it underwrites.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var insurer models.Insurer

	err = s.db.Preload("Policies.Vehicle.Brand").First(&insurer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "insurer/detail", fiber.Map{
		"Title":   insurer.Name,
		"Insurer": insurer,
	})
}

type insurerForm struct {
	Name    string `form:"name" validate:"required,min=2,max=100"`
	Country string `form:"country" validate:"omitempty,max=60"`
	Phone   string `form:"phone" validate:"omitempty,numeric,min=7,max=20"`
	Website string `form:"website" validate:"omitempty,startswith=www,max=255"`
}

// New renders the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return handler.Render(c, s.cfg, "insurer/form", fiber.Map{
		"Title":  "New insurer",
		"Action": PathNew,
	})
}

// Create inserts an insurer.
func (s *Service) Create(c *fiber.Ctx) error {
	var form insurerForm

	err := c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return handler.Render(c, s.cfg, "insurer/form", fiber.Map{
			"Title":  "New insurer",
			"Action": PathNew,
			"Error":  "please review the highlighted fields",
			"Form":   form,
		})
	}

	insurer := models.Insurer{
		Name:    form.Name,
		Country: form.Country,
		Phone:   form.Phone,
		Website: form.Website,
	}

	err = s.db.Create(&insurer).Error
	if err != nil {
		log.Error().Err(err).Msg("creating insurer")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Insurer created")
}

// Edit renders the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var insurer models.Insurer

	err = s.db.First(&insurer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "insurer/form", fiber.Map{
		"Title":   "Edit insurer",
		"Action":  fmt.Sprintf("/insurers/%d/edit", insurer.ID),
		"Insurer": insurer,
	})
}

// Update persists an edit.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var insurer models.Insurer

	err = s.db.First(&insurer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	var form insurerForm

	err = c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return handler.Render(c, s.cfg, "insurer/form", fiber.Map{
			"Title":   "Edit insurer",
			"Action":  fmt.Sprintf("/insurers/%d/edit", insurer.ID),
			"Error":   "please review the highlighted fields",
			"Insurer": insurer,
			"Form":    form,
		})
	}

	insurer.Name = form.Name
	insurer.Country = form.Country
	insurer.Phone = form.Phone
	insurer.Website = form.Website

	err = s.db.Save(&insurer).Error
	if err != nil {
		log.Error().Err(err).Msg("updating insurer")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Insurer updated")
}

// Delete removes an insurer and its policy links.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var insurer models.Insurer

	err = s.db.First(&insurer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&insurer).Association("Policies").Clear()
		if err != nil {
			return err
		}

		return tx.Delete(&insurer).Error
	})
	if err != nil {
		log.Error().Err(err).Msg("deleting insurer")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Insurer deleted")
}
