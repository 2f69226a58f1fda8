// Package brand serves the vehicle brand pages.
package brand

import (
	"fmt"
	"time"

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
	PathList   = "/brands"
	PathNew    = "/brands/new"
	PathDetail = "/brands/:id"
	PathEdit   = "/brands/:id/edit"
	PathDelete = "/brands/:id/delete"
)

// Service is the brand handler.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the brand routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	manage := auth.RequirePermission(authService, auth.PermBrandManage)

	app.Get(PathList, s.List)
	app.Get(PathNew, manage, s.New)
	app.Post(PathNew, manage, s.Create)
	app.Get(PathDetail, s.Detail)
	app.Get(PathEdit, manage, s.Edit)
	app.Post(PathEdit, manage, s.Update)
	app.Post(PathDelete, manage, s.Delete)
}

// List renders the brand list with optional search filters.
func (s *Service) List(c *fiber.Ctx) error {
	data := fiber.Map{"Title": "Brands"}

	query := s.db.Model(&models.Brand{}).Order("name")

	var form forms.BrandSearch

	err := c.QueryParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	searched := forms.WasSubmitted(c)
	if searched {
		if e := form.Validate(); e.Any() {
			data["Form"] = form
			data["FormErrors"] = e

			return handler.Render(c, s.cfg, "brand/list", data)
		}

		if form.Name != "" {
			query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+form.Name+"%")
		}
		if form.OriginCountry != "" {
			query = query.Where("LOWER(origin_country) LIKE LOWER(?)", "%"+form.OriginCountry+"%")
		}
		if form.HasFoundingYear {
			query = query.Where("founding_year = ?", form.ParsedFoundingYear)
		}
	}

	var brands []models.Brand

	err = query.Find(&brands).Error
	if err != nil {
		log.Error().Err(err).Msg("listing brands")

		return fiber.ErrInternalServerError
	}

	data["Brands"] = brands
	data["Form"] = form
	data["Searched"] = searched

	return handler.Render(c, s.cfg, "brand/list", data)
}

// Detail renders one brand with its vehicles.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var brand models.Brand

	err = s.db.Preload("Vehicles.Dealership").First(&brand, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Msg("loading brand")

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "brand/detail", fiber.Map{
		"Title": brand.Name,
		"Brand": brand,
	})
}

type brandForm struct {
	Name          string `form:"name" validate:"required,min=2,max=50"`
	OriginCountry string `form:"origin_country" validate:"omitempty,max=60"`
	FoundingYear  int    `form:"founding_year" validate:"omitempty,min=1950"`
	Description   string `form:"description" validate:"omitempty,min=5,max=1000"`
}

// check covers the founding year upper bound, which moves with the clock and
// cannot be a static validator tag.
func (f *brandForm) check() string {
	year := time.Now().Year()
	if f.FoundingYear != 0 && f.FoundingYear > year {
		return fmt.Sprintf("founding year must be between 1950 and %d", year)
	}

	return ""
}

func (f *brandForm) model() models.Brand {
	brand := models.Brand{
		Name:          f.Name,
		OriginCountry: f.OriginCountry,
		Description:   f.Description,
	}

	if f.FoundingYear != 0 {
		year := f.FoundingYear
		brand.FoundingYear = &year
	}

	return brand
}

// New renders the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return handler.Render(c, s.cfg, "brand/form", fiber.Map{
		"Title":  "New brand",
		"Action": PathNew,
	})
}

// Create inserts a brand.
func (s *Service) Create(c *fiber.Ctx) error {
	var form brandForm

	err := c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil || form.check() != "" {
		msg := "please review the highlighted fields"
		if m := form.check(); m != "" {
			msg = m
		}

		return handler.Render(c, s.cfg, "brand/form", fiber.Map{
			"Title":  "New brand",
			"Action": PathNew,
			"Error":  msg,
			"Form":   form,
		})
	}

	brand := form.model()

	err = s.db.Create(&brand).Error
	if err != nil {
		log.Error().Err(err).Msg("creating brand")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Brand created")
}

// Edit renders the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var brand models.Brand

	err = s.db.First(&brand, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "brand/form", fiber.Map{
		"Title":  "Edit brand",
		"Action": fmt.Sprintf("/brands/%d/edit", brand.ID),
		"Brand":  brand,
	})
}

// Update persists an edit.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var brand models.Brand

	err = s.db.First(&brand, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	var form brandForm

	err = c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil || form.check() != "" {
		msg := "please review the highlighted fields"
		if m := form.check(); m != "" {
			msg = m
		}

		return handler.Render(c, s.cfg, "brand/form", fiber.Map{
			"Title":  "Edit brand",
			"Action": fmt.Sprintf("/brands/%d/edit", brand.ID),
			"Error":  msg,
			"Brand":  brand,
			"Form":   form,
		})
	}

	updated := form.model()
	updated.ID = brand.ID
	updated.CreatedAt = brand.CreatedAt

	err = s.db.Save(&updated).Error
	if err != nil {
		log.Error().Err(err).Msg("updating brand")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Brand updated")
}

// Delete removes a brand. Its vehicles cascade.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.db.Delete(&models.Brand{}, id).Error
	if err != nil {
		log.Error().Err(err).Msg("deleting brand")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Brand deleted")
}
