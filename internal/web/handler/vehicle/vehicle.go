// Package vehicle serves the vehicle catalogue: listing with search, the
// management forms and the report pages (by manufacture date, by
// transmission, unsold stock and the most recent buyer).
package vehicle

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/db/controller/inventory"
	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
	"github.com/AlphaAutos/AlphaAutos/internal/web/forms"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler"
)

const (
	PathList         = "/vehicles"
	PathNew          = "/vehicles/new"
	PathByDate       = "/vehicles/by-date"
	PathTransmission = "/vehicles/by-transmission"
	PathUnsold       = "/vehicles/unsold"
	PathDetail       = "/vehicles/:id"
	PathLatestBuyer  = "/vehicles/:id/latest-buyer"
	PathEdit         = "/vehicles/:id/edit"
	PathDelete       = "/vehicles/:id/delete"
)

const dateLayout = "2006-01-02"

// Service is the vehicle handler.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the vehicle routes. The static report paths come before
// the :id routes so they are matched first.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	manage := auth.RequirePermission(authService, auth.PermVehicleManage)

	app.Get(PathList, s.List)
	app.Get(PathNew, manage, s.New)
	app.Post(PathNew, manage, s.Create)
	app.Get(PathByDate, s.ByDate)
	app.Get(PathTransmission, s.ByTransmission)
	app.Get(PathUnsold, s.Unsold)
	app.Get(PathDetail, s.Detail)
	app.Get(PathLatestBuyer, s.LatestBuyer)
	app.Get(PathEdit, manage, s.Edit)
	app.Post(PathEdit, manage, s.Update)
	app.Post(PathDelete, manage, s.Delete)
}

// List renders the catalogue with optional search filters.
func (s *Service) List(c *fiber.Ctx) error {
	data := fiber.Map{"Title": "Vehicles"}

	query := s.db.Model(&models.Vehicle{}).
		Preload("Brand").Preload("Dealership").Preload("Sale").
		Joins("JOIN brands ON brands.id = vehicles.brand_id").
		Order("brands.name, vehicles.id")

	var form forms.VehicleSearch

	err := c.QueryParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	searched := forms.WasSubmitted(c)
	if searched {
		if e := form.Validate(); e.Any() {
			data["Form"] = form
			data["FormErrors"] = e

			return handler.Render(c, s.cfg, "vehicle/list", data)
		}

		if form.Brand != "" {
			query = query.Where("LOWER(brands.name) LIKE LOWER(?)", "%"+form.Brand+"%")
		}
		if form.Model != "" {
			query = query.Where("LOWER(vehicles.model) LIKE LOWER(?)", "%"+form.Model+"%")
		}
		if form.HasMaxPrice {
			query = query.Where("vehicles.price <= ?", form.ParsedMaxPrice)
		}
	}

	var vehicles []models.Vehicle

	err = query.Find(&vehicles).Error
	if err != nil {
		log.Error().Err(err).Msg("listing vehicles")

		return fiber.ErrInternalServerError
	}

	data["Vehicles"] = vehicles
	data["Form"] = form
	data["Searched"] = searched

	return handler.Render(c, s.cfg, "vehicle/list", data)
}

// Detail renders one vehicle with its policy and sale state.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var vehicle models.Vehicle

	err = s.db.Preload("Brand").Preload("Dealership").Preload("Sale.Buyer.User").
		First(&vehicle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Msg("loading vehicle")

		return fiber.ErrInternalServerError
	}

	var policy models.Policy

	err = s.db.Preload("Insurers").Where("vehicle_id = ?", vehicle.ID).First(&policy).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Msg("loading vehicle policy")

		return fiber.ErrInternalServerError
	}

	data := fiber.Map{
		"Title":   vehicle.DisplayName(),
		"Vehicle": vehicle,
	}

	if policy.ID != 0 {
		data["Policy"] = policy
	}

	return handler.Render(c, s.cfg, "vehicle/detail", data)
}

// ByDate renders the vehicles manufactured in a given year and month.
func (s *Service) ByDate(c *fiber.Ctx) error {
	data := fiber.Map{"Title": "Vehicles by manufacture date"}

	year := c.QueryInt("year")
	month := c.QueryInt("month")

	if year != 0 || month != 0 {
		if year < 1900 || year > time.Now().Year() || month < 1 || month > 12 {
			data["Error"] = "enter a valid year and month"
		} else {
			vehicles, err := inventory.ByManufacture(s.db, year, month)
			if err != nil {
				log.Error().Err(err).Msg("listing vehicles by manufacture date")

				return fiber.ErrInternalServerError
			}

			data["Vehicles"] = vehicles
			data["Searched"] = true
		}
	}

	data["Year"] = year
	data["Month"] = month

	return handler.Render(c, s.cfg, "vehicle/by_date", data)
}

// ByTransmission renders the vehicles with the chosen transmission; manual
// vehicles are always included.
func (s *Service) ByTransmission(c *fiber.Ctx) error {
	kind := models.Transmission(c.Query("kind", string(models.TransmissionManual)))
	if !kind.Valid() {
		return fiber.ErrBadRequest
	}

	vehicles, err := inventory.ByTransmission(s.db, kind)
	if err != nil {
		log.Error().Err(err).Msg("listing vehicles by transmission")

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "vehicle/by_transmission", fiber.Map{
		"Title":    "Vehicles by transmission",
		"Kind":     string(kind),
		"Vehicles": vehicles,
	})
}

// Unsold renders the vehicles still available for purchase.
func (s *Service) Unsold(c *fiber.Ctx) error {
	vehicles, err := inventory.Available(s.db)
	if err != nil {
		log.Error().Err(err).Msg("listing unsold vehicles")

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "vehicle/unsold", fiber.Map{
		"Title":    "Unsold vehicles",
		"Vehicles": vehicles,
	})
}

// LatestBuyer renders the buyer of the most recent sale of a vehicle.
func (s *Service) LatestBuyer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var vehicle models.Vehicle

	err = s.db.Preload("Brand").First(&vehicle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Msg("loading vehicle")

		return fiber.ErrInternalServerError
	}

	buyer, err := inventory.LatestBuyer(s.db, vehicle.ID)
	if err != nil {
		log.Error().Err(err).Msg("loading latest buyer")

		return fiber.ErrInternalServerError
	}

	data := fiber.Map{
		"Title":   "Latest buyer of " + vehicle.DisplayName(),
		"Vehicle": vehicle,
	}
	if buyer != nil {
		data["Buyer"] = buyer
	}

	return handler.Render(c, s.cfg, "vehicle/latest_buyer", data)
}

type vehicleForm struct {
	BrandID         uint   `form:"brand_id" validate:"required"`
	DealershipID    uint   `form:"dealership_id" validate:"required"`
	Model           string `form:"model" validate:"required,min=1,max=100"`
	Price           string `form:"price" validate:"required"`
	Transmission    string `form:"transmission" validate:"required,oneof=MT AT"`
	ManufactureDate string `form:"manufacture_date" validate:"required"`
	ImagePath       string `form:"image_path" validate:"omitempty,max=255"`
}

func (s *Service) parseForm(form vehicleForm) (models.Vehicle, string) {
	price, err := decimal.NewFromString(form.Price)
	if err != nil || !price.IsPositive() {
		return models.Vehicle{}, "price must be a positive number"
	}

	manufactured, err := time.Parse(dateLayout, form.ManufactureDate)
	if err != nil {
		return models.Vehicle{}, "manufacture date must be a valid date"
	}

	if manufactured.After(time.Now()) {
		return models.Vehicle{}, "manufacture date cannot be in the future"
	}

	return models.Vehicle{
		BrandID:         form.BrandID,
		DealershipID:    form.DealershipID,
		Model:           form.Model,
		Price:           price,
		Transmission:    models.Transmission(form.Transmission),
		ManufactureDate: manufactured,
		ImagePath:       form.ImagePath,
	}, ""
}

// New renders the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return handler.Render(c, s.cfg, "vehicle/form", fiber.Map{
		"Title":       "New vehicle",
		"Action":      PathNew,
		"Brands":      s.brands(),
		"Dealerships": s.dealershipsForSelect(),
	})
}

// Create inserts a vehicle.
func (s *Service) Create(c *fiber.Ctx) error {
	var form vehicleForm

	err := c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.formError(c, PathNew, "New vehicle", "please review the highlighted fields", form)
	}

	vehicle, msg := s.parseForm(form)
	if msg != "" {
		return s.formError(c, PathNew, "New vehicle", msg, form)
	}

	err = s.db.Create(&vehicle).Error
	if err != nil {
		log.Error().Err(err).Msg("creating vehicle")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Vehicle created")
}

// Edit renders the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var vehicle models.Vehicle

	err = s.db.First(&vehicle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "vehicle/form", fiber.Map{
		"Title":       "Edit vehicle",
		"Action":      fmt.Sprintf("/vehicles/%d/edit", vehicle.ID),
		"Vehicle":     vehicle,
		"Brands":      s.brands(),
		"Dealerships": s.dealershipsForSelect(),
	})
}

// Update persists an edit.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var vehicle models.Vehicle

	err = s.db.First(&vehicle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	action := fmt.Sprintf("/vehicles/%d/edit", vehicle.ID)

	var form vehicleForm

	err = c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.formError(c, action, "Edit vehicle", "please review the highlighted fields", form)
	}

	updated, msg := s.parseForm(form)
	if msg != "" {
		return s.formError(c, action, "Edit vehicle", msg, form)
	}

	updated.ID = vehicle.ID
	updated.CreatedAt = vehicle.CreatedAt

	err = s.db.Save(&updated).Error
	if err != nil {
		log.Error().Err(err).Msg("updating vehicle")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Vehicle updated")
}

// Delete removes a vehicle.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.db.Delete(&models.Vehicle{}, id).Error
	if err != nil {
		log.Error().Err(err).Msg("deleting vehicle")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Vehicle deleted")
}

func (s *Service) formError(c *fiber.Ctx, action, title, msg string, form vehicleForm) error {
	return handler.Render(c, s.cfg, "vehicle/form", fiber.Map{
		"Title":       title,
		"Action":      action,
		"Error":       msg,
		"Form":        form,
		"Brands":      s.brands(),
		"Dealerships": s.dealershipsForSelect(),
	})
}

func (s *Service) brands() []models.Brand {
	var brands []models.Brand

	err := s.db.Order("name").Find(&brands).Error
	if err != nil {
		log.Error().Err(err).Msg("loading brands for select")
	}

	return brands
}

func (s *Service) dealershipsForSelect() []models.Dealership {
	var dealerships []models.Dealership

	err := s.db.Order("name").Find(&dealerships).Error
	if err != nil {
		log.Error().Err(err).Msg("loading dealerships for select")
	}

	return dealerships
}
