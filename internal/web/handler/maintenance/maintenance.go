// Package maintenance serves the workshop revision pages. A revision can
// cover several vehicles at once.
package maintenance

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
	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler"
)

const (
	PathList   = "/maintenance"
	PathNew    = "/maintenance/new"
	PathEdit   = "/maintenance/:id/edit"
	PathDelete = "/maintenance/:id/delete"
)

const dateLayout = "2006-01-02"

// Service is the maintenance handler.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the maintenance routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	manage := auth.RequirePermission(authService, auth.PermMaintenanceManage)

	app.Get(PathList, s.List)
	app.Get(PathNew, manage, s.New)
	app.Post(PathNew, manage, s.Create)
	app.Get(PathEdit, manage, s.Edit)
	app.Post(PathEdit, manage, s.Update)
	app.Post(PathDelete, manage, s.Delete)
}

// List renders all revisions, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	var revisions []models.Maintenance

	err := s.db.Preload("Vehicles.Brand").Order("revision_date DESC").Find(&revisions).Error
	if err != nil {
		log.Error().Err(err).Msg("listing maintenance revisions")

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "maintenance/list", fiber.Map{
		"Title":     "Maintenance",
		"Revisions": revisions,
	})
}

type maintenanceForm struct {
	VehicleIDs   []uint `form:"vehicle_ids" validate:"required,min=1"`
	RevisionDate string `form:"revision_date" validate:"required"`
	Mileage      int    `form:"mileage" validate:"required,min=1"`
	Comments     string `form:"comments" validate:"omitempty,max=1000"`
	Cost         string `form:"cost" validate:"required"`
}

func (s *Service) parseForm(form maintenanceForm) (models.Maintenance, string) {
	revisionDate, err := time.Parse(dateLayout, form.RevisionDate)
	if err != nil {
		return models.Maintenance{}, "revision date must be a valid date"
	}

	cost, err := decimal.NewFromString(form.Cost)
	if err != nil || cost.IsNegative() {
		return models.Maintenance{}, "cost must be a non negative number"
	}

	return models.Maintenance{
		RevisionDate: revisionDate,
		Mileage:      form.Mileage,
		Comments:     form.Comments,
		Cost:         cost,
	}, ""
}

func (s *Service) vehiclesByID(ids []uint) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle

	err := s.db.Find(&vehicles, ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "loading vehicles")
	}

	return vehicles, nil
}

// New renders the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return handler.Render(c, s.cfg, "maintenance/form", fiber.Map{
		"Title":    "New revision",
		"Action":   PathNew,
		"Vehicles": s.allVehicles(),
	})
}

// Create inserts a revision with its vehicle links.
func (s *Service) Create(c *fiber.Ctx) error {
	var form maintenanceForm

	err := c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.formError(c, PathNew, "New revision", "please review the highlighted fields")
	}

	revision, msg := s.parseForm(form)
	if msg != "" {
		return s.formError(c, PathNew, "New revision", msg)
	}

	revision.Vehicles, err = s.vehiclesByID(form.VehicleIDs)
	if err != nil {
		log.Error().Err(err).Msg("resolving revision vehicles")

		return fiber.ErrInternalServerError
	}

	if len(revision.Vehicles) == 0 {
		return s.formError(c, PathNew, "New revision", "select at least one vehicle")
	}

	err = s.db.Create(&revision).Error
	if err != nil {
		log.Error().Err(err).Msg("creating revision")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Revision created")
}

// Edit renders the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var revision models.Maintenance

	err = s.db.Preload("Vehicles").First(&revision, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "maintenance/form", fiber.Map{
		"Title":    "Edit revision",
		"Action":   fmt.Sprintf("/maintenance/%d/edit", revision.ID),
		"Revision": revision,
		"Vehicles": s.allVehicles(),
	})
}

// Update persists an edit, replacing the vehicle links.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var revision models.Maintenance

	err = s.db.First(&revision, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	action := fmt.Sprintf("/maintenance/%d/edit", revision.ID)

	var form maintenanceForm

	err = c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.formError(c, action, "Edit revision", "please review the highlighted fields")
	}

	updated, msg := s.parseForm(form)
	if msg != "" {
		return s.formError(c, action, "Edit revision", msg)
	}

	vehicles, err := s.vehiclesByID(form.VehicleIDs)
	if err != nil {
		log.Error().Err(err).Msg("resolving revision vehicles")

		return fiber.ErrInternalServerError
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		revision.RevisionDate = updated.RevisionDate
		revision.Mileage = updated.Mileage
		revision.Comments = updated.Comments
		revision.Cost = updated.Cost

		err := tx.Save(&revision).Error
		if err != nil {
			return err
		}

		return tx.Model(&revision).Association("Vehicles").Replace(vehicles)
	})
	if err != nil {
		log.Error().Err(err).Msg("updating revision")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Revision updated")
}

// Delete removes a revision and its vehicle links.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var revision models.Maintenance

	err = s.db.First(&revision, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&revision).Association("Vehicles").Clear()
		if err != nil {
			return err
		}

		return tx.Delete(&revision).Error
	})
	if err != nil {
		log.Error().Err(err).Msg("deleting revision")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Revision deleted")
}

func (s *Service) formError(c *fiber.Ctx, action, title, msg string) error {
	return handler.Render(c, s.cfg, "maintenance/form", fiber.Map{
		"Title":    title,
		"Action":   action,
		"Error":    msg,
		"Vehicles": s.allVehicles(),
	})
}

func (s *Service) allVehicles() []models.Vehicle {
	var vehicles []models.Vehicle

	err := s.db.Preload("Brand").Order("vehicles.id").Find(&vehicles).Error
	if err != nil {
		log.Error().Err(err).Msg("loading vehicles for select")
	}

	return vehicles
}
