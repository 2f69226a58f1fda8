// Package policy serves the insurance policy pages. Each policy covers
// exactly one vehicle and can be carried by several insurers.
package policy

import (
	"fmt"

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
	PathList   = "/policies"
	PathNew    = "/policies/new"
	PathEdit   = "/policies/:id/edit"
	PathDelete = "/policies/:id/delete"
)

// Service is the policy handler.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the policy routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	manage := auth.RequirePermission(authService, auth.PermPolicyManage)

	app.Get(PathList, s.List)
	app.Get(PathNew, manage, s.New)
	app.Post(PathNew, manage, s.Create)
	app.Get(PathEdit, manage, s.Edit)
	app.Post(PathEdit, manage, s.Update)
	app.Post(PathDelete, manage, s.Delete)
}

// List renders all policies.
func (s *Service) List(c *fiber.Ctx) error {
	var policies []models.Policy

	err := s.db.Preload("Vehicle.Brand").Preload("Insurers").Order("policies.id").Find(&policies).Error
	if err != nil {
		log.Error().Err(err).Msg("listing policies")

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "policy/list", fiber.Map{
		"Title":    "Policies",
		"Policies": policies,
	})
}

type policyForm struct {
	VehicleID      uint   `form:"vehicle_id" validate:"required"`
	Type           string `form:"type" validate:"required,min=2,max=50"`
	MonthlyPrice   string `form:"monthly_price" validate:"required"`
	DurationMonths int    `form:"duration_months" validate:"required,min=1,max=120"`
	InsurerIDs     []uint `form:"insurer_ids"`
}

func (s *Service) parseForm(form policyForm) (models.Policy, string) {
	price, err := decimal.NewFromString(form.MonthlyPrice)
	if err != nil || !price.IsPositive() {
		return models.Policy{}, "monthly price must be a positive number"
	}

	return models.Policy{
		VehicleID:      form.VehicleID,
		Type:           form.Type,
		MonthlyPrice:   price,
		DurationMonths: form.DurationMonths,
	}, ""
}

func (s *Service) insurers(ids []uint) ([]models.Insurer, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var insurers []models.Insurer

	err := s.db.Find(&insurers, ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "loading insurers")
	}

	return insurers, nil
}

// New renders the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return handler.Render(c, s.cfg, "policy/form", fiber.Map{
		"Title":       "New policy",
		"Action":      PathNew,
		"Vehicles":    s.uninsuredVehicles(0),
		"AllInsurers": s.allInsurers(),
	})
}

// Create inserts a policy. A vehicle can only carry one policy.
func (s *Service) Create(c *fiber.Ctx) error {
	var form policyForm

	err := c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.formError(c, PathNew, "New policy", "please review the highlighted fields", 0)
	}

	policy, msg := s.parseForm(form)
	if msg != "" {
		return s.formError(c, PathNew, "New policy", msg, 0)
	}

	var existing int64

	err = s.db.Model(&models.Policy{}).Where("vehicle_id = ?", policy.VehicleID).Count(&existing).Error
	if err != nil {
		return fiber.ErrInternalServerError
	}

	if existing > 0 {
		return s.formError(c, PathNew, "New policy", "the vehicle already has a policy", 0)
	}

	policy.Insurers, err = s.insurers(form.InsurerIDs)
	if err != nil {
		log.Error().Err(err).Msg("resolving policy insurers")

		return fiber.ErrInternalServerError
	}

	err = s.db.Create(&policy).Error
	if err != nil {
		log.Error().Err(err).Msg("creating policy")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Policy created")
}

// Edit renders the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var policy models.Policy

	err = s.db.Preload("Vehicle.Brand").Preload("Insurers").First(&policy, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "policy/form", fiber.Map{
		"Title":       "Edit policy",
		"Action":      fmt.Sprintf("/policies/%d/edit", policy.ID),
		"Policy":      policy,
		"Vehicles":    s.uninsuredVehicles(policy.VehicleID),
		"AllInsurers": s.allInsurers(),
	})
}

// Update persists an edit, replacing the insurer links.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var policy models.Policy

	err = s.db.First(&policy, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	action := fmt.Sprintf("/policies/%d/edit", policy.ID)

	var form policyForm

	err = c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.formError(c, action, "Edit policy", "please review the highlighted fields", policy.VehicleID)
	}

	updated, msg := s.parseForm(form)
	if msg != "" {
		return s.formError(c, action, "Edit policy", msg, policy.VehicleID)
	}

	insurers, err := s.insurers(form.InsurerIDs)
	if err != nil {
		log.Error().Err(err).Msg("resolving policy insurers")

		return fiber.ErrInternalServerError
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		policy.VehicleID = updated.VehicleID
		policy.Type = updated.Type
		policy.MonthlyPrice = updated.MonthlyPrice
		policy.DurationMonths = updated.DurationMonths

		err := tx.Save(&policy).Error
		if err != nil {
			return err
		}

		return tx.Model(&policy).Association("Insurers").Replace(insurers)
	})
	if err != nil {
		log.Error().Err(err).Msg("updating policy")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Policy updated")
}

// Delete removes a policy and its insurer links.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var policy models.Policy

	err = s.db.First(&policy, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&policy).Association("Insurers").Clear()
		if err != nil {
			return err
		}

		return tx.Delete(&policy).Error
	})
	if err != nil {
		log.Error().Err(err).Msg("deleting policy")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Policy deleted")
}

func (s *Service) formError(c *fiber.Ctx, action, title, msg string, keepVehicleID uint) error {
	return handler.Render(c, s.cfg, "policy/form", fiber.Map{
		"Title":       title,
		"Action":      action,
		"Error":       msg,
		"Vehicles":    s.uninsuredVehicles(keepVehicleID),
		"AllInsurers": s.allInsurers(),
	})
}

// uninsuredVehicles lists vehicles without a policy, plus the vehicle a
// policy under edit already covers.
func (s *Service) uninsuredVehicles(keepID uint) []models.Vehicle {
	var vehicles []models.Vehicle

	query := s.db.Preload("Brand").
		Joins("LEFT JOIN policies ON policies.vehicle_id = vehicles.id").
		Where("policies.id IS NULL")

	if keepID != 0 {
		query = query.Or("vehicles.id = ?", keepID)
	}

	err := query.Order("vehicles.id").Find(&vehicles).Error
	if err != nil {
		log.Error().Err(err).Msg("loading vehicles for select")
	}

	return vehicles
}

func (s *Service) allInsurers() []models.Insurer {
	var insurers []models.Insurer

	err := s.db.Order("name").Find(&insurers).Error
	if err != nil {
		log.Error().Err(err).Msg("loading insurers for select")
	}

	return insurers
}
