// Package employee serves the employee pages.
package employee

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
	"github.com/AlphaAutos/AlphaAutos/internal/web/forms"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler"
)

const (
	PathList   = "/employees"
	PathNew    = "/employees/new"
	PathDetail = "/employees/:id"
	PathEdit   = "/employees/:id/edit"
	PathDelete = "/employees/:id/delete"
)

const dateLayout = "2006-01-02"

// Service is the employee handler.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the employee routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	manage := auth.RequirePermission(authService, auth.PermEmployeeManage)

	app.Get(PathList, s.List)
	app.Get(PathNew, manage, s.New)
	app.Post(PathNew, manage, s.Create)
	app.Get(PathDetail, s.Detail)
	app.Get(PathEdit, manage, s.Edit)
	app.Post(PathEdit, manage, s.Update)
	app.Post(PathDelete, manage, s.Delete)
}

// List renders the employee list with optional search filters.
func (s *Service) List(c *fiber.Ctx) error {
	data := fiber.Map{"Title": "Employees"}

	query := s.db.Model(&models.Employee{}).Preload("Dealership").Order("name")

	var form forms.EmployeeSearch

	err := c.QueryParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	searched := forms.WasSubmitted(c)
	if searched {
		if e := form.Validate(); e.Any() {
			data["Form"] = form
			data["FormErrors"] = e
			data["Dealerships"] = s.dealerships()

			return handler.Render(c, s.cfg, "employee/list", data)
		}

		if form.Name != "" {
			query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+form.Name+"%")
		}
		if form.Position != "" {
			query = query.Where("LOWER(position) LIKE LOWER(?)", "%"+form.Position+"%")
		}
		if form.HasDealershipID {
			query = query.Where("dealership_id = ?", form.ParsedDealershipID)
		}
	}

	var employees []models.Employee

	err = query.Find(&employees).Error
	if err != nil {
		log.Error().Err(err).Msg("listing employees")

		return fiber.ErrInternalServerError
	}

	data["Employees"] = employees
	data["Form"] = form
	data["Searched"] = searched
	data["Dealerships"] = s.dealerships()

	return handler.Render(c, s.cfg, "employee/list", data)
}

// Detail renders one employee.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var employee models.Employee

	err = s.db.Preload("Dealership").First(&employee, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Msg("loading employee")

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "employee/detail", fiber.Map{
		"Title":    employee.Name,
		"Employee": employee,
	})
}

type employeeForm struct {
	DealershipID uint   `form:"dealership_id" validate:"required"`
	Name         string `form:"name" validate:"required,min=2,max=100"`
	Position     string `form:"position" validate:"required,min=2,max=50"`
	Salary       string `form:"salary" validate:"required"`
	HireDate     string `form:"hire_date" validate:"required"`
}

func (s *Service) parseForm(form employeeForm) (models.Employee, string) {
	salary, err := decimal.NewFromString(form.Salary)
	if err != nil || salary.IsNegative() {
		return models.Employee{}, "salary must be a positive number"
	}

	hireDate, err := time.Parse(dateLayout, form.HireDate)
	if err != nil {
		return models.Employee{}, "hire date must be a valid date"
	}

	if hireDate.After(time.Now()) {
		return models.Employee{}, "hire date cannot be in the future"
	}

	return models.Employee{
		DealershipID: form.DealershipID,
		Name:         form.Name,
		Position:     form.Position,
		Salary:       salary,
		HireDate:     hireDate,
	}, ""
}

// New renders the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return handler.Render(c, s.cfg, "employee/form", fiber.Map{
		"Title":       "New employee",
		"Action":      PathNew,
		"Dealerships": s.dealerships(),
	})
}

// Create inserts an employee.
func (s *Service) Create(c *fiber.Ctx) error {
	var form employeeForm

	err := c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.formError(c, PathNew, "New employee", "please review the highlighted fields", form)
	}

	employee, msg := s.parseForm(form)
	if msg != "" {
		return s.formError(c, PathNew, "New employee", msg, form)
	}

	err = s.db.Create(&employee).Error
	if err != nil {
		log.Error().Err(err).Msg("creating employee")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Employee created")
}

// Edit renders the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var employee models.Employee

	err = s.db.First(&employee, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "employee/form", fiber.Map{
		"Title":       "Edit employee",
		"Action":      fmt.Sprintf("/employees/%d/edit", employee.ID),
		"Employee":    employee,
		"Dealerships": s.dealerships(),
	})
}

// Update persists an edit.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	var employee models.Employee

	err = s.db.First(&employee, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}

		return fiber.ErrInternalServerError
	}

	action := fmt.Sprintf("/employees/%d/edit", employee.ID)

	var form employeeForm

	err = c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.formError(c, action, "Edit employee", "please review the highlighted fields", form)
	}

	updated, msg := s.parseForm(form)
	if msg != "" {
		return s.formError(c, action, "Edit employee", msg, form)
	}

	updated.ID = employee.ID
	updated.CreatedAt = employee.CreatedAt

	err = s.db.Save(&updated).Error
	if err != nil {
		log.Error().Err(err).Msg("updating employee")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Employee updated")
}

// Delete removes an employee.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.db.Delete(&models.Employee{}, id).Error
	if err != nil {
		log.Error().Err(err).Msg("deleting employee")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Employee deleted")
}

func (s *Service) formError(c *fiber.Ctx, action, title, msg string, form employeeForm) error {
	return handler.Render(c, s.cfg, "employee/form", fiber.Map{
		"Title":       title,
		"Action":      action,
		"Error":       msg,
		"Form":        form,
		"Dealerships": s.dealerships(),
	})
}

func (s *Service) dealerships() []models.Dealership {
	var dealerships []models.Dealership

	err := s.db.Order("name").Find(&dealerships).Error
	if err != nil {
		log.Error().Err(err).Msg("loading dealerships for select")
	}

	return dealerships
}
