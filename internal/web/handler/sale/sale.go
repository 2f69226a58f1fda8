// Package sale serves the sale pages: the recording form with its role
// dependent fields, the scoped search and the totals report.
//
// The recording form never trusts client input for the price. Whatever a
// client submits, the persisted amount is the vehicle's listed price, and a
// buyer user always buys for their own profile.
package sale

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/db/controller/inventory"
	salesctl "github.com/AlphaAutos/AlphaAutos/internal/db/controller/sales"
	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
	"github.com/AlphaAutos/AlphaAutos/internal/web/forms"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler"
	"github.com/AlphaAutos/AlphaAutos/internal/web/session"
)

const (
	PathList    = "/sales"
	PathNew     = "/sales/new"
	PathSummary = "/sales/summary"
	PathDelete  = "/sales/:id/delete"
)

const dateLayout = "2006-01-02"

// Service is the sale handler.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the package level handler instance.
var Handler = Service{}

// Init registers the sale routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage) {
	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	search := auth.RequirePermission(authService, auth.PermSaleSearch)
	create := auth.RequirePermission(authService, auth.PermSaleCreate)
	manage := auth.RequirePermission(authService, auth.PermSaleManage)

	app.Get(PathList, search, s.List)
	app.Get(PathNew, create, s.New)
	app.Post(PathNew, create, s.Create)
	app.Get(PathSummary, manage, s.Summary)
	app.Post(PathDelete, manage, s.Delete)
}

// List renders the sale search page. Buyers only ever see their own sales.
func (s *Service) List(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if sess == nil {
		return fiber.ErrForbidden
	}

	data := fiber.Map{
		"Title":   "Sales",
		"IsBuyer": sess.User.IsBuyer(),
	}

	var form forms.SaleSearch

	err := c.QueryParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	if e := form.Validate(); e.Any() {
		data["Form"] = form
		data["FormErrors"] = e

		return handler.Render(c, s.cfg, "sale/list", data)
	}

	result, err := salesctl.Search(s.db, &sess.User, salesctl.SearchCriteria{
		VehicleModel:  form.VehicleModel,
		BuyerName:     form.BuyerName,
		PaymentMethod: form.PaymentMethod,
	})
	if err != nil {
		log.Error().Err(err).Msg("searching sales")

		return fiber.ErrInternalServerError
	}

	data["Sales"] = result
	data["Form"] = form

	return handler.Render(c, s.cfg, "sale/list", data)
}

type saleForm struct {
	BuyerID       uint   `form:"buyer_id"`
	VehicleID     uint   `form:"vehicle_id" validate:"required"`
	Date          string `form:"date" validate:"required"`
	PaymentMethod string `form:"payment_method" validate:"required,oneof=cash card financing transfer"`
}

// New renders the sale recording form. The vehicle offering and the buyer
// select depend on the acting user's role.
func (s *Service) New(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if sess == nil {
		return fiber.ErrForbidden
	}

	return s.renderForm(c, sess, fiber.Map{})
}

// Create records the sale.
func (s *Service) Create(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if sess == nil {
		return fiber.ErrForbidden
	}

	var form saleForm

	err := c.BodyParser(&form)
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.validate.Struct(form)
	if err != nil {
		return s.renderForm(c, sess, fiber.Map{"Error": "please review the highlighted fields"})
	}

	date, err := time.Parse(dateLayout, form.Date)
	if err != nil {
		return s.renderForm(c, sess, fiber.Map{"Error": "date must be a valid date"})
	}

	if !sess.User.IsBuyer() && form.BuyerID == 0 {
		return s.renderForm(c, sess, fiber.Map{"Error": "select a buyer"})
	}

	sale, err := salesctl.Create(s.db, &sess.User, salesctl.CreateInput{
		BuyerID:       form.BuyerID,
		VehicleID:     form.VehicleID,
		Date:          date,
		PaymentMethod: models.PaymentMethod(form.PaymentMethod),
	})
	if err != nil {
		if userError(err) {
			return s.renderForm(c, sess, fiber.Map{"Error": err.Error()})
		}

		log.Error().Err(err).Msg("recording sale")

		return fiber.ErrInternalServerError
	}

	log.Info().
		Uint("sale_id", sale.ID).
		Uint("vehicle_id", sale.VehicleID).
		Str("username", sess.User.Username).
		Str("final_price", sale.FinalPrice.String()).
		Msg("sale recorded")

	return c.Redirect(PathList + "?success=Sale recorded")
}

// Summary renders the sale totals.
func (s *Service) Summary(c *fiber.Ctx) error {
	summary, err := salesctl.Summarize(s.db)
	if err != nil {
		log.Error().Err(err).Msg("aggregating sales")

		return fiber.ErrInternalServerError
	}

	return handler.Render(c, s.cfg, "sale/summary", fiber.Map{
		"Title":   "Sales summary",
		"Summary": summary,
	})
}

// Delete removes a sale, putting the vehicle back on offer.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}

	err = s.db.Delete(&models.Sale{}, id).Error
	if err != nil {
		log.Error().Err(err).Msg("deleting sale")

		return fiber.ErrInternalServerError
	}

	return c.Redirect(PathList + "?success=Sale deleted")
}

func (s *Service) renderForm(c *fiber.Ctx, sess *session.Data, data fiber.Map) error {
	vehicles, err := inventory.OfferedForSale(s.db, sess.User.RoleName())
	if err != nil {
		log.Error().Err(err).Msg("loading vehicle offering")

		return fiber.ErrInternalServerError
	}

	data["Title"] = "Record sale"
	data["Action"] = PathNew
	data["Vehicles"] = vehicles
	data["IsBuyer"] = sess.User.IsBuyer()
	data["Today"] = time.Now().Format(dateLayout)

	if !sess.User.IsBuyer() {
		var buyers []models.Buyer

		err = s.db.Preload("User").
			Joins("LEFT JOIN sales ON sales.buyer_id = buyers.id").
			Where("sales.id IS NULL").
			Find(&buyers).Error
		if err != nil {
			log.Error().Err(err).Msg("loading buyers for select")

			return fiber.ErrInternalServerError
		}

		data["Buyers"] = buyers
	}

	return handler.Render(c, s.cfg, "sale/form", data)
}

func userError(err error) bool {
	switch {
	case errors.Is(err, salesctl.ErrVehicleNotFound),
		errors.Is(err, salesctl.ErrVehicleSold),
		errors.Is(err, salesctl.ErrBuyerHasSale),
		errors.Is(err, salesctl.ErrNoBuyerProfile),
		errors.Is(err, salesctl.ErrDateInFuture),
		errors.Is(err, salesctl.ErrInvalidPaymentMethod):
		return true
	}

	return false
}
