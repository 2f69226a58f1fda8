// Package sales implements the sale recording workflow and the role scoped
// sale search.
package sales

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
)

// CreateInput is what a handler passes to Create. FinalPrice is absent on
// purpose: the persisted price always comes from the vehicle row.
type CreateInput struct {
	BuyerID       uint
	VehicleID     uint
	Date          time.Time
	PaymentMethod models.PaymentMethod
}

// Create records a sale on behalf of the acting user. Buyers can only buy
// for themselves, so for them the buyer from the input is ignored and the
// actor's own buyer profile is used instead. The final price is copied from
// the vehicle regardless of anything the client submitted.
func Create(db *gorm.DB, actor *models.User, in CreateInput) (*models.Sale, error) {
	if !in.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	if in.Date.After(endOfToday()) {
		return nil, ErrDateInFuture
	}

	var sale *models.Sale

	err := db.Transaction(func(tx *gorm.DB) error {
		var vehicle models.Vehicle

		err := tx.First(&vehicle, in.VehicleID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVehicleNotFound
			}

			return errors.Wrap(err, "loading vehicle")
		}

		// Admins see sold vehicles in the offering and may record a
		// resale; everyone else is limited to available stock.
		if !actor.IsAdmin() {
			var soldCount int64

			err = tx.Model(&models.Sale{}).Where("vehicle_id = ?", vehicle.ID).Count(&soldCount).Error
			if err != nil {
				return errors.Wrap(err, "checking vehicle sale state")
			}

			if soldCount > 0 {
				return ErrVehicleSold
			}
		}

		buyerID := in.BuyerID
		if actor.IsBuyer() {
			var buyer models.Buyer

			err = tx.Where("user_id = ?", actor.ID).First(&buyer).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNoBuyerProfile
				}

				return errors.Wrap(err, "loading buyer profile")
			}

			buyerID = buyer.ID
		}

		var existing int64

		err = tx.Model(&models.Sale{}).Where("buyer_id = ?", buyerID).Count(&existing).Error
		if err != nil {
			return errors.Wrap(err, "checking buyer sale state")
		}

		if existing > 0 {
			return ErrBuyerHasSale
		}

		sale = &models.Sale{
			BuyerID:       buyerID,
			VehicleID:     vehicle.ID,
			Date:          in.Date,
			FinalPrice:    vehicle.Price,
			PaymentMethod: in.PaymentMethod,
		}

		err = tx.Create(sale).Error
		if err != nil {
			return errors.Wrap(err, "inserting sale")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

// SearchCriteria are the optional sale search filters. All string filters
// are case insensitive substring matches.
type SearchCriteria struct {
	VehicleModel  string
	BuyerName     string
	PaymentMethod string
}

// Search returns sales matching the criteria. The buyer scope is applied
// before any filter: buyers only ever see their own sales, and the buyer
// name filter is ignored for them.
func Search(db *gorm.DB, actor *models.User, criteria SearchCriteria) ([]models.Sale, error) {
	query := db.Model(&models.Sale{}).
		Preload("Vehicle.Brand").
		Preload("Buyer.User").
		Joins("JOIN vehicles ON vehicles.id = sales.vehicle_id").
		Joins("JOIN buyers ON buyers.id = sales.buyer_id").
		Joins("JOIN users ON users.id = buyers.user_id")

	if actor.IsBuyer() {
		query = query.Where("buyers.user_id = ?", actor.ID)
		criteria.BuyerName = ""
	}

	if criteria.VehicleModel != "" {
		query = query.Where("LOWER(vehicles.model) LIKE LOWER(?)", "%"+criteria.VehicleModel+"%")
	}

	if criteria.BuyerName != "" {
		query = query.Where("LOWER(users.username) LIKE LOWER(?)", "%"+criteria.BuyerName+"%")
	}

	if criteria.PaymentMethod != "" {
		query = query.Where("LOWER(sales.payment_method) LIKE LOWER(?)", "%"+criteria.PaymentMethod+"%")
	}

	var result []models.Sale

	err := query.Order("sales.date DESC, sales.id DESC").Find(&result).Error
	if err != nil {
		return nil, errors.Wrap(err, "searching sales")
	}

	return result, nil
}

// Summary aggregates all sales for the reporting page.
type Summary struct {
	Count   int64
	Total   decimal.Decimal
	Average decimal.Decimal
	Highest decimal.Decimal
	Lowest  decimal.Decimal
}

// Summarize computes the sale totals over the whole sales table.
func Summarize(db *gorm.DB) (*Summary, error) {
	var row struct {
		Count   int64
		Total   decimal.NullDecimal
		Average decimal.NullDecimal
		Highest decimal.NullDecimal
		Lowest  decimal.NullDecimal
	}

	err := db.Model(&models.Sale{}).
		Select("COUNT(*) AS count, SUM(final_price) AS total, AVG(final_price) AS average, MAX(final_price) AS highest, MIN(final_price) AS lowest").
		Scan(&row).Error
	if err != nil {
		return nil, errors.Wrap(err, "aggregating sales")
	}

	return &Summary{
		Count:   row.Count,
		Total:   row.Total.Decimal,
		Average: row.Average.Decimal,
		Highest: row.Highest.Decimal,
		Lowest:  row.Lowest.Decimal,
	}, nil
}

func endOfToday() time.Time {
	now := time.Now()

	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
}
