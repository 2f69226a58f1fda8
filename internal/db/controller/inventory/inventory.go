// Package inventory holds the vehicle catalogue queries shared by the web
// handlers, including the role aware sale offering.
package inventory

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
)

// OfferedForSale returns the vehicles a user with the given role may pick
// when recording a sale. Administrators see the whole catalogue, sold
// vehicles included; everybody else only sees vehicles without a sale.
func OfferedForSale(db *gorm.DB, role models.RoleName) ([]models.Vehicle, error) {
	if role == models.RoleAdmin {
		var vehicles []models.Vehicle

		err := db.Preload("Brand").Order("vehicles.id").Find(&vehicles).Error
		if err != nil {
			return nil, errors.Wrap(err, "selecting vehicle catalogue")
		}

		return vehicles, nil
	}

	return Available(db)
}

// Available returns all vehicles that no sale references yet.
func Available(db *gorm.DB) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle

	err := db.Preload("Brand").
		Joins("LEFT JOIN sales ON sales.vehicle_id = vehicles.id").
		Where("sales.id IS NULL").
		Order("vehicles.id").
		Find(&vehicles).Error
	if err != nil {
		return nil, errors.Wrap(err, "selecting available vehicles")
	}

	return vehicles, nil
}

// ByManufacture returns the vehicles manufactured in the given year and
// month, newest first. The filter is a half open date range so it works the
// same on every supported engine.
func ByManufacture(db *gorm.DB, year, month int) ([]models.Vehicle, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 1, 0)

	var vehicles []models.Vehicle

	err := db.Preload("Brand").Preload("Dealership").
		Where("manufacture_date >= ? AND manufacture_date < ?", from, until).
		Order("manufacture_date DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, errors.Wrap(err, "selecting vehicles by manufacture date")
	}

	return vehicles, nil
}

// ByTransmission returns vehicles with the given transmission or a manual
// gearbox, ordered by price.
func ByTransmission(db *gorm.DB, kind models.Transmission) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle

	err := db.Preload("Brand").
		Where("transmission = ? OR transmission = ?", kind, models.TransmissionManual).
		Order("price").
		Find(&vehicles).Error
	if err != nil {
		return nil, errors.Wrap(err, "selecting vehicles by transmission")
	}

	return vehicles, nil
}

// ByDealershipModel returns the vehicles of one dealership whose model
// contains the given fragment, case insensitively.
func ByDealershipModel(db *gorm.DB, dealershipID uint, model string) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle

	query := db.Preload("Brand").Where("dealership_id = ?", dealershipID)
	if model != "" {
		query = query.Where("LOWER(model) LIKE LOWER(?)", "%"+model+"%")
	}

	err := query.Order("vehicles.id").Find(&vehicles).Error
	if err != nil {
		return nil, errors.Wrap(err, "selecting dealership vehicles")
	}

	return vehicles, nil
}

// LatestBuyer returns the buyer of the most recent sale of the given
// vehicle, or nil when the vehicle has never been sold.
func LatestBuyer(db *gorm.DB, vehicleID uint) (*models.Buyer, error) {
	var sale models.Sale

	err := db.Preload("Buyer.User").Where("vehicle_id = ?", vehicleID).
		Order("date DESC, id DESC").First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "selecting latest sale")
	}

	return &sale.Buyer, nil
}
