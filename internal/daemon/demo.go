package daemon

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
)

// demoPassword is the password of every generated demo account.
const demoPassword = "demo1234"

// SeedDemo fills the database with generated demo data: dealerships,
// brands, vehicles, buyer accounts, insurers with policies, maintenance
// revisions and sales for roughly half of the stock.
func SeedDemo(cfg *config.Config, count int) error {
	db, err := OpenDB(&cfg.DB)
	if err != nil {
		return err
	}

	err = Migrate(db)
	if err != nil {
		return err
	}

	err = Seed(db)
	if err != nil {
		return err
	}

	if count <= 0 {
		count = 10
	}

	faker := gofakeit.New(0)

	return db.Transaction(func(tx *gorm.DB) error {
		dealerships, err := demoDealerships(tx, faker, count)
		if err != nil {
			return err
		}

		brands, err := demoBrands(tx, faker, count)
		if err != nil {
			return err
		}

		err = demoEmployees(tx, faker, dealerships, count)
		if err != nil {
			return err
		}

		vehicles, err := demoVehicles(tx, faker, brands, dealerships, count)
		if err != nil {
			return err
		}

		buyers, err := demoBuyers(tx, faker, count)
		if err != nil {
			return err
		}

		insurers, err := demoInsurers(tx, faker, count)
		if err != nil {
			return err
		}

		err = demoPolicies(tx, faker, vehicles, insurers)
		if err != nil {
			return err
		}

		err = demoMaintenance(tx, faker, vehicles, count)
		if err != nil {
			return err
		}

		err = demoSales(tx, faker, vehicles, buyers)
		if err != nil {
			return err
		}

		log.Info().Int("count", count).Msg("demo data generated")

		return nil
	})
}

func yearsAgo(n int) time.Time {
	return time.Now().AddDate(-n, 0, 0)
}

func demoDealerships(tx *gorm.DB, faker *gofakeit.Faker, count int) ([]models.Dealership, error) {
	dealerships := make([]models.Dealership, 0, count)

	for i := 0; i < count; i++ {
		dealership := models.Dealership{
			Name:    fmt.Sprintf("AlphaAutos %s", faker.City()),
			Address: faker.Street(),
			City:    faker.City(),
			Phone:   faker.Numerify("#########"),
		}

		err := tx.Create(&dealership).Error
		if err != nil {
			return nil, errors.Wrap(err, "seeding dealerships")
		}

		dealerships = append(dealerships, dealership)
	}

	return dealerships, nil
}

func demoBrands(tx *gorm.DB, faker *gofakeit.Faker, count int) ([]models.Brand, error) {
	brands := make([]models.Brand, 0, count)

	for i := 0; i < count; i++ {
		year := faker.Number(1900, 2000)

		brand := models.Brand{
			Name:          fmt.Sprintf("%s Motors %d", faker.LastName(), i),
			OriginCountry: faker.Country(),
			FoundingYear:  &year,
			Description:   faker.Sentence(8),
		}

		err := tx.Create(&brand).Error
		if err != nil {
			return nil, errors.Wrap(err, "seeding brands")
		}

		brands = append(brands, brand)
	}

	return brands, nil
}

func demoEmployees(tx *gorm.DB, faker *gofakeit.Faker, dealerships []models.Dealership, count int) error {
	positions := []string{"salesperson", "mechanic", "manager", "receptionist"}

	for i := 0; i < count; i++ {
		employee := models.Employee{
			DealershipID: dealerships[faker.Number(0, len(dealerships)-1)].ID,
			Name:         faker.Name(),
			Position:     positions[faker.Number(0, len(positions)-1)],
			Salary:       decimal.NewFromInt(int64(faker.Number(18000, 60000))),
			HireDate:     faker.DateRange(yearsAgo(10), yearsAgo(0)),
		}

		err := tx.Create(&employee).Error
		if err != nil {
			return errors.Wrap(err, "seeding employees")
		}
	}

	return nil
}

func demoVehicles(tx *gorm.DB, faker *gofakeit.Faker, brands []models.Brand, dealerships []models.Dealership, count int) ([]models.Vehicle, error) {
	vehicles := make([]models.Vehicle, 0, count)

	for i := 0; i < count; i++ {
		transmission := models.TransmissionManual
		if faker.Bool() {
			transmission = models.TransmissionAutomatic
		}

		vehicle := models.Vehicle{
			BrandID:         brands[faker.Number(0, len(brands)-1)].ID,
			DealershipID:    dealerships[faker.Number(0, len(dealerships)-1)].ID,
			Model:           faker.CarModel(),
			Price:           decimal.NewFromInt(int64(faker.Number(8000, 60000))),
			Transmission:    transmission,
			ManufactureDate: faker.DateRange(yearsAgo(8), yearsAgo(0)),
		}

		err := tx.Create(&vehicle).Error
		if err != nil {
			return nil, errors.Wrap(err, "seeding vehicles")
		}

		vehicles = append(vehicles, vehicle)
	}

	return vehicles, nil
}

func demoBuyers(tx *gorm.DB, faker *gofakeit.Faker, count int) ([]models.Buyer, error) {
	var buyerRole models.Role

	err := tx.Where("name = ?", string(models.RoleBuyer)).First(&buyerRole).Error
	if err != nil {
		return nil, errors.Wrap(err, "loading buyer role")
	}

	password := models.HashPassword(demoPassword)
	buyers := make([]models.Buyer, 0, count)

	for i := 0; i < count; i++ {
		user := models.User{
			Active:   true,
			Username: fmt.Sprintf("%s%d", faker.Username(), i),
			Email:    faker.Email(),
			Password: password,
			RoleID:   buyerRole.ID,
		}

		err = tx.Create(&user).Error
		if err != nil {
			return nil, errors.Wrap(err, "seeding buyer accounts")
		}

		buyer := models.Buyer{
			UserID: user.ID,
			Phone:  faker.Numerify("#########"),
		}

		err = tx.Create(&buyer).Error
		if err != nil {
			return nil, errors.Wrap(err, "seeding buyer profiles")
		}

		buyers = append(buyers, buyer)
	}

	return buyers, nil
}

func demoInsurers(tx *gorm.DB, faker *gofakeit.Faker, count int) ([]models.Insurer, error) {
	insurers := make([]models.Insurer, 0, count)

	for i := 0; i < count; i++ {
		insurer := models.Insurer{
			Name:    fmt.Sprintf("%s Insurance %d", faker.LastName(), i),
			Country: faker.Country(),
			Phone:   faker.Numerify("#########"),
			Website: faker.URL(),
		}

		err := tx.Create(&insurer).Error
		if err != nil {
			return nil, errors.Wrap(err, "seeding insurers")
		}

		insurers = append(insurers, insurer)
	}

	return insurers, nil
}

func demoPolicies(tx *gorm.DB, faker *gofakeit.Faker, vehicles []models.Vehicle, insurers []models.Insurer) error {
	types := []string{"third party", "third party extended", "comprehensive"}

	for _, vehicle := range vehicles {
		policy := models.Policy{
			VehicleID:      vehicle.ID,
			Type:           types[faker.Number(0, len(types)-1)],
			MonthlyPrice:   decimal.NewFromInt(int64(faker.Number(30, 200))),
			DurationMonths: faker.Number(6, 48),
			Insurers: []models.Insurer{
				insurers[faker.Number(0, len(insurers)-1)],
			},
		}

		err := tx.Create(&policy).Error
		if err != nil {
			return errors.Wrap(err, "seeding policies")
		}
	}

	return nil
}

func demoMaintenance(tx *gorm.DB, faker *gofakeit.Faker, vehicles []models.Vehicle, count int) error {
	for i := 0; i < count; i++ {
		revision := models.Maintenance{
			RevisionDate: faker.DateRange(yearsAgo(3), yearsAgo(0)),
			Mileage:      faker.Number(1000, 200000),
			Comments:     faker.Sentence(10),
			Cost:         decimal.NewFromInt(int64(faker.Number(50, 2000))),
			Vehicles: []models.Vehicle{
				vehicles[faker.Number(0, len(vehicles)-1)],
			},
		}

		err := tx.Create(&revision).Error
		if err != nil {
			return errors.Wrap(err, "seeding maintenance revisions")
		}
	}

	return nil
}

// demoSales sells roughly half of the stock, one vehicle per buyer. The
// final price is always the vehicle's listed price.
func demoSales(tx *gorm.DB, faker *gofakeit.Faker, vehicles []models.Vehicle, buyers []models.Buyer) error {
	methods := []models.PaymentMethod{
		models.PaymentCash,
		models.PaymentCard,
		models.PaymentFinancing,
		models.PaymentTransfer,
	}

	n := len(vehicles) / 2
	if n > len(buyers) {
		n = len(buyers)
	}

	for i := 0; i < n; i++ {
		sale := models.Sale{
			BuyerID:       buyers[i].ID,
			VehicleID:     vehicles[i].ID,
			Date:          faker.DateRange(yearsAgo(2), yearsAgo(0)),
			FinalPrice:    vehicles[i].Price,
			PaymentMethod: methods[faker.Number(0, len(methods)-1)],
		}

		err := tx.Create(&sale).Error
		if err != nil {
			return errors.Wrap(err, "seeding sales")
		}
	}

	return nil
}
