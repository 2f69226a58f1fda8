package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// maxVehiclePrice is the upper bound accepted for the vehicle price filter.
var maxVehiclePrice = decimal.NewFromInt(10_000_000)

// VehicleSearch filters the vehicle catalogue.
type VehicleSearch struct {
	Brand    string `query:"brand" form:"brand"`
	Model    string `query:"model" form:"model"`
	MaxPrice string `query:"max_price" form:"max_price"`

	// ParsedMaxPrice is set by Validate when MaxPrice holds a valid number.
	ParsedMaxPrice decimal.Decimal
	HasMaxPrice    bool
}

// Validate checks the filters and parses the price bound.
func (f *VehicleSearch) Validate() Errors {
	e := Errors{}

	f.Brand = strings.TrimSpace(f.Brand)
	f.Model = strings.TrimSpace(f.Model)
	f.MaxPrice = strings.TrimSpace(f.MaxPrice)

	requireAnyCriterion(e,
		criterion{"brand", f.Brand},
		criterion{"model", f.Model},
		criterion{"max_price", f.MaxPrice},
	)

	if f.Model != "" && !modelCharset(f.Model) {
		e.Add("model", "model may only contain letters, digits, spaces, hyphens, underscores and dots")
	}

	if f.MaxPrice != "" {
		price, err := decimal.NewFromString(f.MaxPrice)
		switch {
		case err != nil:
			e.Add("max_price", "maximum price must be a number")
		case price.IsNegative() || price.IsZero():
			e.Add("max_price", "maximum price must be positive")
		case price.GreaterThan(maxVehiclePrice):
			e.Add("max_price", "maximum price is unrealistically high")
		default:
			f.ParsedMaxPrice = price
			f.HasMaxPrice = true
		}
	}

	return e
}

// DealershipSearch filters the dealership list.
type DealershipSearch struct {
	Name  string `query:"name" form:"name"`
	City  string `query:"city" form:"city"`
	Phone string `query:"phone" form:"phone"`
}

// Validate checks the filters.
func (f *DealershipSearch) Validate() Errors {
	e := Errors{}

	f.Name = strings.TrimSpace(f.Name)
	f.City = strings.TrimSpace(f.City)
	f.Phone = strings.TrimSpace(f.Phone)

	requireAnyCriterion(e,
		criterion{"name", f.Name},
		criterion{"city", f.City},
		criterion{"phone", f.Phone},
	)

	if f.Name != "" && len(f.Name) < 2 {
		e.Add("name", "name must be at least 2 characters")
	}

	if f.City != "" && len(f.City) < 2 {
		e.Add("city", "city must be at least 2 characters")
	}

	if f.Phone != "" {
		if !digitsOnly(f.Phone) {
			e.Add("phone", "phone may only contain digits")
		} else if len(f.Phone) < 7 {
			e.Add("phone", "phone must be at least 7 digits")
		}
	}

	return e
}

// BrandSearch filters the brand list.
type BrandSearch struct {
	Name          string `query:"name" form:"name"`
	OriginCountry string `query:"origin_country" form:"origin_country"`
	FoundingYear  string `query:"founding_year" form:"founding_year"`

	ParsedFoundingYear int
	HasFoundingYear    bool
}

// Validate checks the filters and parses the founding year.
func (f *BrandSearch) Validate() Errors {
	e := Errors{}

	f.Name = strings.TrimSpace(f.Name)
	f.OriginCountry = strings.TrimSpace(f.OriginCountry)
	f.FoundingYear = strings.TrimSpace(f.FoundingYear)

	requireAnyCriterion(e,
		criterion{"name", f.Name},
		criterion{"origin_country", f.OriginCountry},
		criterion{"founding_year", f.FoundingYear},
	)

	if f.Name != "" {
		if len(f.Name) < 2 {
			e.Add("name", "name must be at least 2 characters")
		} else if !lettersOnly(f.Name) {
			e.Add("name", "name may only contain letters")
		}
	}

	if f.OriginCountry != "" && hasDigit(f.OriginCountry) {
		e.Add("origin_country", "country may not contain digits")
	}

	if f.FoundingYear != "" {
		year, err := strconv.Atoi(f.FoundingYear)
		switch {
		case err != nil:
			e.Add("founding_year", "founding year must be a number")
		case year < 1900 || year > time.Now().Year():
			e.Add("founding_year", "founding year must be between 1900 and the current year")
		default:
			f.ParsedFoundingYear = year
			f.HasFoundingYear = true
		}
	}

	return e
}

// EmployeeSearch filters the employee list.
type EmployeeSearch struct {
	Name         string `query:"name" form:"name"`
	Position     string `query:"position" form:"position"`
	DealershipID string `query:"dealership_id" form:"dealership_id"`

	ParsedDealershipID uint
	HasDealershipID    bool
}

// Validate checks the filters and parses the dealership identifier.
func (f *EmployeeSearch) Validate() Errors {
	e := Errors{}

	f.Name = strings.TrimSpace(f.Name)
	f.Position = strings.TrimSpace(f.Position)
	f.DealershipID = strings.TrimSpace(f.DealershipID)

	requireAnyCriterion(e,
		criterion{"name", f.Name},
		criterion{"position", f.Position},
		criterion{"dealership_id", f.DealershipID},
	)

	if f.Name != "" {
		if len(f.Name) < 2 {
			e.Add("name", "name must be at least 2 characters")
		} else if hasDigit(f.Name) {
			e.Add("name", "name may not contain digits")
		}
	}

	if f.Position != "" {
		if len(f.Position) < 2 {
			e.Add("position", "position must be at least 2 characters")
		} else if len(f.Position) > 50 {
			e.Add("position", "position must be at most 50 characters")
		}
	}

	if f.DealershipID != "" {
		id, err := strconv.ParseUint(f.DealershipID, 10, 32)
		if err != nil || id == 0 {
			e.Add("dealership_id", "dealership must be a valid selection")
		} else {
			f.ParsedDealershipID = uint(id)
			f.HasDealershipID = true
		}
	}

	return e
}

// BuyerSearch filters the buyer list.
type BuyerSearch struct {
	Username string `query:"username" form:"username"`
	Phone    string `query:"phone" form:"phone"`
	Email    string `query:"email" form:"email"`
}

// Validate checks the filters.
func (f *BuyerSearch) Validate() Errors {
	e := Errors{}

	f.Username = strings.TrimSpace(f.Username)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)

	requireAnyCriterion(e,
		criterion{"username", f.Username},
		criterion{"phone", f.Phone},
		criterion{"email", f.Email},
	)

	if f.Username != "" && len(f.Username) < 2 {
		e.Add("username", "username must be at least 2 characters")
	}

	if f.Phone != "" && !digitsOnly(f.Phone) {
		e.Add("phone", "phone may only contain digits")
	}

	if f.Email != "" && !strings.Contains(f.Email, "@") {
		e.Add("email", "email must contain an @")
	}

	return e
}

// InsurerSearch filters the insurer list.
type InsurerSearch struct {
	Name    string `query:"name" form:"name"`
	Country string `query:"country" form:"country"`
	Phone   string `query:"phone" form:"phone"`
}

// Validate checks the filters.
func (f *InsurerSearch) Validate() Errors {
	e := Errors{}

	f.Name = strings.TrimSpace(f.Name)
	f.Country = strings.TrimSpace(f.Country)
	f.Phone = strings.TrimSpace(f.Phone)

	requireAnyCriterion(e,
		criterion{"name", f.Name},
		criterion{"country", f.Country},
		criterion{"phone", f.Phone},
	)

	if f.Name != "" && len(f.Name) < 2 {
		e.Add("name", "name must be at least 2 characters")
	}

	if f.Country != "" && hasDigit(f.Country) {
		e.Add("country", "country may not contain digits")
	}

	if f.Phone != "" && !digitsOnly(f.Phone) {
		e.Add("phone", "phone may only contain digits")
	}

	return e
}

// SaleSearch filters the sale list. All fields are optional; an empty form
// simply lists everything the user may see, so there is no minimum
// criterion rule here.
type SaleSearch struct {
	VehicleModel  string `query:"vehicle_model" form:"vehicle_model"`
	BuyerName     string `query:"buyer_name" form:"buyer_name"`
	PaymentMethod string `query:"payment_method" form:"payment_method"`
}

// Validate normalizes the filters.
func (f *SaleSearch) Validate() Errors {
	e := Errors{}

	f.VehicleModel = strings.TrimSpace(f.VehicleModel)
	f.BuyerName = strings.TrimSpace(f.BuyerName)
	f.PaymentMethod = strings.TrimSpace(f.PaymentMethod)

	if f.VehicleModel != "" && !modelCharset(f.VehicleModel) {
		e.Add("vehicle_model", "model may only contain letters, digits, spaces, hyphens, underscores and dots")
	}

	return e
}
