package sales

import "github.com/pkg/errors"

var (
	// ErrVehicleNotFound is returned when the submitted vehicle does not exist.
	ErrVehicleNotFound = errors.New("vehicle not found")
	// ErrVehicleSold is returned when the vehicle already has a sale.
	ErrVehicleSold = errors.New("vehicle is already sold")
	// ErrBuyerHasSale is returned when the buyer already holds a sale.
	ErrBuyerHasSale = errors.New("buyer already has a sale")
	// ErrNoBuyerProfile is returned when a buyer user has no buyer profile.
	ErrNoBuyerProfile = errors.New("no buyer profile for user")
	// ErrDateInFuture is returned when the sale date lies in the future.
	ErrDateInFuture = errors.New("sale date cannot be in the future")
	// ErrInvalidPaymentMethod is returned for unknown payment methods.
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
)
