package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Delete(ctx context.Context, id string) error

	// CheckConsistency recomputes the cached costs of every stored
	// reading from current consumption and village unit prices, and
	// reports rows whose cache no longer matches, without rewriting.
	CheckConsistency(ctx context.Context) ([]Inconsistency, error)
}

type CreateRequest struct {
	ApartmentID      string          `json:"apartment_id"`
	BookingID        string          `json:"booking_id,omitempty"`
	WaterStart       decimal.Decimal `json:"water_start_reading"`
	WaterEnd         decimal.Decimal `json:"water_end_reading"`
	ElectricityStart decimal.Decimal `json:"electricity_start_reading"`
	ElectricityEnd   decimal.Decimal `json:"electricity_end_reading"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	WhoPays          string          `json:"who_pays"`
}

type ListRequest struct {
	ApartmentID string
	WhoPays     string
	From        *time.Time
	To          *time.Time
}

type Response struct {
	ID                     string          `json:"id"`
	ApartmentID            string          `json:"apartment_id"`
	BookingID              *string         `json:"booking_id,omitempty"`
	WaterStart             decimal.Decimal `json:"water_start_reading"`
	WaterEnd               decimal.Decimal `json:"water_end_reading"`
	ElectricityStart       decimal.Decimal `json:"electricity_start_reading"`
	ElectricityEnd         decimal.Decimal `json:"electricity_end_reading"`
	StartDate              time.Time       `json:"start_date"`
	EndDate                time.Time       `json:"end_date"`
	WhoPays                WhoPays         `json:"who_pays"`
	WaterConsumption       decimal.Decimal `json:"water_consumption"`
	ElectricityConsumption decimal.Decimal `json:"electricity_consumption"`
	WaterCost              decimal.Decimal `json:"water_cost"`
	ElectricityCost        decimal.Decimal `json:"electricity_cost"`
	CreatedAt              time.Time       `json:"created_at"`
}

// Inconsistency is one reading whose cached costs disagree with a
// recomputation from current consumption and village prices.
type Inconsistency struct {
	ReadingID               string          `json:"reading_id"`
	ApartmentID             string          `json:"apartment_id"`
	StoredWaterCost         decimal.Decimal `json:"stored_water_cost"`
	ExpectedWaterCost       decimal.Decimal `json:"expected_water_cost"`
	StoredElectricityCost   decimal.Decimal `json:"stored_electricity_cost"`
	ExpectedElectricityCost decimal.Decimal `json:"expected_electricity_cost"`
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidApartment = errors.New("invalid_apartment")
	ErrInvalidBooking   = errors.New("invalid_booking")
	ErrInvalidWhoPays   = errors.New("invalid_who_pays")
	ErrInvalidPeriod    = errors.New("invalid_period")
	ErrReadingDecreased = errors.New("reading_decreased")
	ErrNotFound         = errors.New("not_found")
)
