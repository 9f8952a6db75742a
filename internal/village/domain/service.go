package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name             string          `json:"name"`
	ElectricityPrice decimal.Decimal `json:"electricity_price"`
	WaterPrice       decimal.Decimal `json:"water_price"`
	Phases           int             `json:"phases"`
}

type UpdateRequest struct {
	ID               string           `json:"id"`
	Name             *string          `json:"name,omitempty"`
	ElectricityPrice *decimal.Decimal `json:"electricity_price,omitempty"`
	WaterPrice       *decimal.Decimal `json:"water_price,omitempty"`
	Phases           *int             `json:"phases,omitempty"`
}

type Response struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Code             string          `json:"code"`
	ElectricityPrice decimal.Decimal `json:"electricity_price"`
	WaterPrice       decimal.Decimal `json:"water_price"`
	Phases           int             `json:"phases"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidPhases = errors.New("invalid_phases")
	ErrInvalidPrice  = errors.New("invalid_price")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
	ErrHasApartments = errors.New("village_has_apartments")
)
