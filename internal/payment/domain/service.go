package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/villagiolabs/villagio/internal/currency"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Delete(ctx context.Context, id string) error

	CreateMethod(ctx context.Context, name string) (*MethodResponse, error)
	ListMethods(ctx context.Context) ([]MethodResponse, error)
	DeleteMethod(ctx context.Context, id string) error
}

type CreateRequest struct {
	ApartmentID string          `json:"apartment_id"`
	BookingID   string          `json:"booking_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	MethodID    string          `json:"method_id"`
	UserType    string          `json:"user_type"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
}

type ListRequest struct {
	ApartmentID string
	UserType    string
	From        *time.Time
	To          *time.Time
}

type Response struct {
	ID          string            `json:"id"`
	ApartmentID string            `json:"apartment_id"`
	BookingID   *string           `json:"booking_id,omitempty"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    currency.Currency `json:"currency"`
	MethodID    string            `json:"method_id"`
	UserType    PayerType         `json:"user_type"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type MethodResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidApartment = errors.New("invalid_apartment")
	ErrInvalidBooking   = errors.New("invalid_booking")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidMethod    = errors.New("invalid_method")
	ErrInvalidUserType  = errors.New("invalid_user_type")
	ErrInvalidDate      = errors.New("invalid_date")
	ErrInvalidName      = errors.New("invalid_name")
	ErrNotFound         = errors.New("not_found")
	ErrMethodInUse      = errors.New("method_in_use")
)
