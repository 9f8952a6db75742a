package domain

import (
	"context"
	"errors"
	"time"

	servicetypedomain "github.com/villagiolabs/villagio/internal/servicetype/domain"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	TypeID      string     `json:"type_id"`
	ApartmentID string     `json:"apartment_id"`
	BookingID   string     `json:"booking_id,omitempty"`
	RequesterID string     `json:"requester_id"`
	WhoPays     string     `json:"who_pays"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	DateAction  *time.Time `json:"date_action,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type UpdateRequest struct {
	ID         string     `json:"id"`
	Status     *string    `json:"status,omitempty"`
	AssigneeID *string    `json:"assignee_id,omitempty"`
	DateAction *time.Time `json:"date_action,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

type ListRequest struct {
	ApartmentID string
	Status      string
	WhoPays     string
}

// Response carries the cost resolved through the apartment's village
// price at read time. Cost is nil when the caller listed requests
// without pricing (a pricing gap in a listing is reported, not fatal).
type Response struct {
	ID          string                    `json:"id"`
	TypeID      string                    `json:"type_id"`
	TypeName    string                    `json:"type_name,omitempty"`
	ApartmentID string                    `json:"apartment_id"`
	BookingID   *string                   `json:"booking_id,omitempty"`
	RequesterID string                    `json:"requester_id"`
	WhoPays     WhoPays                   `json:"who_pays"`
	Status      Status                    `json:"status"`
	AssigneeID  *string                   `json:"assignee_id,omitempty"`
	DateAction  *time.Time                `json:"date_action,omitempty"`
	Notes       string                    `json:"notes,omitempty"`
	Cost        *servicetypedomain.Money  `json:"cost,omitempty"`
	PricingGap  bool                      `json:"pricing_gap,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidType      = errors.New("invalid_type")
	ErrInvalidApartment = errors.New("invalid_apartment")
	ErrInvalidBooking   = errors.New("invalid_booking")
	ErrInvalidRequester = errors.New("invalid_requester")
	ErrInvalidWhoPays   = errors.New("invalid_who_pays")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrNotFound         = errors.New("not_found")
)
