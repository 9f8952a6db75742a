package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

// Resolver derives an apartment's occupancy state from its bookings.
// It is a pure read over stored state and must stay total: bad data
// (overlapping qualifying bookings) resolves deterministically, never
// errors, because listings depend on it.
type Resolver interface {
	ResolveStatus(ctx context.Context, apartmentID snowflake.ID, asOf time.Time) (OccupancyStatus, error)
	ResolveStatuses(ctx context.Context, apartmentIDs []snowflake.ID, asOf time.Time) (map[snowflake.ID]OccupancyStatus, error)
}

type CreateRequest struct {
	ApartmentID    string    `json:"apartment_id"`
	UserID         string    `json:"user_id"`
	UserType       string    `json:"user_type"`
	Arrival        time.Time `json:"arrival"`
	Leaving        time.Time `json:"leaving"`
	Status         string    `json:"status"`
	NumberOfPeople int       `json:"number_of_people"`
	PersonName     string    `json:"person_name"`
	Notes          string    `json:"notes"`
}

type UpdateRequest struct {
	ID             string     `json:"id"`
	Arrival        *time.Time `json:"arrival,omitempty"`
	Leaving        *time.Time `json:"leaving,omitempty"`
	Status         *string    `json:"status,omitempty"`
	NumberOfPeople *int       `json:"number_of_people,omitempty"`
	PersonName     *string    `json:"person_name,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

type ListRequest struct {
	ApartmentID string
	UserID      string
	Status      string
}

type Response struct {
	ID             string    `json:"id"`
	ApartmentID    string    `json:"apartment_id"`
	UserID         string    `json:"user_id"`
	UserType       UserType  `json:"user_type"`
	Arrival        time.Time `json:"arrival"`
	Leaving        time.Time `json:"leaving"`
	Status         Status    `json:"status"`
	NumberOfPeople int       `json:"number_of_people"`
	PersonName     string    `json:"person_name,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidApartment = errors.New("invalid_apartment")
	ErrInvalidUser      = errors.New("invalid_user")
	ErrInvalidUserType  = errors.New("invalid_user_type")
	ErrInvalidInterval  = errors.New("invalid_interval")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidPeople    = errors.New("invalid_number_of_people")
	ErrNotFound         = errors.New("not_found")
	ErrOverlap          = errors.New("booking_overlap")
)
