package domain

import (
	"context"
	"errors"
	"time"

	bookingdomain "github.com/villagiolabs/villagio/internal/booking/domain"
	"github.com/villagiolabs/villagio/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name         string     `json:"name"`
	VillageID    string     `json:"village_id"`
	Phase        int        `json:"phase"`
	OwnerID      string     `json:"owner_id"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
	PayingStatus string     `json:"paying_status"`
	SalesStatus  string     `json:"sales_status,omitempty"`
}

type UpdateRequest struct {
	ID           string     `json:"id"`
	Name         *string    `json:"name,omitempty"`
	Phase        *int       `json:"phase,omitempty"`
	OwnerID      *string    `json:"owner_id,omitempty"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
	PayingStatus *string    `json:"paying_status,omitempty"`
	SalesStatus  *string    `json:"sales_status,omitempty"`
}

type ListRequest struct {
	VillageID    string
	OwnerID      string
	PayingStatus string
	PageToken    string
	PageSize     int32
}

type ListResponse struct {
	PageInfo   pagination.PageInfo `json:"page_info"`
	Apartments []Response          `json:"apartments"`
}

type Response struct {
	ID           string                        `json:"id"`
	Name         string                        `json:"name"`
	Code         string                        `json:"code"`
	VillageID    string                        `json:"village_id"`
	Phase        int                           `json:"phase"`
	OwnerID      string                        `json:"owner_id"`
	PurchaseDate *time.Time                    `json:"purchase_date,omitempty"`
	PayingStatus PayingStatus                  `json:"paying_status"`
	SalesStatus  SalesStatus                   `json:"sales_status"`
	Status       bookingdomain.OccupancyStatus `json:"status"`
	CreatedAt    time.Time                     `json:"created_at"`
	UpdatedAt    time.Time                     `json:"updated_at"`
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidVillage      = errors.New("invalid_village")
	ErrInvalidOwner        = errors.New("invalid_owner")
	ErrInvalidPhase        = errors.New("invalid_phase")
	ErrInvalidPayingStatus = errors.New("invalid_paying_status")
	ErrInvalidSalesStatus  = errors.New("invalid_sales_status")
	ErrNotFound            = errors.New("not_found")
	ErrHasReferences       = errors.New("apartment_has_references")
)
