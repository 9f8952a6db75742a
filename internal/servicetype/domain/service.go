package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/villagiolabs/villagio/internal/currency"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Delete(ctx context.Context, id string) error

	SetVillagePrice(ctx context.Context, req SetPriceRequest) (*PriceResponse, error)
	ListVillagePrices(ctx context.Context, serviceTypeID string) ([]PriceResponse, error)
}

// PriceLookup resolves the effective cost of a service type in one
// village. A missing price row is a data error (PricingGap), never a
// zero cost.
type PriceLookup interface {
	Lookup(ctx context.Context, serviceTypeID, villageID snowflake.ID) (Money, error)
}

type CreateRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DefaultAssignee string `json:"default_assignee,omitempty"`
}

type SetPriceRequest struct {
	ServiceTypeID string          `json:"service_type_id"`
	VillageID     string          `json:"village_id"`
	Cost          decimal.Decimal `json:"cost"`
	Currency      string          `json:"currency"`
}

type Response struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	DefaultAssignee *string   `json:"default_assignee,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type PriceResponse struct {
	ID            string            `json:"id"`
	ServiceTypeID string            `json:"service_type_id"`
	VillageID     string            `json:"village_id"`
	Cost          decimal.Decimal   `json:"cost"`
	Currency      currency.Currency `json:"currency"`
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidVillage  = errors.New("invalid_village")
	ErrInvalidCost     = errors.New("invalid_cost")
	ErrNotFound        = errors.New("not_found")
	ErrTypeInUse       = errors.New("service_type_in_use")
	ErrPricingGap      = errors.New("pricing_gap")
)

// PricingGapError wraps ErrPricingGap with the identity of the unpriced
// pair so callers can report which row is missing.
type PricingGapError struct {
	ServiceTypeID snowflake.ID
	VillageID     snowflake.ID
}

func (e *PricingGapError) Error() string {
	return fmt.Sprintf("pricing_gap: service type %s has no price in village %s", e.ServiceTypeID, e.VillageID)
}

func (e *PricingGapError) Unwrap() error { return ErrPricingGap }
