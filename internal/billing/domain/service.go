// Package domain defines the reporting surface over the apartment
// ledger. Everything here is a side-effect-free read: totals are
// reconstructed from current rows on every call and nothing is cached
// across requests, so a concurrent write may or may not be reflected
// in the result that was being computed when it landed.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/villagiolabs/villagio/internal/accessscope"
	"github.com/villagiolabs/villagio/internal/currency"
)

type Service interface {
	// Summarize aggregates the full, window-less ledger of one apartment.
	Summarize(ctx context.Context, apartmentID string, opts SummarizeOptions) (*Summary, error)

	// Report aggregates every apartment the scope allows inside the
	// requested window. Apartments without qualifying transactions appear
	// as all-zero rows; callers rely on one stable row per apartment.
	Report(ctx context.Context, scope accessscope.Scope, req ReportRequest) (*Report, error)

	// PreviousYearsTotal sums payments dated strictly before January 1 of
	// beforeYear across the scoped portfolio.
	PreviousYearsTotal(ctx context.Context, scope accessscope.Scope, beforeYear int) (currency.Totals, error)

	// ApartmentDetail returns the individual statement lines of one
	// apartment inside the window, date-sorted, plus windowed totals.
	ApartmentDetail(ctx context.Context, scope accessscope.Scope, req DetailRequest) (*Detail, error)
}

type SummarizeOptions struct {
	// IncludeUtilities folds cached utility costs into the requested
	// totals. Utility costs are EGP.
	IncludeUtilities bool
}

type Summary struct {
	ApartmentID   string          `json:"apartment_id"`
	ApartmentName string          `json:"apartment_name"`
	VillageID     string          `json:"village_id"`
	Spent         currency.Totals `json:"total_money_spent"`
	Requested     currency.Totals `json:"total_money_requested"`
	Net           currency.Totals `json:"net_money"`
}

type ReportRequest struct {
	VillageIDs       []string
	PayerType        string // owner or renter, empty for all
	Year             *int
	From             *time.Time // inclusive
	To               *time.Time // exclusive
	IncludeUtilities bool
}

type ReportTotals struct {
	Spent     currency.Totals `json:"total_money_spent"`
	Requested currency.Totals `json:"total_money_requested"`
	Net       currency.Totals `json:"net_money"`
}

type Report struct {
	Summary []Summary    `json:"summary"`
	Totals  ReportTotals `json:"totals"`
	From    time.Time    `json:"window_from"`
	To      time.Time    `json:"window_to"`
}

type DetailRequest struct {
	ApartmentID string
	Year        *int
	From        *time.Time
	To          *time.Time
}

type EntryKind string

const (
	EntryPayment        EntryKind = "payment"
	EntryServiceRequest EntryKind = "service_request"
	EntryUtilityReading EntryKind = "utility_reading"
)

// Direction tags which side of the ledger an entry lands on.
type Direction string

const (
	DirectionSpent     Direction = "spent"
	DirectionRequested Direction = "requested"
)

// LedgerEntry is one statement line of an apartment.
type LedgerEntry struct {
	Kind        EntryKind         `json:"kind"`
	ID          string            `json:"id"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description,omitempty"`
	BookingID   *string           `json:"booking_id,omitempty"`
	Payer       string            `json:"payer"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    currency.Currency `json:"currency"`
	Direction   Direction         `json:"direction"`
}

type ApartmentInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	VillageID string `json:"village_id"`
}

type Detail struct {
	Apartment ApartmentInfo `json:"apartment"`
	Bills     []LedgerEntry `json:"bills"`
	Totals    ReportTotals  `json:"totals"`
	From      time.Time     `json:"window_from"`
	To        time.Time     `json:"window_to"`
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidVillage   = errors.New("invalid_village")
	ErrInvalidPayerType = errors.New("invalid_payer_type")
	ErrInvalidWindow    = errors.New("invalid_window")
	ErrInvalidYear      = errors.New("invalid_year")
	ErrNotFound         = errors.New("not_found")
)
