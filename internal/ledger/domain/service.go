// Package domain defines the read side of the ledger. A reader pulls
// the raw financial rows of a set of apartments in one window so the
// billing layer can aggregate them without issuing per-row queries.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	apartmentdomain "github.com/villagiolabs/villagio/internal/apartment/domain"
	paymentdomain "github.com/villagiolabs/villagio/internal/payment/domain"
	servicerequestdomain "github.com/villagiolabs/villagio/internal/servicerequest/domain"
	utilitydomain "github.com/villagiolabs/villagio/internal/utility/domain"
)

// Window is a half-open time range. A nil bound leaves that side open.
type Window struct {
	From *time.Time // inclusive
	To   *time.Time // exclusive
}

// Contains reports whether at falls inside the window.
func (w Window) Contains(at time.Time) bool {
	if w.From != nil && at.Before(*w.From) {
		return false
	}
	if w.To != nil && !at.Before(*w.To) {
		return false
	}
	return true
}

type ApartmentFilter struct {
	VillageIDs   []snowflake.ID
	OwnerID      *snowflake.ID
	PayingStatus *apartmentdomain.PayingStatus
}

type Reader interface {
	// Apartments returns the apartments matching the filter, ordered by id.
	Apartments(ctx context.Context, filter ApartmentFilter) ([]apartmentdomain.Apartment, error)

	// Payments returns the payments of the given apartments dated inside
	// the window, grouped by apartment, each group in date order.
	Payments(ctx context.Context, apartmentIDs []snowflake.ID, w Window) (map[snowflake.ID][]paymentdomain.Payment, error)

	// ServiceRequests groups the service requests of the given apartments
	// whose effective date (action date, or creation time when unset)
	// falls inside the window.
	ServiceRequests(ctx context.Context, apartmentIDs []snowflake.ID, w Window) (map[snowflake.ID][]servicerequestdomain.ServiceRequest, error)

	// UtilityReadings groups the utility readings of the given apartments
	// read inside the window.
	UtilityReadings(ctx context.Context, apartmentIDs []snowflake.ID, w Window) (map[snowflake.ID][]utilitydomain.Reading, error)
}
