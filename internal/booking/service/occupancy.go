package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/villagiolabs/villagio/internal/booking/domain"
)

// ResolveStatus derives the occupancy state of one apartment at asOf.
// A booking qualifies when arrival <= asOf <= leaving and its lifecycle
// status is not left. With no qualifying booking the apartment is
// available. When the data holds several qualifying bookings (overlap is
// not enforced at write time) the most recently created one wins; this
// path must stay total because apartment listings call it per row.
func (s *Service) ResolveStatus(ctx context.Context, apartmentID snowflake.ID, asOf time.Time) (domain.OccupancyStatus, error) {
	booking, err := s.repo.FindOccupantAt(ctx, s.db, apartmentID, asOf.UTC())
	if err != nil {
		return "", err
	}
	return statusFor(booking), nil
}

// ResolveStatuses is the bulk form used by apartment listings: one query
// for the whole page instead of one per row.
func (s *Service) ResolveStatuses(ctx context.Context, apartmentIDs []snowflake.ID, asOf time.Time) (map[snowflake.ID]domain.OccupancyStatus, error) {
	out := make(map[snowflake.ID]domain.OccupancyStatus, len(apartmentIDs))
	for _, id := range apartmentIDs {
		out[id] = domain.OccupancyAvailable
	}

	rows, err := s.repo.ListOccupantsAt(ctx, s.db, apartmentIDs, asOf.UTC())
	if err != nil {
		return nil, err
	}

	// Rows arrive in ascending creation order, so a later qualifying
	// booking overwrites an earlier one: same tie-break as ResolveStatus.
	for i := range rows {
		out[rows[i].ApartmentID] = statusFor(&rows[i])
	}
	return out, nil
}

func statusFor(b *domain.Booking) domain.OccupancyStatus {
	if b == nil {
		return domain.OccupancyAvailable
	}
	if b.UserType == domain.UserTypeRenter {
		return domain.OccupancyOccupiedByRenter
	}
	return domain.OccupancyOccupiedByOwner
}
