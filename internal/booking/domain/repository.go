package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	ApartmentID *snowflake.ID
	UserID      *snowflake.ID
	Status      *Status
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, b *Booking) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Booking, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Booking, error)
	Update(ctx context.Context, db *gorm.DB, b *Booking) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// FindOccupantAt returns the qualifying booking for one apartment at
	// asOf, breaking ties toward the most recently created row.
	FindOccupantAt(ctx context.Context, db *gorm.DB, apartmentID snowflake.ID, asOf time.Time) (*Booking, error)
	// ListOccupantsAt returns every qualifying booking for a set of
	// apartments at asOf, in creation order.
	ListOccupantsAt(ctx context.Context, db *gorm.DB, apartmentIDs []snowflake.ID, asOf time.Time) ([]Booking, error)
	// CountOverlapping counts non-left bookings of the apartment whose
	// half-open interval intersects [arrival, leaving), excluding the
	// booking identified by excludeID when non-zero.
	CountOverlapping(ctx context.Context, db *gorm.DB, apartmentID snowflake.ID, arrival, leaving time.Time, excludeID snowflake.ID) (int64, error)
}
