package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/villagiolabs/villagio/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	VillageIDs   []snowflake.ID
	OwnerID      *snowflake.ID
	PayingStatus *PayingStatus
}

// References counts the dependent rows that block apartment deletion.
type References struct {
	Bookings        int64
	Payments        int64
	ServiceRequests int64
}

func (r References) Any() bool {
	return r.Bookings > 0 || r.Payments > 0 || r.ServiceRequests > 0
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, a *Apartment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Apartment, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Apartment, error)
	Update(ctx context.Context, db *gorm.DB, a *Apartment) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	CountReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (References, error)
}
