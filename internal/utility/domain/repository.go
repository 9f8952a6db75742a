package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	ApartmentID *snowflake.ID
	WhoPays     *WhoPays
	From        *time.Time // inclusive, on end_date
	To          *time.Time // exclusive, on end_date
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, r *Reading) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Reading, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Reading, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
