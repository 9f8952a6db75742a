package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, v *Village) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Village, error)
	List(ctx context.Context, db *gorm.DB) ([]Village, error)
	Update(ctx context.Context, db *gorm.DB, v *Village) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	CountApartments(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
