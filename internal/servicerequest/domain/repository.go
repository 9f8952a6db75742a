package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	ApartmentID *snowflake.ID
	Status      *Status
	WhoPays     *WhoPays
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, r *ServiceRequest) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ServiceRequest, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]ServiceRequest, error)
	Update(ctx context.Context, db *gorm.DB, r *ServiceRequest) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
