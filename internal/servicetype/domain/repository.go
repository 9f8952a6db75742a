package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, t *ServiceType) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ServiceType, error)
	List(ctx context.Context, db *gorm.DB) ([]ServiceType, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	CountRequests(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)

	UpsertPrice(ctx context.Context, db *gorm.DB, p *VillagePrice) error
	FindPrice(ctx context.Context, db *gorm.DB, serviceTypeID, villageID snowflake.ID) (*VillagePrice, error)
	ListPrices(ctx context.Context, db *gorm.DB, serviceTypeID snowflake.ID) ([]VillagePrice, error)
}
