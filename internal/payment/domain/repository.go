package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	ApartmentID *snowflake.ID
	UserType    *PayerType
	From        *time.Time // inclusive
	To          *time.Time // exclusive
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, p *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Payment, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertMethod(ctx context.Context, db *gorm.DB, m *PaymentMethod) error
	FindMethodByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PaymentMethod, error)
	ListMethods(ctx context.Context, db *gorm.DB) ([]PaymentMethod, error)
	DeleteMethod(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	CountByMethod(ctx context.Context, db *gorm.DB, methodID snowflake.ID) (int64, error)
}
