package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/villagiolabs/villagio/internal/utility/domain"
	"gorm.io/gorm"
)

type Repository struct{}

func NewRepository() domain.Repository {
	return &Repository{}
}

func (r *Repository) Insert(ctx context.Context, db *gorm.DB, reading *domain.Reading) error {
	return db.WithContext(ctx).Create(reading).Error
}

func (r *Repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Reading, error) {
	var reading domain.Reading
	err := db.WithContext(ctx).Where("id = ?", id).First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

func (r *Repository) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Reading, error) {
	query := db.WithContext(ctx).Model(&domain.Reading{})
	if filter.ApartmentID != nil {
		query = query.Where("apartment_id = ?", *filter.ApartmentID)
	}
	if filter.WhoPays != nil {
		query = query.Where("who_pays = ?", *filter.WhoPays)
	}
	if filter.From != nil {
		query = query.Where("end_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("end_date < ?", *filter.To)
	}

	var readings []domain.Reading
	if err := query.Order("end_date ASC, id ASC").Find(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *Repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Reading{}).Error
}
