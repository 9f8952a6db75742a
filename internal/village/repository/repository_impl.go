package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() villagedomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, v *villagedomain.Village) error {
	return db.WithContext(ctx).Create(v).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*villagedomain.Village, error) {
	var v villagedomain.Village
	err := db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB) ([]villagedomain.Village, error) {
	var rows []villagedomain.Village
	err := db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, v *villagedomain.Village) error {
	return db.WithContext(ctx).Save(v).Error
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&villagedomain.Village{}, "id = ?", id).Error
}

func (r *repository) CountApartments(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Table("apartments").Where("village_id = ?", id).Count(&count).Error
	return count, err
}
