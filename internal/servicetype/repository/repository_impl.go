package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	servicetypedomain "github.com/villagiolabs/villagio/internal/servicetype/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct{}

func NewRepository() servicetypedomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, t *servicetypedomain.ServiceType) error {
	return db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*servicetypedomain.ServiceType, error) {
	var t servicetypedomain.ServiceType
	err := db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB) ([]servicetypedomain.ServiceType, error) {
	var rows []servicetypedomain.ServiceType
	err := db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&servicetypedomain.VillagePrice{}, "service_type_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&servicetypedomain.ServiceType{}, "id = ?", id).Error
	})
}

func (r *repository) CountRequests(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Table("service_requests").Where("type_id = ?", id).Count(&count).Error
	return count, err
}

func (r *repository) UpsertPrice(ctx context.Context, db *gorm.DB, p *servicetypedomain.VillagePrice) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "service_type_id"}, {Name: "village_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"cost", "currency", "updated_at"}),
	}).Create(p).Error
}

func (r *repository) FindPrice(ctx context.Context, db *gorm.DB, serviceTypeID, villageID snowflake.ID) (*servicetypedomain.VillagePrice, error) {
	var p servicetypedomain.VillagePrice
	err := db.WithContext(ctx).
		Where("service_type_id = ? AND village_id = ?", serviceTypeID, villageID).
		First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListPrices(ctx context.Context, db *gorm.DB, serviceTypeID snowflake.ID) ([]servicetypedomain.VillagePrice, error) {
	var rows []servicetypedomain.VillagePrice
	err := db.WithContext(ctx).Where("service_type_id = ?", serviceTypeID).Find(&rows).Error
	return rows, err
}
