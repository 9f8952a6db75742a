package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	servicerequestdomain "github.com/villagiolabs/villagio/internal/servicerequest/domain"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() servicerequestdomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, req *servicerequestdomain.ServiceRequest) error {
	return db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*servicerequestdomain.ServiceRequest, error) {
	var req servicerequestdomain.ServiceRequest
	err := db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB, filter servicerequestdomain.ListFilter) ([]servicerequestdomain.ServiceRequest, error) {
	query := db.WithContext(ctx).Model(&servicerequestdomain.ServiceRequest{})
	if filter.ApartmentID != nil {
		query = query.Where("apartment_id = ?", *filter.ApartmentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.WhoPays != nil {
		query = query.Where("who_pays = ?", *filter.WhoPays)
	}

	var rows []servicerequestdomain.ServiceRequest
	err := query.Order("created_at DESC, id DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, req *servicerequestdomain.ServiceRequest) error {
	return db.WithContext(ctx).Save(req).Error
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&servicerequestdomain.ServiceRequest{}, "id = ?", id).Error
}
