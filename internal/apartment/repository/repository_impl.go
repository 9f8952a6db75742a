package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	apartmentdomain "github.com/villagiolabs/villagio/internal/apartment/domain"
	"github.com/villagiolabs/villagio/pkg/db/pagination"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() apartmentdomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, a *apartmentdomain.Apartment) error {
	return db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*apartmentdomain.Apartment, error) {
	var a apartmentdomain.Apartment
	err := db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB, filter apartmentdomain.ListFilter, page pagination.Pagination) ([]apartmentdomain.Apartment, error) {
	query := db.WithContext(ctx).Model(&apartmentdomain.Apartment{})
	if len(filter.VillageIDs) > 0 {
		query = query.Where("village_id IN ?", filter.VillageIDs)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.PayingStatus != nil {
		query = query.Where("paying_status = ?", *filter.PayingStatus)
	}

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		query = query.Where("id > ?", id)
	}

	query = query.Order("id ASC")
	if page.PageSize > 0 {
		// Over-fetch one row so the caller can detect another page.
		query = query.Limit(page.PageSize + 1)
	}

	var rows []apartmentdomain.Apartment
	err := query.Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, a *apartmentdomain.Apartment) error {
	return db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&apartmentdomain.Apartment{}, "id = ?", id).Error
}

func (r *repository) CountReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (apartmentdomain.References, error) {
	var refs apartmentdomain.References
	if err := db.WithContext(ctx).Table("bookings").Where("apartment_id = ?", id).Count(&refs.Bookings).Error; err != nil {
		return refs, err
	}
	if err := db.WithContext(ctx).Table("payments").Where("apartment_id = ?", id).Count(&refs.Payments).Error; err != nil {
		return refs, err
	}
	if err := db.WithContext(ctx).Table("service_requests").Where("apartment_id = ?", id).Count(&refs.ServiceRequests).Error; err != nil {
		return refs, err
	}
	return refs, nil
}
