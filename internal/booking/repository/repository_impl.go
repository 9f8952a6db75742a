package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/villagiolabs/villagio/internal/booking/domain"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() bookingdomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, b *bookingdomain.Booking) error {
	return db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*bookingdomain.Booking, error) {
	var b bookingdomain.Booking
	err := db.WithContext(ctx).First(&b, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB, filter bookingdomain.ListFilter) ([]bookingdomain.Booking, error) {
	query := db.WithContext(ctx).Model(&bookingdomain.Booking{})
	if filter.ApartmentID != nil {
		query = query.Where("apartment_id = ?", *filter.ApartmentID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var rows []bookingdomain.Booking
	err := query.Order("arrival DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, b *bookingdomain.Booking) error {
	return db.WithContext(ctx).Save(b).Error
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&bookingdomain.Booking{}, "id = ?", id).Error
}

func (r *repository) FindOccupantAt(ctx context.Context, db *gorm.DB, apartmentID snowflake.ID, asOf time.Time) (*bookingdomain.Booking, error) {
	var b bookingdomain.Booking
	err := db.WithContext(ctx).
		Where("apartment_id = ? AND status <> ? AND arrival <= ? AND leaving >= ?",
			apartmentID, bookingdomain.StatusLeft, asOf, asOf).
		Order("id DESC").
		First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListOccupantsAt(ctx context.Context, db *gorm.DB, apartmentIDs []snowflake.ID, asOf time.Time) ([]bookingdomain.Booking, error) {
	if len(apartmentIDs) == 0 {
		return nil, nil
	}
	var rows []bookingdomain.Booking
	err := db.WithContext(ctx).
		Where("apartment_id IN ? AND status <> ? AND arrival <= ? AND leaving >= ?",
			apartmentIDs, bookingdomain.StatusLeft, asOf, asOf).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountOverlapping(ctx context.Context, db *gorm.DB, apartmentID snowflake.ID, arrival, leaving time.Time, excludeID snowflake.ID) (int64, error) {
	query := db.WithContext(ctx).Model(&bookingdomain.Booking{}).
		Where("apartment_id = ? AND status <> ?", apartmentID, bookingdomain.StatusLeft).
		Where("arrival < ? AND leaving > ?", leaving, arrival)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}
