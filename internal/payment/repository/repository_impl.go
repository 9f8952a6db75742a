package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/villagiolabs/villagio/internal/payment/domain"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() paymentdomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, p *paymentdomain.Payment) error {
	return db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*paymentdomain.Payment, error) {
	var p paymentdomain.Payment
	err := db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB, filter paymentdomain.ListFilter) ([]paymentdomain.Payment, error) {
	query := db.WithContext(ctx).Model(&paymentdomain.Payment{})
	if filter.ApartmentID != nil {
		query = query.Where("apartment_id = ?", *filter.ApartmentID)
	}
	if filter.UserType != nil {
		query = query.Where("user_type = ?", *filter.UserType)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date < ?", *filter.To)
	}

	var rows []paymentdomain.Payment
	err := query.Order("date ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&paymentdomain.Payment{}, "id = ?", id).Error
}

func (r *repository) InsertMethod(ctx context.Context, db *gorm.DB, m *paymentdomain.PaymentMethod) error {
	return db.WithContext(ctx).Create(m).Error
}

func (r *repository) FindMethodByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*paymentdomain.PaymentMethod, error) {
	var m paymentdomain.PaymentMethod
	err := db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListMethods(ctx context.Context, db *gorm.DB) ([]paymentdomain.PaymentMethod, error) {
	var rows []paymentdomain.PaymentMethod
	err := db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteMethod(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&paymentdomain.PaymentMethod{}, "id = ?", id).Error
}

func (r *repository) CountByMethod(ctx context.Context, db *gorm.DB, methodID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&paymentdomain.Payment{}).Where("method_id = ?", methodID).Count(&count).Error
	return count, err
}
