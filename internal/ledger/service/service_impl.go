package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	apartmentdomain "github.com/villagiolabs/villagio/internal/apartment/domain"
	"github.com/villagiolabs/villagio/internal/ledger/domain"
	paymentdomain "github.com/villagiolabs/villagio/internal/payment/domain"
	servicerequestdomain "github.com/villagiolabs/villagio/internal/servicerequest/domain"
	utilitydomain "github.com/villagiolabs/villagio/internal/utility/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Reader struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReader(p Params) domain.Reader {
	return &Reader{
		db:  p.DB,
		log: p.Log.Named("ledger.reader"),
	}
}

func (r *Reader) Apartments(ctx context.Context, filter domain.ApartmentFilter) ([]apartmentdomain.Apartment, error) {
	query := r.db.WithContext(ctx).Model(&apartmentdomain.Apartment{})
	if len(filter.VillageIDs) > 0 {
		query = query.Where("village_id IN ?", filter.VillageIDs)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.PayingStatus != nil {
		query = query.Where("paying_status = ?", *filter.PayingStatus)
	}

	var apartments []apartmentdomain.Apartment
	if err := query.Order("id ASC").Find(&apartments).Error; err != nil {
		return nil, err
	}
	return apartments, nil
}

func (r *Reader) Payments(ctx context.Context, apartmentIDs []snowflake.ID, w domain.Window) (map[snowflake.ID][]paymentdomain.Payment, error) {
	if len(apartmentIDs) == 0 {
		return map[snowflake.ID][]paymentdomain.Payment{}, nil
	}
	query := r.db.WithContext(ctx).Model(&paymentdomain.Payment{}).
		Where("apartment_id IN ?", apartmentIDs)
	if w.From != nil {
		query = query.Where("date >= ?", *w.From)
	}
	if w.To != nil {
		query = query.Where("date < ?", *w.To)
	}

	var payments []paymentdomain.Payment
	if err := query.Order("date ASC, id ASC").Find(&payments).Error; err != nil {
		return nil, err
	}
	grouped := make(map[snowflake.ID][]paymentdomain.Payment, len(apartmentIDs))
	for i := range payments {
		grouped[payments[i].ApartmentID] = append(grouped[payments[i].ApartmentID], payments[i])
	}
	return grouped, nil
}

func (r *Reader) ServiceRequests(ctx context.Context, apartmentIDs []snowflake.ID, w domain.Window) (map[snowflake.ID][]servicerequestdomain.ServiceRequest, error) {
	if len(apartmentIDs) == 0 {
		return map[snowflake.ID][]servicerequestdomain.ServiceRequest{}, nil
	}
	query := r.db.WithContext(ctx).Model(&servicerequestdomain.ServiceRequest{}).
		Where("apartment_id IN ?", apartmentIDs)
	if w.From != nil {
		query = query.Where("COALESCE(date_action, created_at) >= ?", *w.From)
	}
	if w.To != nil {
		query = query.Where("COALESCE(date_action, created_at) < ?", *w.To)
	}

	var requests []servicerequestdomain.ServiceRequest
	if err := query.Order("COALESCE(date_action, created_at) ASC, id ASC").Find(&requests).Error; err != nil {
		return nil, err
	}
	grouped := make(map[snowflake.ID][]servicerequestdomain.ServiceRequest, len(apartmentIDs))
	for i := range requests {
		grouped[requests[i].ApartmentID] = append(grouped[requests[i].ApartmentID], requests[i])
	}
	return grouped, nil
}

func (r *Reader) UtilityReadings(ctx context.Context, apartmentIDs []snowflake.ID, w domain.Window) (map[snowflake.ID][]utilitydomain.Reading, error) {
	if len(apartmentIDs) == 0 {
		return map[snowflake.ID][]utilitydomain.Reading{}, nil
	}
	query := r.db.WithContext(ctx).Model(&utilitydomain.Reading{}).
		Where("apartment_id IN ?", apartmentIDs)
	if w.From != nil {
		query = query.Where("end_date >= ?", *w.From)
	}
	if w.To != nil {
		query = query.Where("end_date < ?", *w.To)
	}

	var readings []utilitydomain.Reading
	if err := query.Order("end_date ASC, id ASC").Find(&readings).Error; err != nil {
		return nil, err
	}
	grouped := make(map[snowflake.ID][]utilitydomain.Reading, len(apartmentIDs))
	for i := range readings {
		grouped[readings[i].ApartmentID] = append(grouped[readings[i].ApartmentID], readings[i])
	}
	return grouped, nil
}
