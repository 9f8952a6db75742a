package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/villagiolabs/villagio/internal/currency"
	"github.com/villagiolabs/villagio/internal/payment/domain"
	"github.com/villagiolabs/villagio/internal/payment/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payment.service"),
		genID: p.GenID,
		repo:  repository.NewRepository(),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	apartmentID, err := snowflake.ParseString(strings.TrimSpace(req.ApartmentID))
	if err != nil {
		return nil, domain.ErrInvalidApartment
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	cur, err := currency.Parse(req.Currency)
	if err != nil {
		return nil, err
	}
	methodID, err := snowflake.ParseString(strings.TrimSpace(req.MethodID))
	if err != nil {
		return nil, domain.ErrInvalidMethod
	}
	payerType, err := parsePayerType(req.UserType)
	if err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	if ok, err := s.rowExists(ctx, "apartments", apartmentID); err != nil {
		return nil, err
	} else if !ok {
		return nil, domain.ErrInvalidApartment
	}

	method, err := s.repo.FindMethodByID(ctx, s.db, methodID)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, domain.ErrInvalidMethod
	}

	var bookingID *snowflake.ID
	if v := strings.TrimSpace(req.BookingID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidBooking
		}
		var count int64
		if err := s.db.WithContext(ctx).Table("bookings").
			Where("id = ? AND apartment_id = ?", id, apartmentID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.ErrInvalidBooking
		}
		bookingID = &id
	}

	payment := domain.Payment{
		ID:          s.genID.Generate(),
		ApartmentID: apartmentID,
		BookingID:   bookingID,
		Amount:      req.Amount,
		Currency:    cur,
		MethodID:    methodID,
		UserType:    payerType,
		Date:        req.Date.UTC(),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Insert(ctx, s.db, &payment); err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("apartment_id", apartmentID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("currency", string(cur)),
	)
	resp := toResponse(&payment)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	var filter domain.ListFilter
	if v := strings.TrimSpace(req.ApartmentID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidApartment
		}
		filter.ApartmentID = &id
	}
	if v := strings.TrimSpace(req.UserType); v != "" {
		payerType, err := parsePayerType(v)
		if err != nil {
			return nil, err
		}
		filter.UserType = &payerType
	}
	filter.From = req.From
	filter.To = req.To

	rows, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Response, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i]))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	paymentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(payment)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	paymentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}
	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, paymentID)
}

func (s *Service) CreateMethod(ctx context.Context, name string) (*domain.MethodResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	method := domain.PaymentMethod{
		ID:   s.genID.Generate(),
		Name: name,
	}
	if err := s.repo.InsertMethod(ctx, s.db, &method); err != nil {
		return nil, err
	}
	return &domain.MethodResponse{ID: method.ID.String(), Name: method.Name, CreatedAt: method.CreatedAt}, nil
}

func (s *Service) ListMethods(ctx context.Context) ([]domain.MethodResponse, error) {
	rows, err := s.repo.ListMethods(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MethodResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.MethodResponse{ID: m.ID.String(), Name: m.Name, CreatedAt: m.CreatedAt})
	}
	return out, nil
}

func (s *Service) DeleteMethod(ctx context.Context, id string) error {
	methodID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}
	method, err := s.repo.FindMethodByID(ctx, s.db, methodID)
	if err != nil {
		return err
	}
	if method == nil {
		return domain.ErrNotFound
	}
	count, err := s.repo.CountByMethod(ctx, s.db, methodID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrMethodInUse
	}
	return s.repo.DeleteMethod(ctx, s.db, methodID)
}

func (s *Service) rowExists(ctx context.Context, table string, id snowflake.ID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func parsePayerType(value string) (domain.PayerType, error) {
	switch domain.PayerType(strings.TrimSpace(value)) {
	case domain.PayerTypeOwner:
		return domain.PayerTypeOwner, nil
	case domain.PayerTypeRenter:
		return domain.PayerTypeRenter, nil
	default:
		return "", domain.ErrInvalidUserType
	}
}

func toResponse(p *domain.Payment) domain.Response {
	resp := domain.Response{
		ID:          p.ID.String(),
		ApartmentID: p.ApartmentID.String(),
		Amount:      p.Amount,
		Currency:    p.Currency,
		MethodID:    p.MethodID.String(),
		UserType:    p.UserType,
		Date:        p.Date,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
	if p.BookingID != nil {
		id := p.BookingID.String()
		resp.BookingID = &id
	}
	return resp
}
