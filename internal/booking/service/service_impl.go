package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/villagiolabs/villagio/internal/booking/domain"
	"github.com/villagiolabs/villagio/internal/booking/repository"
	"github.com/villagiolabs/villagio/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Config config.Config
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          domain.Repository
	rejectOverlap bool
}

func NewService(p Params) *Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("booking.service"),
		genID:         p.GenID,
		repo:          repository.NewRepository(),
		rejectOverlap: p.Config.Booking.RejectOverlap,
	}
}

func NewDomainService(s *Service) domain.Service { return s }

func NewResolver(s *Service) domain.Resolver { return s }

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	apartmentID, err := snowflake.ParseString(strings.TrimSpace(req.ApartmentID))
	if err != nil {
		return nil, domain.ErrInvalidApartment
	}
	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil {
		return nil, domain.ErrInvalidUser
	}
	userType, err := parseUserType(req.UserType)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if !req.Leaving.After(req.Arrival) {
		return nil, domain.ErrInvalidInterval
	}
	if req.NumberOfPeople < 1 {
		return nil, domain.ErrInvalidPeople
	}

	exists, err := s.apartmentExists(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrInvalidApartment
	}

	if s.rejectOverlap {
		overlapping, err := s.repo.CountOverlapping(ctx, s.db, apartmentID, req.Arrival, req.Leaving, 0)
		if err != nil {
			return nil, err
		}
		if overlapping > 0 {
			return nil, domain.ErrOverlap
		}
	}

	booking := domain.Booking{
		ID:             s.genID.Generate(),
		ApartmentID:    apartmentID,
		UserID:         userID,
		UserType:       userType,
		Arrival:        req.Arrival.UTC(),
		Leaving:        req.Leaving.UTC(),
		Status:         status,
		NumberOfPeople: req.NumberOfPeople,
		PersonName:     strings.TrimSpace(req.PersonName),
		Notes:          strings.TrimSpace(req.Notes),
	}
	if err := s.repo.Insert(ctx, s.db, &booking); err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("apartment_id", apartmentID.String()),
		zap.String("user_type", string(userType)),
	)
	resp := toResponse(&booking)
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
	if v := strings.TrimSpace(req.UserID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidUser
		}
		filter.UserID = &id
	}
	if v := strings.TrimSpace(req.Status); v != "" {
		status, err := parseStatus(v)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

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
	bookingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	booking, err := s.repo.FindByID(ctx, s.db, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(booking)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	bookingID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	booking, err := s.repo.FindByID(ctx, s.db, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}

	if req.Arrival != nil {
		booking.Arrival = req.Arrival.UTC()
	}
	if req.Leaving != nil {
		booking.Leaving = req.Leaving.UTC()
	}
	if !booking.Leaving.After(booking.Arrival) {
		return nil, domain.ErrInvalidInterval
	}
	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		booking.Status = status
	}
	if req.NumberOfPeople != nil {
		if *req.NumberOfPeople < 1 {
			return nil, domain.ErrInvalidPeople
		}
		booking.NumberOfPeople = *req.NumberOfPeople
	}
	if req.PersonName != nil {
		booking.PersonName = strings.TrimSpace(*req.PersonName)
	}
	if req.Notes != nil {
		booking.Notes = strings.TrimSpace(*req.Notes)
	}

	if s.rejectOverlap && booking.Status != domain.StatusLeft {
		overlapping, err := s.repo.CountOverlapping(ctx, s.db, booking.ApartmentID, booking.Arrival, booking.Leaving, booking.ID)
		if err != nil {
			return nil, err
		}
		if overlapping > 0 {
			return nil, domain.ErrOverlap
		}
	}

	if err := s.repo.Update(ctx, s.db, booking); err != nil {
		return nil, err
	}
	resp := toResponse(booking)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	bookingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}
	booking, err := s.repo.FindByID(ctx, s.db, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, bookingID)
}

func (s *Service) apartmentExists(ctx context.Context, id snowflake.ID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Table("apartments").Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func parseUserType(value string) (domain.UserType, error) {
	switch domain.UserType(strings.TrimSpace(value)) {
	case domain.UserTypeOwner:
		return domain.UserTypeOwner, nil
	case domain.UserTypeRenter:
		return domain.UserTypeRenter, nil
	default:
		return "", domain.ErrInvalidUserType
	}
}

func parseStatus(value string) (domain.Status, error) {
	switch domain.Status(strings.TrimSpace(value)) {
	case domain.StatusNotArrived:
		return domain.StatusNotArrived, nil
	case domain.StatusInVillage:
		return domain.StatusInVillage, nil
	case domain.StatusLeft:
		return domain.StatusLeft, nil
	default:
		return "", domain.ErrInvalidStatus
	}
}

func toResponse(b *domain.Booking) domain.Response {
	return domain.Response{
		ID:             b.ID.String(),
		ApartmentID:    b.ApartmentID.String(),
		UserID:         b.UserID.String(),
		UserType:       b.UserType,
		Arrival:        b.Arrival,
		Leaving:        b.Leaving,
		Status:         b.Status,
		NumberOfPeople: b.NumberOfPeople,
		PersonName:     b.PersonName,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
