package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/villagiolabs/villagio/internal/servicerequest/domain"
	"github.com/villagiolabs/villagio/internal/servicerequest/repository"
	servicetypedomain "github.com/villagiolabs/villagio/internal/servicetype/domain"
	servicetyperepository "github.com/villagiolabs/villagio/internal/servicetype/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Prices servicetypedomain.PriceLookup
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	types  servicetypedomain.Repository
	prices servicetypedomain.PriceLookup
}

func NewService(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("servicerequest.service"),
		genID:  p.GenID,
		repo:   repository.NewRepository(),
		types:  servicetyperepository.NewRepository(),
		prices: p.Prices,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	typeID, err := snowflake.ParseString(strings.TrimSpace(req.TypeID))
	if err != nil {
		return nil, domain.ErrInvalidType
	}
	apartmentID, err := snowflake.ParseString(strings.TrimSpace(req.ApartmentID))
	if err != nil {
		return nil, domain.ErrInvalidApartment
	}
	requesterID, err := snowflake.ParseString(strings.TrimSpace(req.RequesterID))
	if err != nil {
		return nil, domain.ErrInvalidRequester
	}
	whoPays, err := parseWhoPays(req.WhoPays)
	if err != nil {
		return nil, err
	}

	serviceType, err := s.types.FindByID(ctx, s.db, typeID)
	if err != nil {
		return nil, err
	}
	if serviceType == nil {
		return nil, domain.ErrInvalidType
	}

	villageID, err := s.villageOf(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if villageID == 0 {
		return nil, domain.ErrInvalidApartment
	}

	request := domain.ServiceRequest{
		ID:          s.genID.Generate(),
		TypeID:      typeID,
		ApartmentID: apartmentID,
		RequesterID: requesterID,
		WhoPays:     whoPays,
		Status:      domain.StatusCreated,
		DateAction:  req.DateAction,
		Notes:       strings.TrimSpace(req.Notes),
	}

	if v := strings.TrimSpace(req.BookingID); v != "" {
		bookingID, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidBooking
		}
		var count int64
		if err := s.db.WithContext(ctx).Table("bookings").
			Where("id = ? AND apartment_id = ?", bookingID, apartmentID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.ErrInvalidBooking
		}
		request.BookingID = &bookingID
	}

	if v := strings.TrimSpace(req.AssigneeID); v != "" {
		assigneeID, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		request.AssigneeID = &assigneeID
	} else if serviceType.DefaultAssignee != nil {
		request.AssigneeID = serviceType.DefaultAssignee
	}

	if err := s.repo.Insert(ctx, s.db, &request); err != nil {
		return nil, err
	}

	s.log.Info("service request created",
		zap.String("request_id", request.ID.String()),
		zap.String("type_id", typeID.String()),
		zap.String("apartment_id", apartmentID.String()),
		zap.String("who_pays", string(whoPays)),
	)
	resp := s.toResponse(ctx, &request, serviceType, villageID)
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
	if v := strings.TrimSpace(req.Status); v != "" {
		status, err := parseStatus(v)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if v := strings.TrimSpace(req.WhoPays); v != "" {
		whoPays, err := parseWhoPays(v)
		if err != nil {
			return nil, err
		}
		filter.WhoPays = &whoPays
	}

	rows, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(rows))
	for i := range rows {
		serviceType, err := s.types.FindByID(ctx, s.db, rows[i].TypeID)
		if err != nil {
			return nil, err
		}
		villageID, err := s.villageOf(ctx, rows[i].ApartmentID)
		if err != nil {
			return nil, err
		}
		out = append(out, s.toResponse(ctx, &rows[i], serviceType, villageID))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	requestID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	request, err := s.repo.FindByID(ctx, s.db, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	serviceType, err := s.types.FindByID(ctx, s.db, request.TypeID)
	if err != nil {
		return nil, err
	}
	villageID, err := s.villageOf(ctx, request.ApartmentID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, request, serviceType, villageID)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	requestID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	request, err := s.repo.FindByID(ctx, s.db, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}

	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		request.Status = status
	}
	if req.AssigneeID != nil {
		if v := strings.TrimSpace(*req.AssigneeID); v != "" {
			assigneeID, err := snowflake.ParseString(v)
			if err != nil {
				return nil, domain.ErrInvalidID
			}
			request.AssigneeID = &assigneeID
		} else {
			request.AssigneeID = nil
		}
	}
	if req.DateAction != nil {
		request.DateAction = req.DateAction
	}
	if req.Notes != nil {
		request.Notes = strings.TrimSpace(*req.Notes)
	}

	if err := s.repo.Update(ctx, s.db, request); err != nil {
		return nil, err
	}
	serviceType, err := s.types.FindByID(ctx, s.db, request.TypeID)
	if err != nil {
		return nil, err
	}
	villageID, err := s.villageOf(ctx, request.ApartmentID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, request, serviceType, villageID)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	requestID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}
	request, err := s.repo.FindByID(ctx, s.db, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, requestID)
}

func (s *Service) villageOf(ctx context.Context, apartmentID snowflake.ID) (snowflake.ID, error) {
	var villageID snowflake.ID
	err := s.db.WithContext(ctx).
		Raw(`SELECT village_id FROM apartments WHERE id = ?`, apartmentID).
		Scan(&villageID).Error
	return villageID, err
}

// toResponse resolves the request cost through the village price. In a
// listing a pricing gap is flagged on the row rather than failing the
// whole response; financial totals treat it as an error instead.
func (s *Service) toResponse(ctx context.Context, r *domain.ServiceRequest, serviceType *servicetypedomain.ServiceType, villageID snowflake.ID) domain.Response {
	resp := domain.Response{
		ID:          r.ID.String(),
		TypeID:      r.TypeID.String(),
		ApartmentID: r.ApartmentID.String(),
		RequesterID: r.RequesterID.String(),
		WhoPays:     r.WhoPays,
		Status:      r.Status,
		DateAction:  r.DateAction,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
	}
	if serviceType != nil {
		resp.TypeName = serviceType.Name
	}
	if r.BookingID != nil {
		id := r.BookingID.String()
		resp.BookingID = &id
	}
	if r.AssigneeID != nil {
		id := r.AssigneeID.String()
		resp.AssigneeID = &id
	}

	if villageID != 0 {
		money, err := s.prices.Lookup(ctx, r.TypeID, villageID)
		switch {
		case err == nil:
			resp.Cost = &money
		case errors.Is(err, servicetypedomain.ErrPricingGap):
			resp.PricingGap = true
		}
	}
	return resp
}

func parseWhoPays(value string) (domain.WhoPays, error) {
	switch domain.WhoPays(strings.TrimSpace(value)) {
	case domain.WhoPaysOwner:
		return domain.WhoPaysOwner, nil
	case domain.WhoPaysRenter:
		return domain.WhoPaysRenter, nil
	case domain.WhoPaysCompany:
		return domain.WhoPaysCompany, nil
	default:
		return "", domain.ErrInvalidWhoPays
	}
}

func parseStatus(value string) (domain.Status, error) {
	switch domain.Status(strings.TrimSpace(value)) {
	case domain.StatusCreated:
		return domain.StatusCreated, nil
	case domain.StatusInProgress:
		return domain.StatusInProgress, nil
	case domain.StatusDone:
		return domain.StatusDone, nil
	default:
		return "", domain.ErrInvalidStatus
	}
}
