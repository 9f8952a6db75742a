package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/villagiolabs/villagio/internal/apartment/domain"
	"github.com/villagiolabs/villagio/internal/apartment/repository"
	bookingdomain "github.com/villagiolabs/villagio/internal/booking/domain"
	"github.com/villagiolabs/villagio/internal/clock"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
	villagerepository "github.com/villagiolabs/villagio/internal/village/repository"
	"github.com/villagiolabs/villagio/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Resolver bookingdomain.Resolver
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	villages villagedomain.Repository
	resolver bookingdomain.Resolver
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("apartment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     repository.NewRepository(),
		villages: villagerepository.NewRepository(),
		resolver: p.Resolver,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	villageID, err := snowflake.ParseString(strings.TrimSpace(req.VillageID))
	if err != nil {
		return nil, domain.ErrInvalidVillage
	}
	ownerID, err := snowflake.ParseString(strings.TrimSpace(req.OwnerID))
	if err != nil {
		return nil, domain.ErrInvalidOwner
	}
	payingStatus, err := parsePayingStatus(req.PayingStatus)
	if err != nil {
		return nil, err
	}
	salesStatus := domain.SalesStatusNotForSale
	if strings.TrimSpace(req.SalesStatus) != "" {
		salesStatus, err = parseSalesStatus(req.SalesStatus)
		if err != nil {
			return nil, err
		}
	}

	village, err := s.villages.FindByID(ctx, s.db, villageID)
	if err != nil {
		return nil, err
	}
	if village == nil {
		return nil, domain.ErrInvalidVillage
	}
	if req.Phase < 1 || req.Phase > village.Phases {
		return nil, domain.ErrInvalidPhase
	}

	apartment := domain.Apartment{
		ID:           s.genID.Generate(),
		Name:         name,
		Code:         slug.Make(village.Code + " " + name),
		VillageID:    villageID,
		Phase:        req.Phase,
		OwnerID:      ownerID,
		PurchaseDate: req.PurchaseDate,
		PayingStatus: payingStatus,
		SalesStatus:  salesStatus,
	}
	if err := s.repo.Insert(ctx, s.db, &apartment); err != nil {
		return nil, err
	}

	s.log.Info("apartment created",
		zap.String("apartment_id", apartment.ID.String()),
		zap.String("village_id", villageID.String()),
	)
	return s.toResponse(ctx, &apartment)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	var filter domain.ListFilter
	if v := strings.TrimSpace(req.VillageID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidVillage
		}
		filter.VillageIDs = []snowflake.ID{id}
	}
	if v := strings.TrimSpace(req.OwnerID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidOwner
		}
		filter.OwnerID = &id
	}
	if v := strings.TrimSpace(req.PayingStatus); v != "" {
		status, err := parsePayingStatus(v)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.PayingStatus = &status
	}

	pageSize := req.PageSize
	if pageSize < 0 {
		pageSize = 0
	} else if pageSize == 0 {
		pageSize = 50
	}

	rows, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(rows, pageSize, func(a domain.Apartment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        a.ID.String(),
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(rows) > int(pageSize) {
		rows = rows[:pageSize]
	}

	ids := make([]snowflake.ID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	statuses, err := s.resolver.ResolveStatuses(ctx, ids, s.clock.Now(ctx))
	if err != nil {
		return domain.ListResponse{}, err
	}

	out := make([]domain.Response, 0, len(rows))
	for i := range rows {
		resp := baseResponse(&rows[i])
		resp.Status = statuses[rows[i].ID]
		out = append(out, resp)
	}

	return domain.ListResponse{PageInfo: *pageInfo, Apartments: out}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	apartmentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	apartment, err := s.repo.FindByID(ctx, s.db, apartmentID)
	if err != nil {
		return nil, err
	}
	if apartment == nil {
		return nil, domain.ErrNotFound
	}
	return s.toResponse(ctx, apartment)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	apartmentID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	apartment, err := s.repo.FindByID(ctx, s.db, apartmentID)
	if err != nil {
		return nil, err
	}
	if apartment == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		apartment.Name = name
	}
	if req.Phase != nil {
		village, err := s.villages.FindByID(ctx, s.db, apartment.VillageID)
		if err != nil {
			return nil, err
		}
		if village == nil {
			return nil, domain.ErrInvalidVillage
		}
		if *req.Phase < 1 || *req.Phase > village.Phases {
			return nil, domain.ErrInvalidPhase
		}
		apartment.Phase = *req.Phase
	}
	if req.OwnerID != nil {
		ownerID, err := snowflake.ParseString(strings.TrimSpace(*req.OwnerID))
		if err != nil {
			return nil, domain.ErrInvalidOwner
		}
		apartment.OwnerID = ownerID
	}
	if req.PurchaseDate != nil {
		apartment.PurchaseDate = req.PurchaseDate
	}
	if req.PayingStatus != nil {
		status, err := parsePayingStatus(*req.PayingStatus)
		if err != nil {
			return nil, err
		}
		apartment.PayingStatus = status
	}
	if req.SalesStatus != nil {
		status, err := parseSalesStatus(*req.SalesStatus)
		if err != nil {
			return nil, err
		}
		apartment.SalesStatus = status
	}

	if err := s.repo.Update(ctx, s.db, apartment); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, apartment)
}

// Delete refuses while any booking, payment or service request still
// references the apartment.
func (s *Service) Delete(ctx context.Context, id string) error {
	apartmentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}
	apartment, err := s.repo.FindByID(ctx, s.db, apartmentID)
	if err != nil {
		return err
	}
	if apartment == nil {
		return domain.ErrNotFound
	}

	refs, err := s.repo.CountReferences(ctx, s.db, apartmentID)
	if err != nil {
		return err
	}
	if refs.Any() {
		s.log.Warn("apartment delete blocked by references",
			zap.String("apartment_id", apartmentID.String()),
			zap.Int64("bookings", refs.Bookings),
			zap.Int64("payments", refs.Payments),
			zap.Int64("service_requests", refs.ServiceRequests),
		)
		return domain.ErrHasReferences
	}
	return s.repo.Delete(ctx, s.db, apartmentID)
}

func (s *Service) toResponse(ctx context.Context, a *domain.Apartment) (*domain.Response, error) {
	status, err := s.resolver.ResolveStatus(ctx, a.ID, s.clock.Now(ctx))
	if err != nil {
		return nil, err
	}
	resp := baseResponse(a)
	resp.Status = status
	return &resp, nil
}

func baseResponse(a *domain.Apartment) domain.Response {
	return domain.Response{
		ID:           a.ID.String(),
		Name:         a.Name,
		Code:         a.Code,
		VillageID:    a.VillageID.String(),
		Phase:        a.Phase,
		OwnerID:      a.OwnerID.String(),
		PurchaseDate: a.PurchaseDate,
		PayingStatus: a.PayingStatus,
		SalesStatus:  a.SalesStatus,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func parsePayingStatus(value string) (domain.PayingStatus, error) {
	switch domain.PayingStatus(strings.TrimSpace(value)) {
	case domain.PayingStatusTransfer:
		return domain.PayingStatusTransfer, nil
	case domain.PayingStatusRent:
		return domain.PayingStatusRent, nil
	case domain.PayingStatusNonPayer:
		return domain.PayingStatusNonPayer, nil
	default:
		return "", domain.ErrInvalidPayingStatus
	}
}

func parseSalesStatus(value string) (domain.SalesStatus, error) {
	switch domain.SalesStatus(strings.TrimSpace(value)) {
	case domain.SalesStatusNotForSale:
		return domain.SalesStatusNotForSale, nil
	case domain.SalesStatusForSale:
		return domain.SalesStatusForSale, nil
	default:
		return "", domain.ErrInvalidSalesStatus
	}
}
