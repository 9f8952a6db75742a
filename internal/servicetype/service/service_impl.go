package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/villagiolabs/villagio/internal/currency"
	"github.com/villagiolabs/villagio/internal/servicetype/domain"
	"github.com/villagiolabs/villagio/internal/servicetype/repository"
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
		log:   p.Log.Named("servicetype.service"),
		genID: p.GenID,
		repo:  repository.NewRepository(),
	}
}

func NewPriceLookup(p Params) domain.PriceLookup {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("servicetype.pricelookup"),
		genID: p.GenID,
		repo:  repository.NewRepository(),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	serviceType := domain.ServiceType{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if v := strings.TrimSpace(req.DefaultAssignee); v != "" {
		assignee, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		serviceType.DefaultAssignee = &assignee
	}

	if err := s.repo.Insert(ctx, s.db, &serviceType); err != nil {
		return nil, err
	}
	resp := toResponse(&serviceType)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	rows, err := s.repo.List(ctx, s.db)
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
	typeID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	serviceType, err := s.repo.FindByID(ctx, s.db, typeID)
	if err != nil {
		return nil, err
	}
	if serviceType == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(serviceType)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	typeID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}
	serviceType, err := s.repo.FindByID(ctx, s.db, typeID)
	if err != nil {
		return err
	}
	if serviceType == nil {
		return domain.ErrNotFound
	}
	count, err := s.repo.CountRequests(ctx, s.db, typeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrTypeInUse
	}
	return s.repo.Delete(ctx, s.db, typeID)
}

func (s *Service) SetVillagePrice(ctx context.Context, req domain.SetPriceRequest) (*domain.PriceResponse, error) {
	typeID, err := snowflake.ParseString(strings.TrimSpace(req.ServiceTypeID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	villageID, err := snowflake.ParseString(strings.TrimSpace(req.VillageID))
	if err != nil {
		return nil, domain.ErrInvalidVillage
	}
	if req.Cost.IsNegative() {
		return nil, domain.ErrInvalidCost
	}
	cur, err := currency.Parse(req.Currency)
	if err != nil {
		return nil, err
	}

	serviceType, err := s.repo.FindByID(ctx, s.db, typeID)
	if err != nil {
		return nil, err
	}
	if serviceType == nil {
		return nil, domain.ErrNotFound
	}

	var villageCount int64
	if err := s.db.WithContext(ctx).Table("villages").Where("id = ?", villageID).Count(&villageCount).Error; err != nil {
		return nil, err
	}
	if villageCount == 0 {
		return nil, domain.ErrInvalidVillage
	}

	price := domain.VillagePrice{
		ID:            s.genID.Generate(),
		ServiceTypeID: typeID,
		VillageID:     villageID,
		Cost:          req.Cost,
		Currency:      cur,
	}
	if err := s.repo.UpsertPrice(ctx, s.db, &price); err != nil {
		return nil, err
	}

	s.log.Info("village price set",
		zap.String("service_type_id", typeID.String()),
		zap.String("village_id", villageID.String()),
		zap.String("cost", price.Cost.String()),
		zap.String("currency", string(cur)),
	)
	resp := toPriceResponse(&price)
	return &resp, nil
}

func (s *Service) ListVillagePrices(ctx context.Context, serviceTypeID string) ([]domain.PriceResponse, error) {
	typeID, err := snowflake.ParseString(strings.TrimSpace(serviceTypeID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	rows, err := s.repo.ListPrices(ctx, s.db, typeID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PriceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toPriceResponse(&rows[i]))
	}
	return out, nil
}

// Lookup implements domain.PriceLookup. The absence of a price row is a
// PricingGap and surfaces as such; it must never be folded into a zero
// cost.
func (s *Service) Lookup(ctx context.Context, serviceTypeID, villageID snowflake.ID) (domain.Money, error) {
	price, err := s.repo.FindPrice(ctx, s.db, serviceTypeID, villageID)
	if err != nil {
		return domain.Money{}, err
	}
	if price == nil {
		s.log.Warn("pricing gap",
			zap.String("service_type_id", serviceTypeID.String()),
			zap.String("village_id", villageID.String()),
		)
		return domain.Money{}, &domain.PricingGapError{ServiceTypeID: serviceTypeID, VillageID: villageID}
	}
	return domain.Money{Amount: price.Cost, Currency: price.Currency}, nil
}

func toResponse(t *domain.ServiceType) domain.Response {
	resp := domain.Response{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
	if t.DefaultAssignee != nil {
		id := t.DefaultAssignee.String()
		resp.DefaultAssignee = &id
	}
	return resp
}

func toPriceResponse(p *domain.VillagePrice) domain.PriceResponse {
	return domain.PriceResponse{
		ID:            p.ID.String(),
		ServiceTypeID: p.ServiceTypeID.String(),
		VillageID:     p.VillageID.String(),
		Cost:          p.Cost,
		Currency:      p.Currency,
	}
}
