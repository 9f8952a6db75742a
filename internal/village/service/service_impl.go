package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/villagiolabs/villagio/internal/village/domain"
	"github.com/villagiolabs/villagio/internal/village/repository"
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
		log:   p.Log.Named("village.service"),
		genID: p.GenID,
		repo:  repository.NewRepository(),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Phases < 1 {
		return nil, domain.ErrInvalidPhases
	}
	if req.ElectricityPrice.IsNegative() || req.WaterPrice.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	village := domain.Village{
		ID:               s.genID.Generate(),
		Name:             name,
		Code:             slug.Make(name),
		ElectricityPrice: req.ElectricityPrice,
		WaterPrice:       req.WaterPrice,
		Phases:           req.Phases,
	}
	if err := s.repo.Insert(ctx, s.db, &village); err != nil {
		return nil, err
	}

	s.log.Info("village created", zap.String("village_id", village.ID.String()), zap.String("code", village.Code))
	resp := toResponse(&village)
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
	villageID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	village, err := s.repo.FindByID(ctx, s.db, villageID)
	if err != nil {
		return nil, err
	}
	if village == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(village)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	villageID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	village, err := s.repo.FindByID(ctx, s.db, villageID)
	if err != nil {
		return nil, err
	}
	if village == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		village.Name = name
	}
	if req.Phases != nil {
		if *req.Phases < 1 {
			return nil, domain.ErrInvalidPhases
		}
		village.Phases = *req.Phases
	}
	if req.ElectricityPrice != nil {
		if req.ElectricityPrice.IsNegative() {
			return nil, domain.ErrInvalidPrice
		}
		village.ElectricityPrice = *req.ElectricityPrice
	}
	if req.WaterPrice != nil {
		if req.WaterPrice.IsNegative() {
			return nil, domain.ErrInvalidPrice
		}
		village.WaterPrice = *req.WaterPrice
	}

	if err := s.repo.Update(ctx, s.db, village); err != nil {
		return nil, err
	}
	resp := toResponse(village)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	villageID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}
	village, err := s.repo.FindByID(ctx, s.db, villageID)
	if err != nil {
		return err
	}
	if village == nil {
		return domain.ErrNotFound
	}

	count, err := s.repo.CountApartments(ctx, s.db, villageID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrHasApartments
	}
	return s.repo.Delete(ctx, s.db, villageID)
}

func toResponse(v *domain.Village) domain.Response {
	return domain.Response{
		ID:               v.ID.String(),
		Name:             v.Name,
		Code:             v.Code,
		ElectricityPrice: v.ElectricityPrice,
		WaterPrice:       v.WaterPrice,
		Phases:           v.Phases,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}
