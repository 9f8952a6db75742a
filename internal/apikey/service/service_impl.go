package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	"github.com/villagiolabs/villagio/internal/apikey/domain"
	"github.com/villagiolabs/villagio/internal/apikey/repository"
	"github.com/villagiolabs/villagio/internal/clock"
	userdomain "github.com/villagiolabs/villagio/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  *repository.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("apikey.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  repository.NewRepository(),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.CreatedResponse, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil {
		return nil, domain.ErrInvalidUser
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, err
	}

	var userCount int64
	if err := s.db.WithContext(ctx).Table("users").Where("id = ?", userID).Count(&userCount).Error; err != nil {
		return nil, err
	}
	if userCount == 0 {
		return nil, domain.ErrInvalidUser
	}

	scopes := make(pq.StringArray, 0, len(req.VillageIDs))
	for _, raw := range req.VillageIDs {
		villageID, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return nil, domain.ErrInvalidVillage
		}
		var count int64
		if err := s.db.WithContext(ctx).Table("villages").Where("id = ?", villageID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.ErrInvalidVillage
		}
		scopes = append(scopes, villageID.String())
	}

	raw := domain.GenerateKey()
	key := domain.APIKey{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Name:      name,
		KeyHash:   domain.HashAPIKey(raw),
		Role:      role,
		Scopes:    scopes,
		IsActive:  true,
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.repo.Insert(ctx, s.db, &key); err != nil {
		return nil, err
	}

	s.log.Info("api key issued",
		zap.String("key_id", key.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", string(role)),
	)
	return &domain.CreatedResponse{Response: toResponse(&key), Key: raw}, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Response, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil {
		return nil, domain.ErrInvalidUser
	}
	keys, err := s.repo.ListByUser(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Response, 0, len(keys))
	for i := range keys {
		out = append(out, toResponse(&keys[i]))
	}
	return out, nil
}

func (s *Service) Revoke(ctx context.Context, id string) error {
	keyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}
	key, err := s.repo.FindByID(ctx, s.db, keyID)
	if err != nil {
		return err
	}
	if key == nil {
		return domain.ErrNotFound
	}
	if err := s.repo.Deactivate(ctx, s.db, keyID); err != nil {
		return err
	}
	s.log.Info("api key revoked", zap.String("key_id", keyID.String()))
	return nil
}

func (s *Service) Authenticate(ctx context.Context, raw string) (*domain.APIKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.ErrUnauthorized
	}
	hash := domain.HashAPIKey(raw)
	key, err := s.repo.FindByHash(ctx, s.db, hash)
	if err != nil {
		return nil, err
	}
	if key == nil || subtle.ConstantTimeCompare([]byte(key.KeyHash), []byte(hash)) != 1 {
		return nil, domain.ErrUnauthorized
	}
	if key.Expired(s.clock.Now(ctx)) {
		return nil, domain.ErrUnauthorized
	}
	return key, nil
}

func toResponse(k *domain.APIKey) domain.Response {
	return domain.Response{
		ID:         k.ID.String(),
		UserID:     k.UserID.String(),
		Name:       k.Name,
		Role:       k.Role,
		VillageIDs: append([]string(nil), k.Scopes...),
		IsActive:   k.IsActive,
		ExpiresAt:  k.ExpiresAt,
		CreatedAt:  k.CreatedAt,
	}
}

func parseRole(value string) (userdomain.Role, error) {
	switch userdomain.Role(strings.TrimSpace(value)) {
	case userdomain.RoleOwner:
		return userdomain.RoleOwner, nil
	case userdomain.RoleRenter:
		return userdomain.RoleRenter, nil
	case userdomain.RoleAdmin:
		return userdomain.RoleAdmin, nil
	case userdomain.RoleSuperAdmin:
		return userdomain.RoleSuperAdmin, nil
	default:
		return "", domain.ErrInvalidRole
	}
}
