package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/villagiolabs/villagio/internal/accessscope"
	"github.com/villagiolabs/villagio/internal/apikey/domain"
	"github.com/villagiolabs/villagio/internal/clock"
	userdomain "github.com/villagiolabs/villagio/internal/user/domain"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
)

type apiKeyEnv struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node
	now  time.Time
}

func newAPIKeyEnv(t *testing.T) *apiKeyEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userdomain.User{},
		&villagedomain.Village{},
		&domain.APIKey{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)
	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.Fixed{At: now},
	})
	return &apiKeyEnv{svc: svc, db: db, node: node, now: now}
}

func (e *apiKeyEnv) seedUser(t *testing.T, role userdomain.Role) snowflake.ID {
	t.Helper()
	user := userdomain.User{
		ID:    e.node.Generate(),
		Name:  "Mona Adel",
		Email: fmt.Sprintf("mona+%s@example.com", e.node.Generate()),
		Role:  role,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return user.ID
}

func (e *apiKeyEnv) seedVillage(t *testing.T) snowflake.ID {
	t.Helper()
	village := villagedomain.Village{
		ID:               e.node.Generate(),
		Name:             "Green Palms",
		Code:             fmt.Sprintf("green-palms-%s", e.node.Generate()),
		ElectricityPrice: decimal.RequireFromString("3.00"),
		WaterPrice:       decimal.RequireFromString("10.00"),
		Phases:           2,
	}
	require.NoError(t, e.db.Create(&village).Error)
	return village.ID
}

func TestAuthenticateRoundTrip(t *testing.T) {
	env := newAPIKeyEnv(t)
	userID := env.seedUser(t, userdomain.RoleAdmin)

	created, err := env.svc.Create(context.Background(), domain.CreateRequest{
		UserID: userID.String(),
		Name:   "ops",
		Role:   string(userdomain.RoleAdmin),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Key)

	key, err := env.svc.Authenticate(context.Background(), created.Key)
	require.NoError(t, err)
	assert.Equal(t, created.ID, key.ID.String())
	assert.Equal(t, userID, key.UserID)

	_, err = env.svc.Authenticate(context.Background(), created.Key+"x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = env.svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticateRejectsExpiredAndRevoked(t *testing.T) {
	env := newAPIKeyEnv(t)
	userID := env.seedUser(t, userdomain.RoleAdmin)

	expiry := env.now.Add(-time.Hour)
	expired, err := env.svc.Create(context.Background(), domain.CreateRequest{
		UserID:    userID.String(),
		Name:      "stale",
		Role:      string(userdomain.RoleAdmin),
		ExpiresAt: &expiry,
	})
	require.NoError(t, err)
	_, err = env.svc.Authenticate(context.Background(), expired.Key)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	live, err := env.svc.Create(context.Background(), domain.CreateRequest{
		UserID: userID.String(),
		Name:   "short-lived",
		Role:   string(userdomain.RoleAdmin),
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.Revoke(context.Background(), live.ID))
	_, err = env.svc.Authenticate(context.Background(), live.Key)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateRejectsUnknownVillageScope(t *testing.T) {
	env := newAPIKeyEnv(t)
	userID := env.seedUser(t, userdomain.RoleAdmin)

	_, err := env.svc.Create(context.Background(), domain.CreateRequest{
		UserID:     userID.String(),
		Name:       "scoped",
		Role:       string(userdomain.RoleAdmin),
		VillageIDs: []string{env.node.Generate().String()},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVillage)
}

func TestScopeForRoles(t *testing.T) {
	env := newAPIKeyEnv(t)
	villageID := env.seedVillage(t)
	userID := env.node.Generate()

	admin := &domain.APIKey{UserID: userID, Role: userdomain.RoleAdmin}
	scope, err := domain.ScopeFor(admin)
	require.NoError(t, err)
	assert.Equal(t, accessscope.KindUnrestricted, scope.Kind)

	pinned := &domain.APIKey{
		UserID: userID,
		Role:   userdomain.RoleSuperAdmin,
		Scopes: []string{villageID.String()},
	}
	scope, err = domain.ScopeFor(pinned)
	require.NoError(t, err)
	assert.Equal(t, accessscope.KindRestrictedToVillages, scope.Kind)
	require.Len(t, scope.VillageIDs, 1)
	assert.Equal(t, villageID, scope.VillageIDs[0])

	for _, role := range []userdomain.Role{userdomain.RoleOwner, userdomain.RoleRenter} {
		scope, err = domain.ScopeFor(&domain.APIKey{UserID: userID, Role: role})
		require.NoError(t, err)
		assert.Equal(t, accessscope.KindOwnRecordsOnly, scope.Kind)
		assert.Equal(t, userID, scope.UserID)
	}

	_, err = domain.ScopeFor(&domain.APIKey{UserID: userID, Role: "visitor"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}
