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

	"github.com/villagiolabs/villagio/internal/apartment/domain"
	bookingdomain "github.com/villagiolabs/villagio/internal/booking/domain"
	bookingservice "github.com/villagiolabs/villagio/internal/booking/service"
	"github.com/villagiolabs/villagio/internal/clock"
	"github.com/villagiolabs/villagio/internal/config"
	paymentdomain "github.com/villagiolabs/villagio/internal/payment/domain"
	servicerequestdomain "github.com/villagiolabs/villagio/internal/servicerequest/domain"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
)

type apartmentEnv struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node
	now  time.Time
}

func newApartmentEnv(t *testing.T) *apartmentEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&villagedomain.Village{},
		&domain.Apartment{},
		&bookingdomain.Booking{},
		&paymentdomain.Payment{},
		&servicerequestdomain.ServiceRequest{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)
	fixed := clock.Fixed{At: now}

	bookingSvc := bookingservice.NewService(bookingservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Config: config.Config{
			Booking: config.BookingConfig{RejectOverlap: true},
		},
	})

	svc := NewService(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fixed,
		Resolver: bookingservice.NewResolver(bookingSvc),
	})
	return &apartmentEnv{svc: svc, db: db, node: node, now: now}
}

func (e *apartmentEnv) seedVillage(t *testing.T, phases int) *villagedomain.Village {
	t.Helper()
	village := villagedomain.Village{
		ID:               e.node.Generate(),
		Name:             "Marina Bay",
		Code:             fmt.Sprintf("marina-bay-%s", e.node.Generate()),
		ElectricityPrice: decimal.RequireFromString("3.75"),
		WaterPrice:       decimal.RequireFromString("12.50"),
		Phases:           phases,
	}
	require.NoError(t, e.db.Create(&village).Error)
	return &village
}

func (e *apartmentEnv) createApartment(t *testing.T, village *villagedomain.Village) *domain.Response {
	t.Helper()
	resp, err := e.svc.Create(context.Background(), domain.CreateRequest{
		Name:         "A-101",
		VillageID:    village.ID.String(),
		Phase:        1,
		OwnerID:      e.node.Generate().String(),
		PayingStatus: string(domain.PayingStatusRent),
	})
	require.NoError(t, err)
	return resp
}

func TestCreateRejectsPhaseOutOfRange(t *testing.T) {
	env := newApartmentEnv(t)
	village := env.seedVillage(t, 2)

	for _, phase := range []int{0, 3} {
		_, err := env.svc.Create(context.Background(), domain.CreateRequest{
			Name:         "A-101",
			VillageID:    village.ID.String(),
			Phase:        phase,
			OwnerID:      env.node.Generate().String(),
			PayingStatus: string(domain.PayingStatusRent),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidPhase, "phase %d", phase)
	}
}

func TestCreateDerivesCodeFromVillage(t *testing.T) {
	env := newApartmentEnv(t)
	village := env.seedVillage(t, 4)

	resp := env.createApartment(t, village)
	assert.Equal(t, fmt.Sprintf("%s-a-101", village.Code), resp.Code)
	assert.Equal(t, domain.SalesStatusNotForSale, resp.SalesStatus)
}

func TestResponseCarriesOccupancyStatus(t *testing.T) {
	env := newApartmentEnv(t)
	village := env.seedVillage(t, 1)
	resp := env.createApartment(t, village)
	assert.Equal(t, bookingdomain.OccupancyAvailable, resp.Status)

	apartmentID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)
	booking := bookingdomain.Booking{
		ID:             env.node.Generate(),
		ApartmentID:    apartmentID,
		UserID:         env.node.Generate(),
		UserType:       bookingdomain.UserTypeRenter,
		Arrival:        env.now.AddDate(0, 0, -2),
		Leaving:        env.now.AddDate(0, 0, 3),
		Status:         bookingdomain.StatusInVillage,
		NumberOfPeople: 2,
	}
	require.NoError(t, env.db.Create(&booking).Error)

	got, err := env.svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingdomain.OccupancyOccupiedByRenter, got.Status)
}

func TestDeleteGuardedByReferences(t *testing.T) {
	env := newApartmentEnv(t)
	village := env.seedVillage(t, 1)
	resp := env.createApartment(t, village)

	apartmentID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)
	payment := paymentdomain.Payment{
		ID:          env.node.Generate(),
		ApartmentID: apartmentID,
		Amount:      decimal.RequireFromString("1500"),
		Currency:    "EGP",
		MethodID:    env.node.Generate(),
		UserType:    paymentdomain.PayerTypeOwner,
		Date:        env.now,
	}
	require.NoError(t, env.db.Create(&payment).Error)

	err = env.svc.Delete(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrHasReferences)

	require.NoError(t, env.db.Delete(&payment).Error)
	require.NoError(t, env.svc.Delete(context.Background(), resp.ID))

	_, err = env.svc.Get(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
