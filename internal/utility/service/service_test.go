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

	apartmentdomain "github.com/villagiolabs/villagio/internal/apartment/domain"
	bookingdomain "github.com/villagiolabs/villagio/internal/booking/domain"
	"github.com/villagiolabs/villagio/internal/utility/domain"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
)

type utilityEnv struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node
}

func newUtilityEnv(t *testing.T) *utilityEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&villagedomain.Village{},
		&apartmentdomain.Apartment{},
		&bookingdomain.Booking{},
		&domain.Reading{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{DB: db, Log: zap.NewNop(), GenID: node})
	return &utilityEnv{svc: svc, db: db, node: node}
}

func (e *utilityEnv) apartment(t *testing.T, water, electricity string) snowflake.ID {
	t.Helper()
	village := villagedomain.Village{
		ID:               e.node.Generate(),
		Name:             "Marina",
		Code:             fmt.Sprintf("marina-%d", e.node.Generate()),
		ElectricityPrice: decimal.RequireFromString(electricity),
		WaterPrice:       decimal.RequireFromString(water),
		Phases:           1,
	}
	require.NoError(t, e.db.Create(&village).Error)

	apartment := apartmentdomain.Apartment{
		ID:           e.node.Generate(),
		Name:         "A-101",
		Code:         fmt.Sprintf("a-%d", e.node.Generate()),
		VillageID:    village.ID,
		Phase:        1,
		OwnerID:      e.node.Generate(),
		PayingStatus: apartmentdomain.PayingStatusRent,
	}
	require.NoError(t, e.db.Create(&apartment).Error)
	return apartment.ID
}

func validCreateRequest(apartmentID snowflake.ID) domain.CreateRequest {
	return domain.CreateRequest{
		ApartmentID:      apartmentID.String(),
		WaterStart:       decimal.RequireFromString("100.00"),
		WaterEnd:         decimal.RequireFromString("112.00"),
		ElectricityStart: decimal.RequireFromString("5000.00"),
		ElectricityEnd:   decimal.RequireFromString("5080.00"),
		StartDate:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		WhoPays:          "renter",
	}
}

func TestCreateCachesCosts(t *testing.T) {
	env := newUtilityEnv(t)
	ctx := context.Background()
	apartmentID := env.apartment(t, "3.75", "12.50")

	resp, err := env.svc.Create(ctx, validCreateRequest(apartmentID))
	require.NoError(t, err)

	// 12 m3 of water at 3.75, 80 kWh at 12.50.
	assert.Equal(t, "12", resp.WaterConsumption.String())
	assert.Equal(t, "80", resp.ElectricityConsumption.String())
	assert.Equal(t, "45", resp.WaterCost.String())
	assert.Equal(t, "1000", resp.ElectricityCost.String())

	var stored domain.Reading
	require.NoError(t, env.db.First(&stored).Error)
	assert.True(t, stored.WaterCost.Equal(decimal.RequireFromString("45")))
	assert.True(t, stored.ElectricityCost.Equal(decimal.RequireFromString("1000")))
}

func TestCreateRejectsDecreasedReading(t *testing.T) {
	env := newUtilityEnv(t)
	ctx := context.Background()
	apartmentID := env.apartment(t, "3.75", "12.50")

	req := validCreateRequest(apartmentID)
	req.WaterEnd = decimal.RequireFromString("99.00")
	_, err := env.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrReadingDecreased)
}

func TestCreateRejectsInvertedPeriod(t *testing.T) {
	env := newUtilityEnv(t)
	ctx := context.Background()
	apartmentID := env.apartment(t, "3.75", "12.50")

	req := validCreateRequest(apartmentID)
	req.StartDate, req.EndDate = req.EndDate, req.StartDate
	_, err := env.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestCreateRejectsForeignBooking(t *testing.T) {
	env := newUtilityEnv(t)
	ctx := context.Background()
	apartmentID := env.apartment(t, "3.75", "12.50")
	otherApartment := env.apartment(t, "3.00", "10.00")

	booking := bookingdomain.Booking{
		ID:             env.node.Generate(),
		ApartmentID:    otherApartment,
		UserID:         env.node.Generate(),
		UserType:       bookingdomain.UserTypeRenter,
		Arrival:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Leaving:        time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:         bookingdomain.StatusInVillage,
		NumberOfPeople: 1,
	}
	require.NoError(t, env.db.Create(&booking).Error)

	req := validCreateRequest(apartmentID)
	req.BookingID = booking.ID.String()
	_, err := env.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidBooking)
}

func TestCheckConsistencyReportsDriftWithoutRewriting(t *testing.T) {
	env := newUtilityEnv(t)
	ctx := context.Background()
	apartmentID := env.apartment(t, "3.75", "12.50")

	resp, err := env.svc.Create(ctx, validCreateRequest(apartmentID))
	require.NoError(t, err)

	drifts, err := env.svc.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)

	// A village price change makes the cached costs stale.
	require.NoError(t, env.db.Model(&villagedomain.Village{}).
		Where("1 = 1").
		Update("water_price", decimal.RequireFromString("4.00")).Error)

	drifts, err = env.svc.CheckConsistency(ctx)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, resp.ID, drifts[0].ReadingID)
	assert.Equal(t, "45", drifts[0].StoredWaterCost.String())
	assert.Equal(t, "48", drifts[0].ExpectedWaterCost.String())

	// The stored row is untouched.
	var stored domain.Reading
	require.NoError(t, env.db.First(&stored).Error)
	assert.True(t, stored.WaterCost.Equal(decimal.RequireFromString("45")))
}

func TestCheckConsistencyHonorsCancellation(t *testing.T) {
	env := newUtilityEnv(t)
	apartmentID := env.apartment(t, "3.75", "12.50")

	_, err := env.svc.Create(context.Background(), validCreateRequest(apartmentID))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = env.svc.CheckConsistency(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
