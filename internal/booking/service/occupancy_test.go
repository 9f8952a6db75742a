package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apartmentdomain "github.com/villagiolabs/villagio/internal/apartment/domain"
	"github.com/villagiolabs/villagio/internal/booking/domain"
	"github.com/villagiolabs/villagio/internal/config"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
)

func newBookingEnv(t *testing.T, rejectOverlap bool) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&villagedomain.Village{},
		&apartmentdomain.Apartment{},
		&domain.Booking{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Config: config.Config{
			Booking: config.BookingConfig{RejectOverlap: rejectOverlap},
		},
	})
	return svc, db, node
}

func seedApartment(t *testing.T, db *gorm.DB, node *snowflake.Node) snowflake.ID {
	t.Helper()
	apartment := apartmentdomain.Apartment{
		ID:           node.Generate(),
		Name:         "A-101",
		Code:         "a-101",
		VillageID:    node.Generate(),
		Phase:        1,
		OwnerID:      node.Generate(),
		PayingStatus: apartmentdomain.PayingStatusRent,
	}
	require.NoError(t, db.Create(&apartment).Error)
	return apartment.ID
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveStatusRenterWindow(t *testing.T) {
	svc, db, node := newBookingEnv(t, false)
	ctx := context.Background()
	apartmentID := seedApartment(t, db, node)

	_, err := svc.Create(ctx, domain.CreateRequest{
		ApartmentID:    apartmentID.String(),
		UserID:         node.Generate().String(),
		UserType:       "renter",
		Arrival:        date(2024, 6, 1),
		Leaving:        date(2024, 6, 10),
		Status:         "in_village",
		NumberOfPeople: 2,
	})
	require.NoError(t, err)

	status, err := svc.ResolveStatus(ctx, apartmentID, date(2024, 6, 5))
	require.NoError(t, err)
	assert.Equal(t, domain.OccupancyOccupiedByRenter, status)

	status, err = svc.ResolveStatus(ctx, apartmentID, date(2024, 7, 1))
	require.NoError(t, err)
	assert.Equal(t, domain.OccupancyAvailable, status)
}

func TestResolveStatusBoundariesInclusive(t *testing.T) {
	svc, db, node := newBookingEnv(t, false)
	ctx := context.Background()
	apartmentID := seedApartment(t, db, node)

	_, err := svc.Create(ctx, domain.CreateRequest{
		ApartmentID:    apartmentID.String(),
		UserID:         node.Generate().String(),
		UserType:       "owner",
		Arrival:        date(2024, 6, 1),
		Leaving:        date(2024, 6, 10),
		Status:         "in_village",
		NumberOfPeople: 1,
	})
	require.NoError(t, err)

	for _, asOf := range []time.Time{date(2024, 6, 1), date(2024, 6, 10)} {
		status, err := svc.ResolveStatus(ctx, apartmentID, asOf)
		require.NoError(t, err)
		assert.Equal(t, domain.OccupancyOccupiedByOwner, status, asOf)
	}

	status, err := svc.ResolveStatus(ctx, apartmentID, date(2024, 5, 31))
	require.NoError(t, err)
	assert.Equal(t, domain.OccupancyAvailable, status)
}

func TestResolveStatusLeftBookingDoesNotOccupy(t *testing.T) {
	svc, db, node := newBookingEnv(t, false)
	ctx := context.Background()
	apartmentID := seedApartment(t, db, node)

	created, err := svc.Create(ctx, domain.CreateRequest{
		ApartmentID:    apartmentID.String(),
		UserID:         node.Generate().String(),
		UserType:       "renter",
		Arrival:        date(2024, 6, 1),
		Leaving:        date(2024, 6, 10),
		Status:         "left",
		NumberOfPeople: 2,
	})
	require.NoError(t, err)

	status, err := svc.ResolveStatus(ctx, apartmentID, date(2024, 6, 5))
	require.NoError(t, err)
	assert.Equal(t, domain.OccupancyAvailable, status)
	_ = created
}

func TestResolveStatusLatestQualifyingWins(t *testing.T) {
	svc, db, node := newBookingEnv(t, false)
	ctx := context.Background()
	apartmentID := seedApartment(t, db, node)

	// Overlap is not rejected: an owner stay and a renter stay can
	// coexist in the data. The later created booking decides.
	_, err := svc.Create(ctx, domain.CreateRequest{
		ApartmentID:    apartmentID.String(),
		UserID:         node.Generate().String(),
		UserType:       "owner",
		Arrival:        date(2024, 6, 1),
		Leaving:        date(2024, 6, 20),
		Status:         "in_village",
		NumberOfPeople: 1,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{
		ApartmentID:    apartmentID.String(),
		UserID:         node.Generate().String(),
		UserType:       "renter",
		Arrival:        date(2024, 6, 5),
		Leaving:        date(2024, 6, 15),
		Status:         "in_village",
		NumberOfPeople: 2,
	})
	require.NoError(t, err)

	status, err := svc.ResolveStatus(ctx, apartmentID, date(2024, 6, 10))
	require.NoError(t, err)
	assert.Equal(t, domain.OccupancyOccupiedByRenter, status)
}

func TestResolveStatusesBulk(t *testing.T) {
	svc, db, node := newBookingEnv(t, false)
	ctx := context.Background()
	occupied := seedApartment(t, db, node)

	empty := apartmentdomain.Apartment{
		ID:           node.Generate(),
		Name:         "A-102",
		Code:         "a-102",
		VillageID:    node.Generate(),
		Phase:        1,
		OwnerID:      node.Generate(),
		PayingStatus: apartmentdomain.PayingStatusRent,
	}
	require.NoError(t, db.Create(&empty).Error)

	_, err := svc.Create(ctx, domain.CreateRequest{
		ApartmentID:    occupied.String(),
		UserID:         node.Generate().String(),
		UserType:       "owner",
		Arrival:        date(2024, 6, 1),
		Leaving:        date(2024, 6, 10),
		Status:         "in_village",
		NumberOfPeople: 1,
	})
	require.NoError(t, err)

	statuses, err := svc.ResolveStatuses(ctx, []snowflake.ID{occupied, empty.ID}, date(2024, 6, 5))
	require.NoError(t, err)
	assert.Equal(t, domain.OccupancyOccupiedByOwner, statuses[occupied])
	assert.Equal(t, domain.OccupancyAvailable, statuses[empty.ID])
}

func TestCreateRejectsOverlapWhenEnabled(t *testing.T) {
	svc, db, node := newBookingEnv(t, true)
	ctx := context.Background()
	apartmentID := seedApartment(t, db, node)

	_, err := svc.Create(ctx, domain.CreateRequest{
		ApartmentID:    apartmentID.String(),
		UserID:         node.Generate().String(),
		UserType:       "renter",
		Arrival:        date(2024, 6, 1),
		Leaving:        date(2024, 6, 10),
		Status:         "in_village",
		NumberOfPeople: 2,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{
		ApartmentID:    apartmentID.String(),
		UserID:         node.Generate().String(),
		UserType:       "owner",
		Arrival:        date(2024, 6, 5),
		Leaving:        date(2024, 6, 15),
		Status:         "in_village",
		NumberOfPeople: 1,
	})
	assert.ErrorIs(t, err, domain.ErrOverlap)
}

func TestCreateRejectsInvalidInterval(t *testing.T) {
	svc, db, node := newBookingEnv(t, false)
	ctx := context.Background()
	apartmentID := seedApartment(t, db, node)

	_, err := svc.Create(ctx, domain.CreateRequest{
		ApartmentID:    apartmentID.String(),
		UserID:         node.Generate().String(),
		UserType:       "renter",
		Arrival:        date(2024, 6, 10),
		Leaving:        date(2024, 6, 1),
		Status:         "in_village",
		NumberOfPeople: 2,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}
