package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/villagiolabs/villagio/internal/currency"
	servicerequestdomain "github.com/villagiolabs/villagio/internal/servicerequest/domain"
	"github.com/villagiolabs/villagio/internal/servicetype/domain"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
)

func newServiceTypeEnv(t *testing.T) (domain.Service, domain.PriceLookup, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&villagedomain.Village{},
		&domain.ServiceType{},
		&domain.VillagePrice{},
		&servicerequestdomain.ServiceRequest{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	params := Params{DB: db, Log: zap.NewNop(), GenID: node}
	return NewService(params), NewPriceLookup(params), db, node
}

func seedVillage(t *testing.T, db *gorm.DB, node *snowflake.Node) snowflake.ID {
	t.Helper()
	village := villagedomain.Village{
		ID:               node.Generate(),
		Name:             "Marina",
		Code:             fmt.Sprintf("marina-%d", node.Generate()),
		ElectricityPrice: decimal.RequireFromString("12.50"),
		WaterPrice:       decimal.RequireFromString("3.75"),
		Phases:           1,
	}
	require.NoError(t, db.Create(&village).Error)
	return village.ID
}

func TestSetVillagePriceUpserts(t *testing.T) {
	svc, _, db, node := newServiceTypeEnv(t)
	ctx := context.Background()
	villageID := seedVillage(t, db, node)

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Cleaning"})
	require.NoError(t, err)

	first, err := svc.SetVillagePrice(ctx, domain.SetPriceRequest{
		ServiceTypeID: created.ID,
		VillageID:     villageID.String(),
		Cost:          decimal.RequireFromString("150.00"),
		Currency:      "EGP",
	})
	require.NoError(t, err)
	assert.Equal(t, "150", first.Cost.String())

	// A second set for the same pair replaces, never duplicates.
	_, err = svc.SetVillagePrice(ctx, domain.SetPriceRequest{
		ServiceTypeID: created.ID,
		VillageID:     villageID.String(),
		Cost:          decimal.RequireFromString("175.00"),
		Currency:      "EGP",
	})
	require.NoError(t, err)

	prices, err := svc.ListVillagePrices(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "175", prices[0].Cost.String())
	assert.Equal(t, currency.EGP, prices[0].Currency)
}

func TestSetVillagePriceRejectsUnknownCurrency(t *testing.T) {
	svc, _, db, node := newServiceTypeEnv(t)
	ctx := context.Background()
	villageID := seedVillage(t, db, node)

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Cleaning"})
	require.NoError(t, err)

	_, err = svc.SetVillagePrice(ctx, domain.SetPriceRequest{
		ServiceTypeID: created.ID,
		VillageID:     villageID.String(),
		Cost:          decimal.RequireFromString("150.00"),
		Currency:      "USD",
	})
	assert.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
}

func TestLookupReportsPricingGap(t *testing.T) {
	svc, lookup, db, node := newServiceTypeEnv(t)
	ctx := context.Background()
	villageID := seedVillage(t, db, node)
	otherVillage := seedVillage(t, db, node)

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Gardening"})
	require.NoError(t, err)
	typeID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	_, err = svc.SetVillagePrice(ctx, domain.SetPriceRequest{
		ServiceTypeID: created.ID,
		VillageID:     villageID.String(),
		Cost:          decimal.RequireFromString("200.00"),
		Currency:      "EGP",
	})
	require.NoError(t, err)

	money, err := lookup.Lookup(ctx, typeID, villageID)
	require.NoError(t, err)
	assert.Equal(t, "200", money.Amount.String())
	assert.Equal(t, currency.EGP, money.Currency)

	// The same type in an unpriced village is a gap, not a zero cost.
	_, err = lookup.Lookup(ctx, typeID, otherVillage)
	require.ErrorIs(t, err, domain.ErrPricingGap)

	var gap *domain.PricingGapError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, typeID, gap.ServiceTypeID)
	assert.Equal(t, otherVillage, gap.VillageID)
}

func TestDeleteGuardsReferencedType(t *testing.T) {
	svc, _, db, node := newServiceTypeEnv(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Maintenance"})
	require.NoError(t, err)
	typeID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	request := servicerequestdomain.ServiceRequest{
		ID:          node.Generate(),
		TypeID:      typeID,
		ApartmentID: node.Generate(),
		RequesterID: node.Generate(),
		WhoPays:     servicerequestdomain.WhoPaysOwner,
		Status:      servicerequestdomain.StatusCreated,
	}
	require.NoError(t, db.Create(&request).Error)

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrTypeInUse)

	require.NoError(t, db.Delete(&request).Error)
	require.NoError(t, svc.Delete(ctx, created.ID))
}
