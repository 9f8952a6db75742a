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
	apartmentdomain "github.com/villagiolabs/villagio/internal/apartment/domain"
	"github.com/villagiolabs/villagio/internal/billing/domain"
	"github.com/villagiolabs/villagio/internal/clock"
	"github.com/villagiolabs/villagio/internal/currency"
	ledgerservice "github.com/villagiolabs/villagio/internal/ledger/service"
	paymentdomain "github.com/villagiolabs/villagio/internal/payment/domain"
	servicerequestdomain "github.com/villagiolabs/villagio/internal/servicerequest/domain"
	servicetypedomain "github.com/villagiolabs/villagio/internal/servicetype/domain"
	servicetypeservice "github.com/villagiolabs/villagio/internal/servicetype/service"
	utilitydomain "github.com/villagiolabs/villagio/internal/utility/domain"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
)

type testEnv struct {
	svc  *Service
	db   *gorm.DB
	node *snowflake.Node
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&villagedomain.Village{},
		&apartmentdomain.Apartment{},
		&paymentdomain.Payment{},
		&paymentdomain.PaymentMethod{},
		&servicetypedomain.ServiceType{},
		&servicetypedomain.VillagePrice{},
		&servicerequestdomain.ServiceRequest{},
		&utilitydomain.Reading{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	logger := zap.NewNop()

	reader := ledgerservice.NewReader(ledgerservice.Params{DB: db, Log: logger})
	prices := servicetypeservice.NewPriceLookup(servicetypeservice.Params{DB: db, Log: logger, GenID: node})

	svc := NewService(Params{
		DB:     db,
		Log:    logger,
		Clock:  clock.Fixed{At: now},
		Reader: reader,
		Prices: prices,
	}).(*Service)

	return &testEnv{svc: svc, db: db, node: node}
}

func (e *testEnv) village(t *testing.T, name string, electricity, water string) snowflake.ID {
	t.Helper()
	v := villagedomain.Village{
		ID:               e.node.Generate(),
		Name:             name,
		Code:             name,
		ElectricityPrice: decimal.RequireFromString(electricity),
		WaterPrice:       decimal.RequireFromString(water),
		Phases:           1,
	}
	require.NoError(t, e.db.Create(&v).Error)
	return v.ID
}

func (e *testEnv) apartment(t *testing.T, villageID snowflake.ID, name string) snowflake.ID {
	t.Helper()
	a := apartmentdomain.Apartment{
		ID:           e.node.Generate(),
		Name:         name,
		Code:         name,
		VillageID:    villageID,
		Phase:        1,
		OwnerID:      e.node.Generate(),
		PayingStatus: apartmentdomain.PayingStatusRent,
	}
	require.NoError(t, e.db.Create(&a).Error)
	return a.ID
}

func (e *testEnv) payment(t *testing.T, apartmentID snowflake.ID, amount string, cur currency.Currency, date time.Time, payer paymentdomain.PayerType) {
	t.Helper()
	p := paymentdomain.Payment{
		ID:          e.node.Generate(),
		ApartmentID: apartmentID,
		Amount:      decimal.RequireFromString(amount),
		Currency:    cur,
		MethodID:    e.node.Generate(),
		UserType:    payer,
		Date:        date,
	}
	require.NoError(t, e.db.Create(&p).Error)
}

func (e *testEnv) serviceType(t *testing.T, name string) snowflake.ID {
	t.Helper()
	st := servicetypedomain.ServiceType{ID: e.node.Generate(), Name: name}
	require.NoError(t, e.db.Create(&st).Error)
	return st.ID
}

func (e *testEnv) price(t *testing.T, typeID, villageID snowflake.ID, cost string, cur currency.Currency) {
	t.Helper()
	p := servicetypedomain.VillagePrice{
		ID:            e.node.Generate(),
		ServiceTypeID: typeID,
		VillageID:     villageID,
		Cost:          decimal.RequireFromString(cost),
		Currency:      cur,
	}
	require.NoError(t, e.db.Create(&p).Error)
}

func (e *testEnv) request(t *testing.T, typeID, apartmentID snowflake.ID, whoPays servicerequestdomain.WhoPays, date time.Time) {
	t.Helper()
	r := servicerequestdomain.ServiceRequest{
		ID:          e.node.Generate(),
		TypeID:      typeID,
		ApartmentID: apartmentID,
		RequesterID: e.node.Generate(),
		WhoPays:     whoPays,
		Status:      servicerequestdomain.StatusCreated,
		DateAction:  &date,
	}
	require.NoError(t, e.db.Create(&r).Error)
}

func (e *testEnv) reading(t *testing.T, apartmentID snowflake.ID, waterCost, electricityCost string, endDate time.Time, whoPays utilitydomain.WhoPays) {
	t.Helper()
	r := utilitydomain.Reading{
		ID:              e.node.Generate(),
		ApartmentID:     apartmentID,
		StartDate:       endDate.AddDate(0, -1, 0),
		EndDate:         endDate,
		WhoPays:         whoPays,
		WaterCost:       decimal.RequireFromString(waterCost),
		ElectricityCost: decimal.RequireFromString(electricityCost),
	}
	require.NoError(t, e.db.Create(&r).Error)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	village := env.village(t, "v1", "3", "2")
	apartment := env.apartment(t, village, "a1")
	cleaning := env.serviceType(t, "Cleaning")
	env.price(t, cleaning, village, "500", currency.EGP)

	env.payment(t, apartment, "300", currency.EGP, date(2024, time.March, 1), paymentdomain.PayerTypeOwner)
	env.request(t, cleaning, apartment, servicerequestdomain.WhoPaysOwner, date(2024, time.March, 15))

	got, err := env.svc.Summarize(ctx, apartment.String(), domain.SummarizeOptions{})
	require.NoError(t, err)

	assert.Equal(t, "300", got.Spent.EGP.String())
	assert.Equal(t, "0", got.Spent.GBP.String())
	assert.Equal(t, "500", got.Requested.EGP.String())
	assert.Equal(t, "0", got.Requested.GBP.String())
	assert.Equal(t, "200", got.Net.EGP.String())
	assert.Equal(t, "0", got.Net.GBP.String())
}

func TestSummarizeCurrenciesNeverMix(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	village := env.village(t, "v1", "3", "2")
	apartment := env.apartment(t, village, "a1")
	transfer := env.serviceType(t, "Airport Transfer")
	env.price(t, transfer, village, "40", currency.GBP)

	env.payment(t, apartment, "1000", currency.EGP, date(2024, time.February, 1), paymentdomain.PayerTypeOwner)
	env.payment(t, apartment, "25.50", currency.GBP, date(2024, time.February, 2), paymentdomain.PayerTypeRenter)
	env.request(t, transfer, apartment, servicerequestdomain.WhoPaysRenter, date(2024, time.February, 3))

	got, err := env.svc.Summarize(ctx, apartment.String(), domain.SummarizeOptions{})
	require.NoError(t, err)

	assert.Equal(t, "1000", got.Spent.EGP.String())
	assert.Equal(t, "25.5", got.Spent.GBP.String())
	assert.Equal(t, "0", got.Requested.EGP.String())
	assert.Equal(t, "40", got.Requested.GBP.String())
	// net is per-currency, exactly requested minus spent
	assert.Equal(t, "-1000", got.Net.EGP.String())
	assert.Equal(t, "14.5", got.Net.GBP.String())
}

func TestSummarizeCompanyPaidExcluded(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	village := env.village(t, "v1", "3", "2")
	apartment := env.apartment(t, village, "a1")
	cleaning := env.serviceType(t, "Cleaning")
	env.price(t, cleaning, village, "500", currency.EGP)

	env.request(t, cleaning, apartment, servicerequestdomain.WhoPaysCompany, date(2024, time.March, 15))

	got, err := env.svc.Summarize(ctx, apartment.String(), domain.SummarizeOptions{})
	require.NoError(t, err)
	assert.True(t, got.Requested.IsZero())
}

func TestSummarizePricingGapFails(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	village := env.village(t, "v1", "3", "2")
	apartment := env.apartment(t, village, "a1")
	unpriced := env.serviceType(t, "Gardening")

	env.request(t, unpriced, apartment, servicerequestdomain.WhoPaysOwner, date(2024, time.March, 15))

	_, err := env.svc.Summarize(ctx, apartment.String(), domain.SummarizeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, servicetypedomain.ErrPricingGap)

	var gap *servicetypedomain.PricingGapError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, unpriced, gap.ServiceTypeID)
	assert.Equal(t, village, gap.VillageID)
}

func TestSummarizeIncludeUtilities(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	village := env.village(t, "v1", "3", "2")
	apartment := env.apartment(t, village, "a1")

	env.reading(t, apartment, "60", "90", date(2024, time.April, 30), utilitydomain.WhoPaysRenter)
	env.reading(t, apartment, "10", "10", date(2024, time.May, 31), utilitydomain.WhoPaysCompany)

	got, err := env.svc.Summarize(ctx, apartment.String(), domain.SummarizeOptions{})
	require.NoError(t, err)
	assert.True(t, got.Requested.IsZero())

	got, err = env.svc.Summarize(ctx, apartment.String(), domain.SummarizeOptions{IncludeUtilities: true})
	require.NoError(t, err)
	// company-paid reading stays out of the resident's totals
	assert.Equal(t, "150", got.Requested.EGP.String())
	assert.Equal(t, "0", got.Requested.GBP.String())
}

func TestSummarizeNotFound(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))

	_, err := env.svc.Summarize(context.Background(), "12345", domain.SummarizeOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.svc.Summarize(context.Background(), "not-an-id", domain.SummarizeOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestReportZeroRowStability(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	village := env.village(t, "v1", "3", "2")
	apartment := env.apartment(t, village, "a1")
	env.payment(t, apartment, "300", currency.EGP, date(2024, time.March, 1), paymentdomain.PayerTypeOwner)

	year := 2023
	got, err := env.svc.Report(ctx, accessscope.Unrestricted(), domain.ReportRequest{Year: &year})
	require.NoError(t, err)

	// the apartment still appears even though all its rows are 2024
	require.Len(t, got.Summary, 1)
	assert.Equal(t, apartment.String(), got.Summary[0].ApartmentID)
	assert.True(t, got.Summary[0].Spent.IsZero())
	assert.True(t, got.Summary[0].Requested.IsZero())
	assert.True(t, got.Summary[0].Net.IsZero())
	assert.True(t, got.Totals.Spent.IsZero())
}

func TestReportTotalsEqualSumOfRows(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	village := env.village(t, "v1", "3", "2")
	a1 := env.apartment(t, village, "a1")
	a2 := env.apartment(t, village, "a2")
	cleaning := env.serviceType(t, "Cleaning")
	env.price(t, cleaning, village, "500", currency.EGP)

	env.payment(t, a1, "300", currency.EGP, date(2024, time.March, 1), paymentdomain.PayerTypeOwner)
	env.payment(t, a2, "75.25", currency.GBP, date(2024, time.April, 1), paymentdomain.PayerTypeRenter)
	env.request(t, cleaning, a1, servicerequestdomain.WhoPaysOwner, date(2024, time.March, 15))
	env.request(t, cleaning, a2, servicerequestdomain.WhoPaysRenter, date(2024, time.May, 1))

	got, err := env.svc.Report(ctx, accessscope.Unrestricted(), domain.ReportRequest{})
	require.NoError(t, err)
	require.Len(t, got.Summary, 2)

	spent, requested, net := currency.ZeroTotals(), currency.ZeroTotals(), currency.ZeroTotals()
	for _, row := range got.Summary {
		assert.Equal(t, row.Requested.Sub(row.Spent), row.Net)
		spent = spent.AddTotals(row.Spent)
		requested = requested.AddTotals(row.Requested)
		net = net.AddTotals(row.Net)
	}
	assert.Equal(t, spent, got.Totals.Spent)
	assert.Equal(t, requested, got.Totals.Requested)
	assert.Equal(t, net, got.Totals.Net)
}

func TestReportScopeContainment(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	v1 := env.village(t, "v1", "3", "2")
	v2 := env.village(t, "v2", "3", "2")
	a1 := env.apartment(t, v1, "a1")
	env.apartment(t, v2, "a2")

	scope := accessscope.RestrictedToVillages(v1)
	got, err := env.svc.Report(ctx, scope, domain.ReportRequest{})
	require.NoError(t, err)
	require.Len(t, got.Summary, 1)
	assert.Equal(t, a1.String(), got.Summary[0].ApartmentID)

	// naming the out-of-scope village is rejected, not narrowed away
	_, err = env.svc.Report(ctx, scope, domain.ReportRequest{VillageIDs: []string{v2.String()}})
	assert.ErrorIs(t, err, accessscope.ErrAccessDenied)
}

func TestReportDefaultsToCurrentYear(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	village := env.village(t, "v1", "3", "2")
	apartment := env.apartment(t, village, "a1")
	env.payment(t, apartment, "100", currency.EGP, date(2023, time.December, 31), paymentdomain.PayerTypeOwner)
	env.payment(t, apartment, "40", currency.EGP, date(2024, time.January, 1), paymentdomain.PayerTypeOwner)

	got, err := env.svc.Report(ctx, accessscope.Unrestricted(), domain.ReportRequest{})
	require.NoError(t, err)
	require.Len(t, got.Summary, 1)
	assert.Equal(t, "40", got.Summary[0].Spent.EGP.String())
	assert.Equal(t, date(2024, time.January, 1), got.From)
	assert.Equal(t, date(2025, time.January, 1), got.To)
}

func TestReportPayerTypeFilter(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	village := env.village(t, "v1", "3", "2")
	apartment := env.apartment(t, village, "a1")
	env.payment(t, apartment, "100", currency.EGP, date(2024, time.March, 1), paymentdomain.PayerTypeOwner)
	env.payment(t, apartment, "60", currency.EGP, date(2024, time.March, 2), paymentdomain.PayerTypeRenter)

	got, err := env.svc.Report(ctx, accessscope.Unrestricted(), domain.ReportRequest{PayerType: "renter"})
	require.NoError(t, err)
	require.Len(t, got.Summary, 1)
	assert.Equal(t, "60", got.Summary[0].Spent.EGP.String())

	_, err = env.svc.Report(ctx, accessscope.Unrestricted(), domain.ReportRequest{PayerType: "company"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayerType)
}

func TestReportInvalidWindow(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))

	from := date(2024, time.June, 1)
	to := date(2024, time.January, 1)
	_, err := env.svc.Report(context.Background(), accessscope.Unrestricted(), domain.ReportRequest{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	// a one-sided explicit range is malformed too
	_, err = env.svc.Report(context.Background(), accessscope.Unrestricted(), domain.ReportRequest{From: &from})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestReportCancelledContext(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))

	village := env.village(t, "v1", "3", "2")
	env.apartment(t, village, "a1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := env.svc.Report(ctx, accessscope.Unrestricted(), domain.ReportRequest{})
	assert.Error(t, err)
}

func TestPreviousYearsTotal(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	village := env.village(t, "v1", "3", "2")
	apartment := env.apartment(t, village, "a1")
	env.payment(t, apartment, "300", currency.EGP, date(2024, time.March, 1), paymentdomain.PayerTypeOwner)

	// the 2024 payment is not previous to 2024
	got, err := env.svc.PreviousYearsTotal(ctx, accessscope.Unrestricted(), 2024)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	env.payment(t, apartment, "120", currency.EGP, date(2023, time.November, 5), paymentdomain.PayerTypeOwner)
	env.payment(t, apartment, "10", currency.GBP, date(2022, time.July, 1), paymentdomain.PayerTypeRenter)

	got, err = env.svc.PreviousYearsTotal(ctx, accessscope.Unrestricted(), 2024)
	require.NoError(t, err)
	assert.Equal(t, "120", got.EGP.String())
	assert.Equal(t, "10", got.GBP.String())
}

func TestApartmentDetail(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	village := env.village(t, "v1", "3", "2")
	apartment := env.apartment(t, village, "a1")
	cleaning := env.serviceType(t, "Cleaning")
	env.price(t, cleaning, village, "500", currency.EGP)

	env.payment(t, apartment, "300", currency.EGP, date(2024, time.March, 1), paymentdomain.PayerTypeOwner)
	env.request(t, cleaning, apartment, servicerequestdomain.WhoPaysOwner, date(2024, time.March, 15))
	env.request(t, cleaning, apartment, servicerequestdomain.WhoPaysCompany, date(2024, time.April, 1))
	env.reading(t, apartment, "60", "90", date(2024, time.April, 30), utilitydomain.WhoPaysRenter)

	got, err := env.svc.ApartmentDetail(ctx, accessscope.Unrestricted(), domain.DetailRequest{ApartmentID: apartment.String()})
	require.NoError(t, err)

	require.Len(t, got.Bills, 4)
	kinds := make([]domain.EntryKind, 0, len(got.Bills))
	for i := range got.Bills {
		kinds = append(kinds, got.Bills[i].Kind)
		if i > 0 {
			assert.False(t, got.Bills[i].Date.Before(got.Bills[i-1].Date))
		}
	}
	assert.Equal(t, []domain.EntryKind{
		domain.EntryPayment,
		domain.EntryServiceRequest,
		domain.EntryServiceRequest,
		domain.EntryUtilityReading,
	}, kinds)

	// the company-paid row is listed but not owed by the resident
	assert.Equal(t, "300", got.Totals.Spent.EGP.String())
	assert.Equal(t, "650", got.Totals.Requested.EGP.String())
	assert.Equal(t, "350", got.Totals.Net.EGP.String())
}

func TestApartmentDetailScope(t *testing.T) {
	env := newTestEnv(t, date(2024, time.June, 1))
	ctx := context.Background()

	v1 := env.village(t, "v1", "3", "2")
	v2 := env.village(t, "v2", "3", "2")
	apartment := env.apartment(t, v1, "a1")

	_, err := env.svc.ApartmentDetail(ctx, accessscope.RestrictedToVillages(v2), domain.DetailRequest{ApartmentID: apartment.String()})
	assert.ErrorIs(t, err, accessscope.ErrAccessDenied)

	_, err = env.svc.ApartmentDetail(ctx, accessscope.OwnRecordsOnly(env.node.Generate()), domain.DetailRequest{ApartmentID: apartment.String()})
	assert.ErrorIs(t, err, accessscope.ErrAccessDenied)
}
