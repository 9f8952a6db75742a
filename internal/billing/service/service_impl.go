package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	apartmentdomain "github.com/villagiolabs/villagio/internal/apartment/domain"
	apartmentrepository "github.com/villagiolabs/villagio/internal/apartment/repository"
	"github.com/villagiolabs/villagio/internal/billing/domain"
	"github.com/villagiolabs/villagio/internal/clock"
	"github.com/villagiolabs/villagio/internal/currency"
	ledgerdomain "github.com/villagiolabs/villagio/internal/ledger/domain"
	paymentdomain "github.com/villagiolabs/villagio/internal/payment/domain"
	servicerequestdomain "github.com/villagiolabs/villagio/internal/servicerequest/domain"
	servicetypedomain "github.com/villagiolabs/villagio/internal/servicetype/domain"
	utilitydomain "github.com/villagiolabs/villagio/internal/utility/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Reader ledgerdomain.Reader
	Prices servicetypedomain.PriceLookup
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	reader     ledgerdomain.Reader
	prices     servicetypedomain.PriceLookup
	apartments apartmentdomain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("billing.service"),
		clock:      p.Clock,
		reader:     p.Reader,
		prices:     p.Prices,
		apartments: apartmentrepository.NewRepository(),
	}
}

// Summarize aggregates the apartment's entire ledger with no window.
func (s *Service) Summarize(ctx context.Context, apartmentID string, opts domain.SummarizeOptions) (*domain.Summary, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(apartmentID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	apartment, err := s.apartments.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if apartment == nil {
		return nil, domain.ErrNotFound
	}

	ids := []snowflake.ID{id}
	window := ledgerdomain.Window{}
	payments, err := s.reader.Payments(ctx, ids, window)
	if err != nil {
		return nil, err
	}
	requests, err := s.reader.ServiceRequests(ctx, ids, window)
	if err != nil {
		return nil, err
	}
	var readings map[snowflake.ID][]utilitydomain.Reading
	if opts.IncludeUtilities {
		readings, err = s.reader.UtilityReadings(ctx, ids, window)
		if err != nil {
			return nil, err
		}
	}

	prices := newPriceCache(s.prices)
	summary, err := s.aggregate(ctx, apartment, payments[id], requests[id], readings[id], "", prices)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// aggregate folds one apartment's windowed rows into a summary. Company
// is its own payer, so company-paid rows never count toward what the
// resident owes. A pricing gap fails the summary rather than pricing
// the request as zero.
func (s *Service) aggregate(
	ctx context.Context,
	apartment *apartmentdomain.Apartment,
	payments []paymentdomain.Payment,
	requests []servicerequestdomain.ServiceRequest,
	readings []utilitydomain.Reading,
	payerType string,
	prices *priceCache,
) (domain.Summary, error) {
	spent := currency.ZeroTotals()
	for i := range payments {
		if payerType != "" && string(payments[i].UserType) != payerType {
			continue
		}
		spent = spent.Add(payments[i].Currency, payments[i].Amount)
	}

	requested := currency.ZeroTotals()
	for i := range requests {
		request := &requests[i]
		if request.WhoPays == servicerequestdomain.WhoPaysCompany {
			continue
		}
		if payerType != "" && string(request.WhoPays) != payerType {
			continue
		}
		money, err := prices.lookup(ctx, request.TypeID, apartment.VillageID)
		if err != nil {
			return domain.Summary{}, err
		}
		requested = requested.Add(money.Currency, money.Amount)
	}

	for i := range readings {
		reading := &readings[i]
		if reading.WhoPays == utilitydomain.WhoPaysCompany {
			continue
		}
		if payerType != "" && string(reading.WhoPays) != payerType {
			continue
		}
		requested = requested.Add(currency.EGP, reading.TotalCost())
	}

	return domain.Summary{
		ApartmentID:   apartment.ID.String(),
		ApartmentName: apartment.Name,
		VillageID:     apartment.VillageID.String(),
		Spent:         spent,
		Requested:     requested,
		Net:           requested.Sub(spent),
	}, nil
}

// priceCache memoizes village price lookups for the duration of one
// request. A gap is memoized too so every request against the same
// unpriced pair fails identically.
type priceCache struct {
	lookupFn servicetypedomain.PriceLookup
	hits     map[priceKey]servicetypedomain.Money
	misses   map[priceKey]error
}

type priceKey struct {
	serviceTypeID snowflake.ID
	villageID     snowflake.ID
}

func newPriceCache(lookup servicetypedomain.PriceLookup) *priceCache {
	return &priceCache{
		lookupFn: lookup,
		hits:     make(map[priceKey]servicetypedomain.Money),
		misses:   make(map[priceKey]error),
	}
}

func (c *priceCache) lookup(ctx context.Context, serviceTypeID, villageID snowflake.ID) (servicetypedomain.Money, error) {
	key := priceKey{serviceTypeID, villageID}
	if money, ok := c.hits[key]; ok {
		return money, nil
	}
	if err, ok := c.misses[key]; ok {
		return servicetypedomain.Money{}, err
	}
	money, err := c.lookupFn.Lookup(ctx, serviceTypeID, villageID)
	if err != nil {
		c.misses[key] = err
		return servicetypedomain.Money{}, err
	}
	c.hits[key] = money
	return money, nil
}

// resolveWindow turns the year-or-explicit-range request form into a
// half-open UTC window. An explicit range wins over a year; with
// neither, the window is the current year.
func (s *Service) resolveWindow(ctx context.Context, year *int, from, to *time.Time) (time.Time, time.Time, error) {
	if from != nil || to != nil {
		if from == nil || to == nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidWindow
		}
		if !to.After(*from) {
			return time.Time{}, time.Time{}, domain.ErrInvalidWindow
		}
		return from.UTC(), to.UTC(), nil
	}
	y := s.clock.Now(ctx).UTC().Year()
	if year != nil {
		if *year <= 0 {
			return time.Time{}, time.Time{}, domain.ErrInvalidYear
		}
		y = *year
	}
	start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0), nil
}

func parsePayerType(value string) (string, error) {
	v := strings.TrimSpace(value)
	switch v {
	case "", string(paymentdomain.PayerTypeOwner), string(paymentdomain.PayerTypeRenter):
		return v, nil
	default:
		return "", domain.ErrInvalidPayerType
	}
}

func parseVillageIDs(values []string) ([]snowflake.ID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]snowflake.ID, 0, len(values))
	for _, v := range values {
		id, err := snowflake.ParseString(strings.TrimSpace(v))
		if err != nil {
			return nil, domain.ErrInvalidVillage
		}
		ids = append(ids, id)
	}
	return ids, nil
}
