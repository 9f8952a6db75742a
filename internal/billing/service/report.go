package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/villagiolabs/villagio/internal/accessscope"
	apartmentdomain "github.com/villagiolabs/villagio/internal/apartment/domain"
	"github.com/villagiolabs/villagio/internal/billing/domain"
	"github.com/villagiolabs/villagio/internal/currency"
	ledgerdomain "github.com/villagiolabs/villagio/internal/ledger/domain"
	paymentdomain "github.com/villagiolabs/villagio/internal/payment/domain"
	servicerequestdomain "github.com/villagiolabs/villagio/internal/servicerequest/domain"
	utilitydomain "github.com/villagiolabs/villagio/internal/utility/domain"
	"go.uber.org/zap"
)

// Report aggregates the scoped portfolio inside one window. Either the
// full scoped result set comes back or an error does; a cancellation
// mid-portfolio never surfaces a partial report as if it were complete.
func (s *Service) Report(ctx context.Context, scope accessscope.Scope, req domain.ReportRequest) (*domain.Report, error) {
	payerType, err := parsePayerType(req.PayerType)
	if err != nil {
		return nil, err
	}
	requested, err := parseVillageIDs(req.VillageIDs)
	if err != nil {
		return nil, err
	}
	villageIDs, err := scope.Narrow(requested)
	if err != nil {
		return nil, err
	}
	from, to, err := s.resolveWindow(ctx, req.Year, req.From, req.To)
	if err != nil {
		return nil, err
	}

	apartments, err := s.scopedApartments(ctx, scope, villageIDs)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(apartments))
	for i := range apartments {
		ids = append(ids, apartments[i].ID)
	}
	window := ledgerdomain.Window{From: &from, To: &to}
	payments, err := s.reader.Payments(ctx, ids, window)
	if err != nil {
		return nil, err
	}
	requests, err := s.reader.ServiceRequests(ctx, ids, window)
	if err != nil {
		return nil, err
	}
	readings := map[snowflake.ID][]utilitydomain.Reading{}
	if req.IncludeUtilities {
		readings, err = s.reader.UtilityReadings(ctx, ids, window)
		if err != nil {
			return nil, err
		}
	}

	prices := newPriceCache(s.prices)
	rows := make([]domain.Summary, 0, len(apartments))
	totals := domain.ReportTotals{}
	for i := range apartments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		apartment := &apartments[i]
		row, err := s.aggregate(ctx, apartment, payments[apartment.ID], requests[apartment.ID], readings[apartment.ID], payerType, prices)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		totals.Spent = totals.Spent.AddTotals(row.Spent)
		totals.Requested = totals.Requested.AddTotals(row.Requested)
		totals.Net = totals.Net.AddTotals(row.Net)
	}

	s.log.Debug("portfolio report computed",
		zap.Int("apartments", len(rows)),
		zap.Time("from", from),
		zap.Time("to", to),
	)
	return &domain.Report{Summary: rows, Totals: totals, From: from, To: to}, nil
}

// PreviousYearsTotal sums scoped payments dated strictly before
// January 1 of beforeYear. Together with a report over beforeYear the
// two windows partition the ledger, so nothing is counted twice.
func (s *Service) PreviousYearsTotal(ctx context.Context, scope accessscope.Scope, beforeYear int) (currency.Totals, error) {
	if beforeYear <= 0 {
		return currency.Totals{}, domain.ErrInvalidYear
	}
	villageIDs, err := scope.Narrow(nil)
	if err != nil {
		return currency.Totals{}, err
	}
	apartments, err := s.scopedApartments(ctx, scope, villageIDs)
	if err != nil {
		return currency.Totals{}, err
	}
	ids := make([]snowflake.ID, 0, len(apartments))
	for i := range apartments {
		ids = append(ids, apartments[i].ID)
	}

	cutoff := time.Date(beforeYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	payments, err := s.reader.Payments(ctx, ids, ledgerdomain.Window{To: &cutoff})
	if err != nil {
		return currency.Totals{}, err
	}

	totals := currency.ZeroTotals()
	for _, group := range payments {
		for i := range group {
			totals = totals.Add(group[i].Currency, group[i].Amount)
		}
	}
	return totals, nil
}

// ApartmentDetail lists the statement lines of one apartment inside the
// window. Rows are tagged by kind and date-sorted so a caller can render
// them as a statement.
func (s *Service) ApartmentDetail(ctx context.Context, scope accessscope.Scope, req domain.DetailRequest) (*domain.Detail, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ApartmentID))
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
	if !scope.AllowsVillage(apartment.VillageID) {
		return nil, accessscope.ErrAccessDenied
	}
	if scope.Kind == accessscope.KindOwnRecordsOnly && apartment.OwnerID != scope.UserID {
		return nil, accessscope.ErrAccessDenied
	}
	from, to, err := s.resolveWindow(ctx, req.Year, req.From, req.To)
	if err != nil {
		return nil, err
	}

	ids := []snowflake.ID{id}
	window := ledgerdomain.Window{From: &from, To: &to}
	payments, err := s.reader.Payments(ctx, ids, window)
	if err != nil {
		return nil, err
	}
	requests, err := s.reader.ServiceRequests(ctx, ids, window)
	if err != nil {
		return nil, err
	}
	readings, err := s.reader.UtilityReadings(ctx, ids, window)
	if err != nil {
		return nil, err
	}

	prices := newPriceCache(s.prices)
	bills, err := s.statementLines(ctx, apartment, payments[id], requests[id], readings[id], prices)
	if err != nil {
		return nil, err
	}

	totals := domain.ReportTotals{}
	for i := range bills {
		if bills[i].Direction == domain.DirectionSpent {
			totals.Spent = totals.Spent.Add(bills[i].Currency, bills[i].Amount)
		} else if bills[i].Payer != string(servicerequestdomain.WhoPaysCompany) {
			totals.Requested = totals.Requested.Add(bills[i].Currency, bills[i].Amount)
		}
	}
	totals.Net = totals.Requested.Sub(totals.Spent)

	return &domain.Detail{
		Apartment: domain.ApartmentInfo{
			ID:        apartment.ID.String(),
			Name:      apartment.Name,
			Code:      apartment.Code,
			VillageID: apartment.VillageID.String(),
		},
		Bills:  bills,
		Totals: totals,
		From:   from,
		To:     to,
	}, nil
}

func (s *Service) statementLines(
	ctx context.Context,
	apartment *apartmentdomain.Apartment,
	payments []paymentdomain.Payment,
	requests []servicerequestdomain.ServiceRequest,
	readings []utilitydomain.Reading,
	prices *priceCache,
) ([]domain.LedgerEntry, error) {
	entries := make([]domain.LedgerEntry, 0, len(payments)+len(requests)+len(readings))

	for i := range payments {
		p := &payments[i]
		entry := domain.LedgerEntry{
			Kind:        domain.EntryPayment,
			ID:          p.ID.String(),
			Date:        p.Date,
			Description: p.Description,
			Payer:       string(p.UserType),
			Amount:      p.Amount,
			Currency:    p.Currency,
			Direction:   domain.DirectionSpent,
		}
		if p.BookingID != nil {
			bookingID := p.BookingID.String()
			entry.BookingID = &bookingID
		}
		entries = append(entries, entry)
	}

	for i := range requests {
		r := &requests[i]
		money, err := prices.lookup(ctx, r.TypeID, apartment.VillageID)
		if err != nil {
			return nil, err
		}
		date := r.CreatedAt
		if r.DateAction != nil {
			date = *r.DateAction
		}
		entry := domain.LedgerEntry{
			Kind:        domain.EntryServiceRequest,
			ID:          r.ID.String(),
			Date:        date,
			Description: r.Notes,
			Payer:       string(r.WhoPays),
			Amount:      money.Amount,
			Currency:    money.Currency,
			Direction:   domain.DirectionRequested,
		}
		if r.BookingID != nil {
			bookingID := r.BookingID.String()
			entry.BookingID = &bookingID
		}
		entries = append(entries, entry)
	}

	for i := range readings {
		r := &readings[i]
		entry := domain.LedgerEntry{
			Kind:      domain.EntryUtilityReading,
			ID:        r.ID.String(),
			Date:      r.EndDate,
			Payer:     string(r.WhoPays),
			Amount:    r.TotalCost(),
			Currency:  currency.EGP,
			Direction: domain.DirectionRequested,
		}
		if r.BookingID != nil {
			bookingID := r.BookingID.String()
			entry.BookingID = &bookingID
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

func (s *Service) scopedApartments(ctx context.Context, scope accessscope.Scope, villageIDs []snowflake.ID) ([]apartmentdomain.Apartment, error) {
	filter := ledgerdomain.ApartmentFilter{VillageIDs: villageIDs}
	if scope.Kind == accessscope.KindOwnRecordsOnly {
		ownerID := scope.UserID
		filter.OwnerID = &ownerID
	}
	return s.reader.Apartments(ctx, filter)
}
