package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/villagiolabs/villagio/internal/utility/domain"
	"github.com/villagiolabs/villagio/internal/utility/repository"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
	villagerepository "github.com/villagiolabs/villagio/internal/village/repository"
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
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	villages villagedomain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("utility.service"),
		genID:    p.GenID,
		repo:     repository.NewRepository(),
		villages: villagerepository.NewRepository(),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	apartmentID, err := snowflake.ParseString(strings.TrimSpace(req.ApartmentID))
	if err != nil {
		return nil, domain.ErrInvalidApartment
	}
	whoPays, err := parseWhoPays(req.WhoPays)
	if err != nil {
		return nil, err
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, domain.ErrInvalidPeriod
	}
	if req.WaterEnd.LessThan(req.WaterStart) || req.ElectricityEnd.LessThan(req.ElectricityStart) {
		return nil, domain.ErrReadingDecreased
	}

	village, err := s.villageOf(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if village == nil {
		return nil, domain.ErrInvalidApartment
	}

	reading := domain.Reading{
		ID:               s.genID.Generate(),
		ApartmentID:      apartmentID,
		WaterStart:       req.WaterStart,
		WaterEnd:         req.WaterEnd,
		ElectricityStart: req.ElectricityStart,
		ElectricityEnd:   req.ElectricityEnd,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		WhoPays:          whoPays,
	}
	reading.WaterCost = reading.WaterConsumption().Mul(village.WaterPrice)
	reading.ElectricityCost = reading.ElectricityConsumption().Mul(village.ElectricityPrice)

	if v := strings.TrimSpace(req.BookingID); v != "" {
		bookingID, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidBooking
		}
		var count int64
		if err := s.db.WithContext(ctx).Table("bookings").
			Where("id = ? AND apartment_id = ?", bookingID, apartmentID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.ErrInvalidBooking
		}
		reading.BookingID = &bookingID
	}

	if err := s.repo.Insert(ctx, s.db, &reading); err != nil {
		return nil, err
	}

	s.log.Info("utility reading recorded",
		zap.String("reading_id", reading.ID.String()),
		zap.String("apartment_id", apartmentID.String()),
		zap.String("water_cost", reading.WaterCost.String()),
		zap.String("electricity_cost", reading.ElectricityCost.String()),
	)
	resp := toResponse(&reading)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	var filter domain.ListFilter
	if v := strings.TrimSpace(req.ApartmentID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidApartment
		}
		filter.ApartmentID = &id
	}
	if v := strings.TrimSpace(req.WhoPays); v != "" {
		whoPays, err := parseWhoPays(v)
		if err != nil {
			return nil, err
		}
		filter.WhoPays = &whoPays
	}
	filter.From = req.From
	filter.To = req.To

	readings, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Response, 0, len(readings))
	for i := range readings {
		out = append(out, toResponse(&readings[i]))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	readingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	reading, err := s.repo.FindByID(ctx, s.db, readingID)
	if err != nil {
		return nil, err
	}
	if reading == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(reading)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	readingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}
	reading, err := s.repo.FindByID(ctx, s.db, readingID)
	if err != nil {
		return err
	}
	if reading == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, readingID)
}

// CheckConsistency recomputes every cached cost against current village
// unit prices. Stored rows are never rewritten; drifts are reported for
// an operator to act on.
func (s *Service) CheckConsistency(ctx context.Context) ([]domain.Inconsistency, error) {
	readings, err := s.repo.List(ctx, s.db, domain.ListFilter{})
	if err != nil {
		return nil, err
	}

	villageCache := make(map[snowflake.ID]*villagedomain.Village)
	var drifts []domain.Inconsistency
	for i := range readings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reading := &readings[i]

		village, ok := villageCache[reading.ApartmentID]
		if !ok {
			village, err = s.villageOf(ctx, reading.ApartmentID)
			if err != nil {
				return nil, err
			}
			villageCache[reading.ApartmentID] = village
		}
		if village == nil {
			continue
		}

		expectedWater := reading.WaterConsumption().Mul(village.WaterPrice)
		expectedElectricity := reading.ElectricityConsumption().Mul(village.ElectricityPrice)
		if reading.WaterCost.Equal(expectedWater) && reading.ElectricityCost.Equal(expectedElectricity) {
			continue
		}
		drifts = append(drifts, domain.Inconsistency{
			ReadingID:               reading.ID.String(),
			ApartmentID:             reading.ApartmentID.String(),
			StoredWaterCost:         reading.WaterCost,
			ExpectedWaterCost:       expectedWater,
			StoredElectricityCost:   reading.ElectricityCost,
			ExpectedElectricityCost: expectedElectricity,
		})
	}
	if len(drifts) > 0 {
		s.log.Warn("utility cost cache drifted from recomputation", zap.Int("count", len(drifts)))
	}
	return drifts, nil
}

func (s *Service) villageOf(ctx context.Context, apartmentID snowflake.ID) (*villagedomain.Village, error) {
	var villageID snowflake.ID
	err := s.db.WithContext(ctx).
		Raw(`SELECT village_id FROM apartments WHERE id = ?`, apartmentID).
		Scan(&villageID).Error
	if err != nil || villageID == 0 {
		return nil, err
	}
	return s.villages.FindByID(ctx, s.db, villageID)
}

func toResponse(r *domain.Reading) domain.Response {
	resp := domain.Response{
		ID:                     r.ID.String(),
		ApartmentID:            r.ApartmentID.String(),
		WaterStart:             r.WaterStart,
		WaterEnd:               r.WaterEnd,
		ElectricityStart:       r.ElectricityStart,
		ElectricityEnd:         r.ElectricityEnd,
		StartDate:              r.StartDate,
		EndDate:                r.EndDate,
		WhoPays:                r.WhoPays,
		WaterConsumption:       r.WaterConsumption(),
		ElectricityConsumption: r.ElectricityConsumption(),
		WaterCost:              r.WaterCost,
		ElectricityCost:        r.ElectricityCost,
		CreatedAt:              r.CreatedAt,
	}
	if r.BookingID != nil {
		id := r.BookingID.String()
		resp.BookingID = &id
	}
	return resp
}

func parseWhoPays(value string) (domain.WhoPays, error) {
	switch domain.WhoPays(strings.TrimSpace(value)) {
	case domain.WhoPaysOwner:
		return domain.WhoPaysOwner, nil
	case domain.WhoPaysRenter:
		return domain.WhoPaysRenter, nil
	case domain.WhoPaysCompany:
		return domain.WhoPaysCompany, nil
	default:
		return "", domain.ErrInvalidWhoPays
	}
}
