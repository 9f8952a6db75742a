// Package seed populates a fresh database with a small demo portfolio:
// two villages, a handful of apartments with owners, one renter booking
// with payments and readings, and an admin API key printed to stdout
// once. Every insert is idempotent so the command can be re-run.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apartmentdomain "github.com/villagiolabs/villagio/internal/apartment/domain"
	apikeydomain "github.com/villagiolabs/villagio/internal/apikey/domain"
	bookingdomain "github.com/villagiolabs/villagio/internal/booking/domain"
	"github.com/villagiolabs/villagio/internal/currency"
	paymentdomain "github.com/villagiolabs/villagio/internal/payment/domain"
	servicetypedomain "github.com/villagiolabs/villagio/internal/servicetype/domain"
	userdomain "github.com/villagiolabs/villagio/internal/user/domain"
	utilitydomain "github.com/villagiolabs/villagio/internal/utility/domain"
	villagedomain "github.com/villagiolabs/villagio/internal/village/domain"
)

const adminKeyName = "seed-admin"

// EnsureDemoPortfolio seeds the demo data set. Safe to run against a
// database that already holds it.
func EnsureDemoPortfolio(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var adminKey string
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admin, err := ensureUser(tx, node, "Portfolio Admin", "admin@villagio.local", userdomain.RoleAdmin)
		if err != nil {
			return err
		}
		ownerA, err := ensureUser(tx, node, "Ahmed Hassan", "ahmed@villagio.local", userdomain.RoleOwner)
		if err != nil {
			return err
		}
		ownerB, err := ensureUser(tx, node, "Laila Mansour", "laila@villagio.local", userdomain.RoleOwner)
		if err != nil {
			return err
		}
		renter, err := ensureUser(tx, node, "Omar Said", "omar@villagio.local", userdomain.RoleRenter)
		if err != nil {
			return err
		}

		marina, err := ensureVillage(tx, node, "Marina Bay", "12.50", "3.75", 4, admin.ID)
		if err != nil {
			return err
		}
		palms, err := ensureVillage(tx, node, "Green Palms", "10.00", "3.00", 2, admin.ID)
		if err != nil {
			return err
		}

		aptA1, err := ensureApartment(tx, node, marina, "A-101", ownerA.ID, 1, apartmentdomain.PayingStatusTransfer)
		if err != nil {
			return err
		}
		if _, err := ensureApartment(tx, node, marina, "A-102", ownerB.ID, 1, apartmentdomain.PayingStatusRent); err != nil {
			return err
		}
		if _, err := ensureApartment(tx, node, palms, "B-201", ownerA.ID, 2, apartmentdomain.PayingStatusTransfer); err != nil {
			return err
		}
		if _, err := ensureApartment(tx, node, palms, "B-202", ownerB.ID, 2, apartmentdomain.PayingStatusNonPayer); err != nil {
			return err
		}

		booking, err := ensureBooking(tx, node, aptA1, renter.ID, admin.ID)
		if err != nil {
			return err
		}

		if err := ensurePayments(tx, node, aptA1, booking, admin.ID); err != nil {
			return err
		}
		if err := ensureServicePrices(tx, node, marina, palms); err != nil {
			return err
		}
		if err := ensureReading(tx, node, aptA1, booking, marina, admin.ID); err != nil {
			return err
		}

		adminKey, err = ensureAdminKey(tx, node, admin.ID)
		return err
	})
	if err != nil {
		return err
	}

	if adminKey != "" {
		fmt.Printf("seeded admin API key (store it now, it is not shown again): %s\n", adminKey)
	}
	return nil
}

func ensureUser(tx *gorm.DB, node *snowflake.Node, name, email string, role userdomain.Role) (*userdomain.User, error) {
	user := userdomain.User{
		ID:    node.Generate(),
		Name:  name,
		Email: email,
		Role:  role,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&user).Error; err != nil {
		return nil, err
	}

	var stored userdomain.User
	if err := tx.Where("email = ?", email).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func ensureVillage(tx *gorm.DB, node *snowflake.Node, name, electricity, water string, phases int, createdBy snowflake.ID) (*villagedomain.Village, error) {
	village := villagedomain.Village{
		ID:               node.Generate(),
		Name:             name,
		Code:             slug.Make(name),
		ElectricityPrice: decimal.RequireFromString(electricity),
		WaterPrice:       decimal.RequireFromString(water),
		Phases:           phases,
		CreatedBy:        createdBy,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&village).Error; err != nil {
		return nil, err
	}

	var stored villagedomain.Village
	if err := tx.Where("code = ?", village.Code).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func ensureApartment(tx *gorm.DB, node *snowflake.Node, village *villagedomain.Village, name string, ownerID snowflake.ID, phase int, paying apartmentdomain.PayingStatus) (*apartmentdomain.Apartment, error) {
	apartment := apartmentdomain.Apartment{
		ID:           node.Generate(),
		Name:         name,
		Code:         slug.Make(village.Code + " " + name),
		VillageID:    village.ID,
		Phase:        phase,
		OwnerID:      ownerID,
		PayingStatus: paying,
		SalesStatus:  apartmentdomain.SalesStatusNotForSale,
		CreatedBy:    village.CreatedBy,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&apartment).Error; err != nil {
		return nil, err
	}

	var stored apartmentdomain.Apartment
	if err := tx.Where("code = ?", apartment.Code).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func ensureBooking(tx *gorm.DB, node *snowflake.Node, apartment *apartmentdomain.Apartment, renterID, createdBy snowflake.ID) (*bookingdomain.Booking, error) {
	var existing bookingdomain.Booking
	err := tx.Where("apartment_id = ? AND user_id = ?", apartment.ID, renterID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	booking := bookingdomain.Booking{
		ID:             node.Generate(),
		ApartmentID:    apartment.ID,
		UserID:         renterID,
		UserType:       bookingdomain.UserTypeRenter,
		Arrival:        time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
		Leaving:        time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Status:         bookingdomain.StatusLeft,
		NumberOfPeople: 3,
		PersonName:     "Omar Said",
		CreatedBy:      createdBy,
	}
	if err := tx.Create(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func ensurePayments(tx *gorm.DB, node *snowflake.Node, apartment *apartmentdomain.Apartment, booking *bookingdomain.Booking, createdBy snowflake.ID) error {
	var count int64
	if err := tx.Model(&paymentdomain.Payment{}).Where("apartment_id = ?", apartment.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var method paymentdomain.PaymentMethod
	if err := tx.Where("name = ?", "cash").First(&method).Error; err != nil {
		return err
	}

	payments := []paymentdomain.Payment{
		{
			ID:          node.Generate(),
			ApartmentID: apartment.ID,
			Amount:      decimal.RequireFromString("1500.00"),
			Currency:    currency.EGP,
			MethodID:    method.ID,
			UserType:    paymentdomain.PayerTypeOwner,
			Date:        time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			Description: "annual maintenance contribution",
			CreatedBy:   createdBy,
		},
		{
			ID:          node.Generate(),
			ApartmentID: apartment.ID,
			BookingID:   &booking.ID,
			Amount:      decimal.RequireFromString("800.00"),
			Currency:    currency.EGP,
			MethodID:    method.ID,
			UserType:    paymentdomain.PayerTypeRenter,
			Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Description: "rental deposit",
			CreatedBy:   createdBy,
		},
		{
			ID:          node.Generate(),
			ApartmentID: apartment.ID,
			Amount:      decimal.RequireFromString("120.00"),
			Currency:    currency.GBP,
			MethodID:    method.ID,
			UserType:    paymentdomain.PayerTypeOwner,
			Date:        time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC),
			Description: "overseas owner transfer",
			CreatedBy:   createdBy,
		},
	}
	return tx.Create(&payments).Error
}

func ensureServicePrices(tx *gorm.DB, node *snowflake.Node, villages ...*villagedomain.Village) error {
	var types []servicetypedomain.ServiceType
	if err := tx.Find(&types).Error; err != nil {
		return err
	}

	costs := map[string]string{
		"Cleaning":    "150.00",
		"Maintenance": "350.00",
		"Gardening":   "200.00",
	}

	for _, st := range types {
		cost, ok := costs[st.Name]
		if !ok {
			continue
		}
		for _, village := range villages {
			price := servicetypedomain.VillagePrice{
				ID:            node.Generate(),
				ServiceTypeID: st.ID,
				VillageID:     village.ID,
				Cost:          decimal.RequireFromString(cost),
				Currency:      currency.EGP,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "service_type_id"}, {Name: "village_id"}},
				DoNothing: true,
			}).Create(&price).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureReading(tx *gorm.DB, node *snowflake.Node, apartment *apartmentdomain.Apartment, booking *bookingdomain.Booking, village *villagedomain.Village, createdBy snowflake.ID) error {
	var count int64
	if err := tx.Model(&utilitydomain.Reading{}).Where("apartment_id = ?", apartment.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	waterStart := decimal.RequireFromString("100.00")
	waterEnd := decimal.RequireFromString("112.00")
	elecStart := decimal.RequireFromString("5000.00")
	elecEnd := decimal.RequireFromString("5080.00")

	reading := utilitydomain.Reading{
		ID:               node.Generate(),
		ApartmentID:      apartment.ID,
		BookingID:        &booking.ID,
		WaterStart:       waterStart,
		WaterEnd:         waterEnd,
		ElectricityStart: elecStart,
		ElectricityEnd:   elecEnd,
		StartDate:        booking.Arrival,
		EndDate:          booking.Leaving,
		WhoPays:          utilitydomain.WhoPaysRenter,
		WaterCost:        waterEnd.Sub(waterStart).Mul(village.WaterPrice),
		ElectricityCost:  elecEnd.Sub(elecStart).Mul(village.ElectricityPrice),
		CreatedBy:        createdBy,
	}
	return tx.Create(&reading).Error
}

func ensureAdminKey(tx *gorm.DB, node *snowflake.Node, adminID snowflake.ID) (string, error) {
	var count int64
	if err := tx.Model(&apikeydomain.APIKey{}).Where("user_id = ? AND name = ?", adminID, adminKeyName).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", nil
	}

	raw := apikeydomain.GenerateKey()
	key := apikeydomain.APIKey{
		ID:       node.Generate(),
		UserID:   adminID,
		Name:     adminKeyName,
		KeyHash:  apikeydomain.HashAPIKey(raw),
		Role:     userdomain.RoleAdmin,
		IsActive: true,
	}
	if err := tx.Create(&key).Error; err != nil {
		return "", err
	}
	return raw, nil
}
