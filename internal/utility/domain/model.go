// Package domain contains utility reading periods. A row covers one
// billing period of an apartment with start and end meter values for
// water and electricity. The cost columns are a cache written once at
// creation (consumption times the village unit price, always EGP);
// readers use the cache and a consistency sweep reports drift instead
// of rewriting it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type WhoPays string

const (
	WhoPaysOwner   WhoPays = "owner"
	WhoPaysRenter  WhoPays = "renter"
	WhoPaysCompany WhoPays = "company"
)

type Reading struct {
	ID               snowflake.ID    `gorm:"primaryKey"`
	ApartmentID      snowflake.ID    `gorm:"not null;index"`
	BookingID        *snowflake.ID   `gorm:"index"`
	WaterStart       decimal.Decimal `gorm:"column:water_start_reading;type:decimal(12,2);not null"`
	WaterEnd         decimal.Decimal `gorm:"column:water_end_reading;type:decimal(12,2);not null"`
	ElectricityStart decimal.Decimal `gorm:"column:electricity_start_reading;type:decimal(12,2);not null"`
	ElectricityEnd   decimal.Decimal `gorm:"column:electricity_end_reading;type:decimal(12,2);not null"`
	StartDate        time.Time       `gorm:"not null;index"`
	EndDate          time.Time       `gorm:"not null;index"`
	WhoPays          WhoPays         `gorm:"type:text;not null"`
	WaterCost        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ElectricityCost  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedBy        snowflake.ID    `gorm:"index"`
	CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Reading) TableName() string { return "utility_readings" }

// WaterConsumption is the metered water usage of the period.
func (r *Reading) WaterConsumption() decimal.Decimal {
	return r.WaterEnd.Sub(r.WaterStart)
}

// ElectricityConsumption is the metered electricity usage of the period.
func (r *Reading) ElectricityConsumption() decimal.Decimal {
	return r.ElectricityEnd.Sub(r.ElectricityStart)
}

// TotalCost is the cached cost of the period, in EGP.
func (r *Reading) TotalCost() decimal.Decimal {
	return r.WaterCost.Add(r.ElectricityCost)
}
