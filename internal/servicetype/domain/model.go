// Package domain contains service types and their village-scoped prices.
// Cost never lives on the service type itself: the same service is priced
// per village, and a request can only be costed through the
// (service type, village) price row.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/villagiolabs/villagio/internal/currency"
)

type ServiceType struct {
	ID              snowflake.ID  `gorm:"primaryKey"`
	Name            string        `gorm:"type:text;not null;uniqueIndex"`
	Description     string        `gorm:"type:text"`
	DefaultAssignee *snowflake.ID `gorm:"index"`
	CreatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ServiceType) TableName() string { return "service_types" }

type VillagePrice struct {
	ID            snowflake.ID      `gorm:"primaryKey"`
	ServiceTypeID snowflake.ID      `gorm:"not null;uniqueIndex:idx_service_type_village"`
	VillageID     snowflake.ID      `gorm:"not null;uniqueIndex:idx_service_type_village"`
	Cost          decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	Currency      currency.Currency `gorm:"type:text;not null"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (VillagePrice) TableName() string { return "service_type_village_prices" }

// Money is a priced cost in one currency.
type Money struct {
	Amount   decimal.Decimal   `json:"amount"`
	Currency currency.Currency `json:"currency"`
}
