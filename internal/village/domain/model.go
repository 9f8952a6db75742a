// Package domain contains the village model and service contracts.
// A village owns apartments and carries the per-unit utility prices used
// to cost utility readings and the village-scoped service prices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Village struct {
	ID               snowflake.ID    `gorm:"primaryKey"`
	Name             string          `gorm:"type:text;not null"`
	Code             string          `gorm:"type:text;not null;uniqueIndex"`
	ElectricityPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	WaterPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Phases           int             `gorm:"not null"`
	CreatedBy        snowflake.ID    `gorm:"index"`
	CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Village) TableName() string { return "villages" }
