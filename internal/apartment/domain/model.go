// Package domain contains the apartment model and service contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type PayingStatus string

const (
	PayingStatusTransfer PayingStatus = "transfer"
	PayingStatusRent     PayingStatus = "rent"
	PayingStatusNonPayer PayingStatus = "non_payer"
)

type SalesStatus string

const (
	SalesStatusNotForSale SalesStatus = "not_for_sale"
	SalesStatusForSale    SalesStatus = "for_sale"
)

type Apartment struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Name         string       `gorm:"type:text;not null"`
	Code         string       `gorm:"type:text;not null;uniqueIndex"`
	VillageID    snowflake.ID `gorm:"not null;index"`
	Phase        int          `gorm:"not null"`
	OwnerID      snowflake.ID `gorm:"not null;index"`
	PurchaseDate *time.Time
	PayingStatus PayingStatus `gorm:"type:text;not null"`
	SalesStatus  SalesStatus  `gorm:"type:text;not null;default:not_for_sale"`
	CreatedBy    snowflake.ID `gorm:"index"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Apartment) TableName() string { return "apartments" }
