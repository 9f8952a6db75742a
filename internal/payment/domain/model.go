// Package domain contains payment models and contracts. A payment is
// money received from a resident; it never represents an obligation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/villagiolabs/villagio/internal/currency"
)

type PayerType string

const (
	PayerTypeOwner  PayerType = "owner"
	PayerTypeRenter PayerType = "renter"
)

type PaymentMethod struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PaymentMethod) TableName() string { return "payment_methods" }

type Payment struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	ApartmentID snowflake.ID      `gorm:"not null;index"`
	BookingID   *snowflake.ID     `gorm:"index"`
	Amount      decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	Currency    currency.Currency `gorm:"type:text;not null"`
	MethodID    snowflake.ID      `gorm:"not null"`
	UserType    PayerType         `gorm:"type:text;not null"`
	Date        time.Time         `gorm:"not null;index"`
	Description string            `gorm:"type:text"`
	CreatedBy   snowflake.ID      `gorm:"index"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
