// Package domain holds the user reference model. Registration, login and
// token issuance live in an external identity service; this table is the
// local mirror the booking and billing surfaces join against for owner
// and renter identity.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleOwner      Role = "owner"
	RoleRenter     Role = "renter"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

type User struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null"`
	Email     string       `gorm:"type:text;not null;uniqueIndex"`
	Phone     *string      `gorm:"type:text"`
	Role      Role         `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
