// Package domain contains the booking model and the occupancy contracts.
// A booking is a half-open stay interval [arrival, leaving) for one
// occupant; intervals of one apartment are not guaranteed disjoint.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type UserType string

const (
	UserTypeOwner  UserType = "owner"
	UserTypeRenter UserType = "renter"
)

type Status string

const (
	StatusNotArrived Status = "not_arrived"
	StatusInVillage  Status = "in_village"
	StatusLeft       Status = "left"
)

// OccupancyStatus is derived from stored bookings on every read; it is
// never persisted.
type OccupancyStatus string

const (
	OccupancyAvailable        OccupancyStatus = "available"
	OccupancyOccupiedByOwner  OccupancyStatus = "occupied_by_owner"
	OccupancyOccupiedByRenter OccupancyStatus = "occupied_by_renter"
)

type Booking struct {
	ID             snowflake.ID  `gorm:"primaryKey"`
	ApartmentID    snowflake.ID  `gorm:"not null;index"`
	UserID         snowflake.ID  `gorm:"not null;index"`
	UserType       UserType      `gorm:"type:text;not null"`
	Arrival        time.Time     `gorm:"not null"`
	Leaving        time.Time     `gorm:"not null"`
	Status         Status        `gorm:"type:text;not null"`
	NumberOfPeople int           `gorm:"not null"`
	PersonName     string        `gorm:"type:text"`
	Notes          string        `gorm:"type:text"`
	CreatedBy      snowflake.ID  `gorm:"index"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Booking) TableName() string { return "bookings" }
