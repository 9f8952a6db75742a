// Package domain contains the service request model. A service request
// is money owed by the resident for a rendered service; its cost is
// never stored, always resolved at read time through the village price
// of its service type.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type WhoPays string

const (
	WhoPaysOwner   WhoPays = "owner"
	WhoPaysRenter  WhoPays = "renter"
	WhoPaysCompany WhoPays = "company"
)

type Status string

const (
	StatusCreated    Status = "Created"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

type ServiceRequest struct {
	ID          snowflake.ID  `gorm:"primaryKey"`
	TypeID      snowflake.ID  `gorm:"not null;index"`
	ApartmentID snowflake.ID  `gorm:"not null;index"`
	BookingID   *snowflake.ID `gorm:"index"`
	RequesterID snowflake.ID  `gorm:"not null"`
	WhoPays     WhoPays       `gorm:"type:text;not null"`
	Status      Status        `gorm:"type:text;not null"`
	AssigneeID  *snowflake.ID `gorm:"index"`
	DateAction  *time.Time    `gorm:"index"`
	Notes       string        `gorm:"type:text"`
	CreatedBy   snowflake.ID  `gorm:"index"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ServiceRequest) TableName() string { return "service_requests" }
