// Package domain contains the audit trail. Every mutating request is
// recorded with its actor, the entity it touched and a JSON detail
// payload; rows are append-only and pruned only by the retention sweep.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type ActorType string

const (
	ActorTypeAPIKey ActorType = "api_key"
	ActorTypeSystem ActorType = "system"
)

type AuditLog struct {
	ID         snowflake.ID   `gorm:"primaryKey"`
	ActorType  ActorType      `gorm:"type:text;not null"`
	ActorID    string         `gorm:"type:text;not null"`
	Action     string         `gorm:"type:text;not null"`
	EntityType string         `gorm:"type:text;not null;index:idx_audit_logs_entity"`
	EntityID   string         `gorm:"type:text;index:idx_audit_logs_entity"`
	Detail     datatypes.JSON `gorm:"type:jsonb"`
	RequestID  string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }
