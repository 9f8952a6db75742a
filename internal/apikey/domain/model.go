// Package domain contains API keys. A key carries the caller's role and
// an optional list of village scopes; together they map onto the access
// scope the reporting surface narrows queries with. Only the SHA-256
// hash of the key material is stored.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/lib/pq"
	userdomain "github.com/villagiolabs/villagio/internal/user/domain"
)

const keyPrefix = "vlg_"

type APIKey struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	UserID    snowflake.ID    `gorm:"not null;index"`
	Name      string          `gorm:"type:text;not null"`
	KeyHash   string          `gorm:"type:text;not null;uniqueIndex"`
	Role      userdomain.Role `gorm:"type:text;not null"`
	Scopes    pq.StringArray  `gorm:"type:text[]"`
	IsActive  bool            `gorm:"not null;default:true"`
	ExpiresAt *time.Time
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (APIKey) TableName() string { return "api_keys" }

// GenerateKey returns fresh key material. The raw value is shown to the
// caller exactly once; only its hash survives.
func GenerateKey() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
	return keyPrefix + raw
}

// HashAPIKey computes the stored digest of raw key material.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}

// Expired reports whether the key has an expiry in the past.
func (k *APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && !k.ExpiresAt.After(now)
}
