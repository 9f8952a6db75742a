package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	"github.com/villagiolabs/villagio/internal/accessscope"
	userdomain "github.com/villagiolabs/villagio/internal/user/domain"
)

type Service interface {
	// Create issues a new key. The response carries the raw key material
	// once; subsequent reads only see the hash.
	Create(ctx context.Context, req CreateRequest) (*CreatedResponse, error)
	List(ctx context.Context, userID string) ([]Response, error)
	Revoke(ctx context.Context, id string) error

	// Authenticate resolves raw key material to the key record, checking
	// activity and expiry.
	Authenticate(ctx context.Context, raw string) (*APIKey, error)
}

type CreateRequest struct {
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	VillageIDs []string   `json:"village_ids,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type Response struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	Role       userdomain.Role `json:"role"`
	VillageIDs []string        `json:"village_ids,omitempty"`
	IsActive   bool            `json:"is_active"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type CreatedResponse struct {
	Response
	Key string `json:"key"`
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidUser    = errors.New("invalid_user")
	ErrInvalidRole    = errors.New("invalid_role")
	ErrInvalidVillage = errors.New("invalid_village")
	ErrInvalidName    = errors.New("invalid_name")
	ErrNotFound       = errors.New("not_found")
	ErrUnauthorized   = errors.New("unauthorized")
)

// ScopeFor maps a key onto the portfolio slice it may read. Admin roles
// see everything unless the key pins explicit villages; owners and
// renters are confined to their own records.
func ScopeFor(key *APIKey) (accessscope.Scope, error) {
	switch key.Role {
	case userdomain.RoleAdmin, userdomain.RoleSuperAdmin:
		if len(key.Scopes) == 0 {
			return accessscope.Unrestricted(), nil
		}
		villageIDs, err := parseScopeVillages(key.Scopes)
		if err != nil {
			return accessscope.Scope{}, err
		}
		return accessscope.RestrictedToVillages(villageIDs...), nil
	case userdomain.RoleOwner, userdomain.RoleRenter:
		return accessscope.OwnRecordsOnly(key.UserID), nil
	default:
		return accessscope.Scope{}, ErrInvalidRole
	}
}

func parseScopeVillages(scopes pq.StringArray) ([]snowflake.ID, error) {
	villageIDs := make([]snowflake.ID, 0, len(scopes))
	for _, raw := range scopes {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return nil, ErrInvalidVillage
		}
		villageIDs = append(villageIDs, id)
	}
	return villageIDs, nil
}
