// Package authorization decides which role may hit which route. The
// policy lives in the database through the gorm adapter so operators
// can tighten it without a rebuild; the baseline policy below is seeded
// idempotently at startup.
package authorization

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	userdomain "github.com/villagiolabs/villagio/internal/user/domain"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelConf string

func NewEnforcer(db *gorm.DB) (*casbin.Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("create casbin adapter: %w", err)
	}

	model, err := casbinmodel.NewModelFromString(modelConf)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(model, adapter)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	if err := seedBaselinePolicy(enforcer); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// seedBaselinePolicy installs the default role grants. AddPolicy is a
// no-op for rows that already exist, so restarts never duplicate.
func seedBaselinePolicy(enforcer *casbin.Enforcer) error {
	policies := [][]string{
		// residents read their own slice of the portfolio and can raise
		// service requests and bookings
		{string(userdomain.RoleOwner), "/api/*", "GET"},
		{string(userdomain.RoleOwner), "/api/service-requests", "POST"},
		{string(userdomain.RoleOwner), "/api/bookings", "POST"},
		{string(userdomain.RoleRenter), "/api/*", "GET"},
		{string(userdomain.RoleRenter), "/api/service-requests", "POST"},

		// admin roles manage the full surface
		{string(userdomain.RoleAdmin), "/api/*", "GET|POST|PATCH|DELETE"},
	}
	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			return fmt.Errorf("seed policy %v: %w", policy, err)
		}
	}
	if _, err := enforcer.AddGroupingPolicy(string(userdomain.RoleSuperAdmin), string(userdomain.RoleAdmin)); err != nil {
		return fmt.Errorf("seed role inheritance: %w", err)
	}
	return enforcer.SavePolicy()
}
