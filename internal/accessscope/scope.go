// Package accessscope models what slice of the portfolio a caller may
// read. A scope is data, not a check: readers pass it down to the
// billing and ledger layers, which narrow their queries with it.
package accessscope

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Kind string

const (
	KindUnrestricted         Kind = "unrestricted"
	KindRestrictedToVillages Kind = "restricted_to_villages"
	KindOwnRecordsOnly       Kind = "own_records_only"
)

// ErrAccessDenied is returned when a request names data outside the
// caller's scope. Out-of-scope requests fail; they are never silently
// narrowed.
var ErrAccessDenied = errors.New("access_denied")

type Scope struct {
	Kind       Kind
	VillageIDs []snowflake.ID
	UserID     snowflake.ID
}

func Unrestricted() Scope {
	return Scope{Kind: KindUnrestricted}
}

func RestrictedToVillages(villageIDs ...snowflake.ID) Scope {
	return Scope{Kind: KindRestrictedToVillages, VillageIDs: villageIDs}
}

func OwnRecordsOnly(userID snowflake.ID) Scope {
	return Scope{Kind: KindOwnRecordsOnly, UserID: userID}
}

func (s Scope) AllowsVillage(villageID snowflake.ID) bool {
	switch s.Kind {
	case KindUnrestricted, KindOwnRecordsOnly:
		return true
	case KindRestrictedToVillages:
		for _, id := range s.VillageIDs {
			if id == villageID {
				return true
			}
		}
	}
	return false
}

// Narrow applies the scope to an explicit village selection. With no
// selection a village-restricted scope falls back to its own village
// list; a selection naming a village the scope does not allow returns
// ErrAccessDenied.
func (s Scope) Narrow(requested []snowflake.ID) ([]snowflake.ID, error) {
	if len(requested) == 0 {
		if s.Kind == KindRestrictedToVillages {
			return s.VillageIDs, nil
		}
		return nil, nil
	}
	for _, id := range requested {
		if !s.AllowsVillage(id) {
			return nil, ErrAccessDenied
		}
	}
	return requested, nil
}
