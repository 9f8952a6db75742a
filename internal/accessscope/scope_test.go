package accessscope

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestAllowsVillage(t *testing.T) {
	a, b, c := snowflake.ID(1), snowflake.ID(2), snowflake.ID(3)

	assert.True(t, Unrestricted().AllowsVillage(a))

	scope := RestrictedToVillages(a, b)
	assert.True(t, scope.AllowsVillage(a))
	assert.True(t, scope.AllowsVillage(b))
	assert.False(t, scope.AllowsVillage(c))

	// scope by owner does not gate villages
	assert.True(t, OwnRecordsOnly(snowflake.ID(9)).AllowsVillage(c))
}

func TestNarrow(t *testing.T) {
	a, b, c := snowflake.ID(1), snowflake.ID(2), snowflake.ID(3)
	scope := RestrictedToVillages(a, b)

	// no selection falls back to the scope's own list
	got, err := scope.Narrow(nil)
	assert.NoError(t, err)
	assert.Equal(t, []snowflake.ID{a, b}, got)

	got, err = scope.Narrow([]snowflake.ID{b})
	assert.NoError(t, err)
	assert.Equal(t, []snowflake.ID{b}, got)

	// naming an out-of-scope village fails instead of narrowing
	_, err = scope.Narrow([]snowflake.ID{a, c})
	assert.ErrorIs(t, err, ErrAccessDenied)

	got, err = Unrestricted().Narrow(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
