package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/villagiolabs/villagio/internal/currency"
)

func TestParse(t *testing.T) {
	c, err := currency.Parse(" egp ")
	assert.NoError(t, err)
	assert.Equal(t, currency.EGP, c)

	c, err = currency.Parse("GBP")
	assert.NoError(t, err)
	assert.Equal(t, currency.GBP, c)

	_, err = currency.Parse("USD")
	assert.ErrorIs(t, err, currency.ErrUnsupportedCurrency)

	_, err = currency.Parse("")
	assert.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
}

func TestTotalsDoNotMixCurrencies(t *testing.T) {
	totals := currency.ZeroTotals().
		Add(currency.EGP, decimal.NewFromInt(300)).
		Add(currency.EGP, decimal.NewFromInt(200))

	assert.True(t, totals.EGP.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.GBP.IsZero())
}

func TestTotalsSub(t *testing.T) {
	requested := currency.ZeroTotals().Add(currency.EGP, decimal.NewFromInt(500))
	spent := currency.ZeroTotals().Add(currency.EGP, decimal.NewFromInt(300))

	net := requested.Sub(spent)
	assert.True(t, net.EGP.Equal(decimal.NewFromInt(200)))
	assert.True(t, net.GBP.IsZero())
}

func TestTotalsAddTotals(t *testing.T) {
	a := currency.ZeroTotals().
		Add(currency.EGP, decimal.RequireFromString("10.50")).
		Add(currency.GBP, decimal.NewFromInt(3))
	b := currency.ZeroTotals().Add(currency.EGP, decimal.RequireFromString("0.50"))

	sum := a.AddTotals(b)
	assert.True(t, sum.EGP.Equal(decimal.NewFromInt(11)))
	assert.True(t, sum.GBP.Equal(decimal.NewFromInt(3)))
}
