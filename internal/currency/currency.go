// Package currency defines the closed set of billing currencies and the
// fixed-shape totals record used by every monetary aggregate. Amounts are
// never summed across currencies.
package currency

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	EGP Currency = "EGP"
	GBP Currency = "GBP"
)

var ErrUnsupportedCurrency = errors.New("unsupported_currency")

// Parse validates a wire value against the closed set.
func Parse(value string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(value))) {
	case EGP:
		return EGP, nil
	case GBP:
		return GBP, nil
	default:
		return "", ErrUnsupportedCurrency
	}
}

func (c Currency) String() string { return string(c) }

func (c Currency) Valid() bool { return c == EGP || c == GBP }

// Totals is a fixed-shape currency map. A third currency cannot appear
// because there is no open key space to put it in.
type Totals struct {
	EGP decimal.Decimal `json:"EGP"`
	GBP decimal.Decimal `json:"GBP"`
}

// ZeroTotals returns an explicit all-zero record. decimal.Decimal's zero
// value marshals as "0", so this exists for readability at call sites.
func ZeroTotals() Totals { return Totals{} }

// Add accumulates amount under the given currency.
func (t Totals) Add(c Currency, amount decimal.Decimal) Totals {
	switch c {
	case EGP:
		t.EGP = t.EGP.Add(amount)
	case GBP:
		t.GBP = t.GBP.Add(amount)
	}
	return t
}

// AddTotals element-wise sums two records.
func (t Totals) AddTotals(other Totals) Totals {
	t.EGP = t.EGP.Add(other.EGP)
	t.GBP = t.GBP.Add(other.GBP)
	return t
}

// Sub element-wise subtracts other from t.
func (t Totals) Sub(other Totals) Totals {
	t.EGP = t.EGP.Sub(other.EGP)
	t.GBP = t.GBP.Sub(other.GBP)
	return t
}

func (t Totals) IsZero() bool { return t.EGP.IsZero() && t.GBP.IsZero() }

// Get returns the component for one currency.
func (t Totals) Get(c Currency) decimal.Decimal {
	if c == GBP {
		return t.GBP
	}
	return t.EGP
}
