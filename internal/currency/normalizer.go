// Package currency normalizes requisition amounts to the USD reference
// figure that all routing and threshold decisions are made against.
package currency

import (
	"github.com/shopspring/decimal"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
)

// ToUSD converts a native-currency amount to its USD reference amount.
// USD amounts pass through unchanged and any supplied equivalent is
// ignored. For every other currency the system does not compute live FX
// rates; it requires and trusts a human-entered USD equivalent.
func ToUSD(amount decimal.Decimal, currency string, suppliedUSDEquivalent *decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, entity.NewValidationError("amount", "must not be negative")
	}

	if currency == entity.CurrencyUSD {
		return amount, nil
	}

	if !entity.IsValidCurrency(currency) {
		return decimal.Zero, entity.NewValidationError("currency", "is not supported")
	}

	if suppliedUSDEquivalent == nil {
		return decimal.Zero, entity.ErrMissingConversion
	}
	if suppliedUSDEquivalent.IsNegative() {
		return decimal.Zero, entity.NewValidationError("usd_equivalent", "must not be negative")
	}

	return *suppliedUSDEquivalent, nil
}
