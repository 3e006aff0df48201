package currency

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestToUSD_USDPassesThrough(t *testing.T) {
	supplied := d("999.99")

	tests := []struct {
		name     string
		supplied *decimal.Decimal
	}{
		{"no equivalent supplied", nil},
		{"equivalent supplied and ignored", &supplied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToUSD(d("50.00"), entity.CurrencyUSD, tt.supplied)
			if err != nil {
				t.Fatalf("ToUSD() error = %v", err)
			}
			if !got.Equal(d("50.00")) {
				t.Errorf("ToUSD() = %s, want 50.00", got)
			}
		})
	}
}

func TestToUSD_NonUSDRequiresEquivalent(t *testing.T) {
	for _, cur := range []string{entity.CurrencyZWG, entity.CurrencyGBP, entity.CurrencyEUR} {
		t.Run(cur, func(t *testing.T) {
			_, err := ToUSD(d("1200"), cur, nil)
			if !errors.Is(err, entity.ErrMissingConversion) {
				t.Errorf("ToUSD() error = %v, want ErrMissingConversion", err)
			}
		})
	}
}

func TestToUSD_NonUSDReturnsSuppliedVerbatim(t *testing.T) {
	supplied := d("87.65")
	got, err := ToUSD(d("2400.00"), entity.CurrencyZWG, &supplied)
	if err != nil {
		t.Fatalf("ToUSD() error = %v", err)
	}
	if !got.Equal(supplied) {
		t.Errorf("ToUSD() = %s, want %s", got, supplied)
	}
}

func TestToUSD_RejectsNegativeAmount(t *testing.T) {
	_, err := ToUSD(d("-1"), entity.CurrencyUSD, nil)
	if !entity.IsValidationError(err) {
		t.Errorf("ToUSD() error = %v, want ValidationError", err)
	}
}

func TestToUSD_RejectsNegativeEquivalent(t *testing.T) {
	supplied := d("-0.01")
	_, err := ToUSD(d("100"), entity.CurrencyEUR, &supplied)
	if !entity.IsValidationError(err) {
		t.Errorf("ToUSD() error = %v, want ValidationError", err)
	}
}

func TestToUSD_RejectsUnknownCurrency(t *testing.T) {
	supplied := d("10")
	_, err := ToUSD(d("10"), "ZAR", &supplied)
	if !entity.IsValidationError(err) {
		t.Errorf("ToUSD() error = %v, want ValidationError", err)
	}
}
