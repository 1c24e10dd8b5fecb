package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDiscountType(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want DiscountType
	}{
		{"nil defaults to fixed", nil, DiscountFixed},
		{"canonical percent", DiscountPercent, DiscountPercent},
		{"canonical fixed", DiscountFixed, DiscountFixed},
		{"text percentage", "percentage", DiscountPercent},
		{"text percent uppercase", "PERCENT", DiscountPercent},
		{"text with whitespace", "  Percentage ", DiscountPercent},
		{"text fixed", "fixed", DiscountFixed},
		{"text amount", "amount", DiscountFixed},
		{"text flat", "flat", DiscountFixed},
		{"numeric percent code", 1, DiscountPercent},
		{"numeric fixed code", 2, DiscountFixed},
		{"numeric percent code as string", "1", DiscountPercent},
		{"numeric fixed code as string", "2", DiscountFixed},
		{"float percent code", 1.0, DiscountPercent},
		{"unknown text", "bogus", DiscountFixed},
		{"unknown number", 42, DiscountFixed},
		{"unsupported type", []string{"percentage"}, DiscountFixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDiscountType(tt.in))
		})
	}
}

func TestDiscountTypeString(t *testing.T) {
	assert.Equal(t, "percentage", DiscountPercent.String())
	assert.Equal(t, "fixed", DiscountFixed.String())
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"int", 42, 42},
		{"float", 12.75, 12.75},
		{"numeric string", "12.5", 12.5},
		{"integer string", "7", 7},
		{"empty string", "", 0},
		{"garbage string", "abc", 0},
		{"nan", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
		{"unsupported type", struct{}{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(tt.in))
		})
	}
}

func TestEffectiveTaxRate(t *testing.T) {
	tests := []struct {
		name    string
		taxInfo any
		manual  any
		want    float64
	}{
		{"no tax info uses manual rate", nil, 18, 18},
		{"struct wins over manual", TaxInfo{TaxRate: 5}, 18, 5},
		{"pointer wins over manual", &TaxInfo{TaxRate: 12}, 18, 12},
		{"nil pointer falls back", (*TaxInfo)(nil), 18, 18},
		{"json string wins", `{"taxRate":28}`, 18, 28},
		{"json string without rate falls back", `{"taxName":"VAT"}`, 18, 18},
		{"json string rate as string wins", `{"taxRate":"9.5"}`, 18, 9.5},
		{"blank string falls back", "   ", 18, 18},
		{"invalid json falls back", "{", 18, 18},
		{"non-object json string falls back", `"5"`, 18, 18},
		{"map wins", map[string]any{"taxRate": 9.5}, 18, 9.5},
		{"map rate as string", map[string]any{"taxRate": "9.5"}, 18, 9.5},
		{"map without rate falls back", map[string]any{"taxName": "VAT"}, 18, 18},
		{"manual garbage degrades to zero", nil, "none", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, effectiveTaxRate(tt.taxInfo, tt.manual))
		})
	}
}
