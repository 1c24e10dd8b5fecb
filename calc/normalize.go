package calc

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// DiscountType identifies how a line discount value is interpreted.
type DiscountType int

const (
	// DiscountFixed treats the discount value as an absolute currency amount.
	DiscountFixed DiscountType = iota
	// DiscountPercent treats the discount value as a percentage of the line
	// subtotal.
	DiscountPercent
)

// Legacy numeric codes still sent by older dashboard forms.
const (
	codePercent = 1
	codeFixed   = 2
)

func (d DiscountType) String() string {
	if d == DiscountPercent {
		return "percentage"
	}
	return "fixed"
}

// ParseDiscountType normalizes every discount-type spelling the dashboard
// forms are known to send: the canonical constants, legacy numeric codes
// (possibly as strings), or case-insensitive text. Unrecognized input falls
// back to DiscountFixed.
func ParseDiscountType(v any) DiscountType {
	switch t := v.(type) {
	case nil:
		return DiscountFixed
	case DiscountType:
		if t == DiscountPercent {
			return DiscountPercent
		}
		return DiscountFixed
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "percentage", "percent":
			return DiscountPercent
		case "fixed", "amount", "flat":
			return DiscountFixed
		}
		if n, err := cast.ToIntE(strings.TrimSpace(t)); err == nil && n == codePercent {
			return DiscountPercent
		}
		return DiscountFixed
	default:
		if n, err := cast.ToIntE(v); err == nil && n == codePercent {
			return DiscountPercent
		}
		return DiscountFixed
	}
}

// TaxInfo mirrors the tax reference attached to a line item. Forms may send
// it inline as an object or as a JSON-encoded string.
type TaxInfo struct {
	TaxName string  `json:"taxName"`
	TaxRate float64 `json:"taxRate"`
}

// Number coerces arbitrary form input to a float64, degrading anything
// unparseable, NaN, or infinite to 0.
func Number(v any) float64 {
	if v == nil {
		return 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// effectiveTaxRate resolves the rate to apply: a parsable tax reference wins
// over the manually supplied rate.
func effectiveTaxRate(taxInfo any, manualRate any) float64 {
	if rate, ok := taxInfoRate(taxInfo); ok {
		return rate
	}
	return Number(manualRate)
}

func taxInfoRate(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case TaxInfo:
		return t.TaxRate, true
	case *TaxInfo:
		if t == nil {
			return 0, false
		}
		return t.TaxRate, true
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return 0, false
		}
		// Decode to a map so a missing taxRate key resolves the same way
		// for both encodings of the reference.
		var fields map[string]any
		if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
			return 0, false
		}
		rate, ok := fields["taxRate"]
		if !ok {
			return 0, false
		}
		return Number(rate), true
	case map[string]any:
		rate, ok := t["taxRate"]
		if !ok {
			return 0, false
		}
		return Number(rate), true
	default:
		return 0, false
	}
}
