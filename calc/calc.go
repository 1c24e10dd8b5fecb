// Package calc implements the line-item calculation engine shared by every
// sales and purchase document in LedgerLine: invoices, purchases, sales
// returns, debit notes, and delivery challans.
//
// The engine is pure. It performs no I/O, holds no state, and never fails:
// malformed form input degrades to zero so live-typing callers always get
// totals back.
package calc

import "math"

// LineInput is one document row as delivered by the dashboard forms. Fields
// are deliberately loose: forms send numbers, numeric strings, or nothing at
// all. Normalization happens here at the boundary, once, before the typed
// arithmetic runs.
type LineInput struct {
	Quantity      any `json:"quantity"`
	Rate          any `json:"rate"`
	DiscountType  any `json:"discountType"`
	DiscountValue any `json:"discountValue"`
	TaxRate       any `json:"taxRate"`
	TaxInfo       any `json:"taxInfo"`
}

// LineValues carries the five derived amounts for a single line, each
// rounded to two decimals.
type LineValues struct {
	Subtotal       float64 `json:"lineSubtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxableAmount  float64 `json:"taxableAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	LineAmount     float64 `json:"lineAmount"`
}

// DocumentTotals aggregates LineValues over a whole document.
type DocumentTotals struct {
	Subtotal      float64 `json:"subTotal"`
	TotalDiscount float64 `json:"totalDiscount"`
	TaxableAmount float64 `json:"taxableAmount"`
	TotalTax      float64 `json:"totalTax"`
	Total         float64 `json:"total"`
}

// DocumentSummary is DocumentTotals renamed for the persistence payload the
// backend expects, plus the optional round-off delta.
type DocumentSummary struct {
	TaxableAmount float64 `json:"taxableAmount"`
	TotalDiscount float64 `json:"totalDiscount"`
	VAT           float64 `json:"vat"`
	TotalAmount   float64 `json:"TotalAmount"`
	RoundOffValue float64 `json:"roundOffValue"`
}

// round2 rounds half toward positive infinity at two decimals. The chained
// use of round2 at every intermediate step is load-bearing: stored documents
// were written by an engine that rounded each stage, and recomputed totals
// must match them to the cent.
func round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// roundWhole rounds half toward positive infinity to a whole currency unit.
func roundWhole(x float64) float64 {
	return math.Floor(x + 0.5)
}

// ItemValues computes the derived amounts for a single line.
//
// A percentage discount is clamped to [0,100]. A fixed discount is applied
// as given, even when it exceeds the line subtotal; the resulting negative
// taxable and line amounts are accepted behavior. Tax always applies to the
// post-discount taxable amount.
func ItemValues(item LineInput) LineValues {
	subtotal := round2(Number(item.Rate) * Number(item.Quantity))

	var discount float64
	switch ParseDiscountType(item.DiscountType) {
	case DiscountPercent:
		pct := Number(item.DiscountValue)
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		discount = round2(subtotal * pct / 100)
	default:
		discount = round2(Number(item.DiscountValue))
	}

	taxable := round2(subtotal - discount)
	tax := round2(taxable * effectiveTaxRate(item.TaxInfo, item.TaxRate) / 100)

	return LineValues{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		TaxAmount:      tax,
		LineAmount:     round2(taxable + tax),
	}
}

// Totals reduces a document's lines into aggregate totals. No rounding is
// reapplied at the aggregate level. A nil or empty slice yields zeros.
func Totals(items []LineInput) DocumentTotals {
	var t DocumentTotals
	for _, item := range items {
		v := ItemValues(item)
		t.Subtotal += v.Subtotal
		t.TotalDiscount += v.DiscountAmount
		t.TaxableAmount += v.TaxableAmount
		t.TotalTax += v.TaxAmount
		t.Total += v.LineAmount
	}
	return t
}

// DocumentTotalsFor reduces lines into the persistence payload shape. When
// applyRoundOff is set the grand total snaps to the nearest whole currency
// unit and the delta is recorded separately in RoundOffValue.
func DocumentTotalsFor(items []LineInput, applyRoundOff bool) DocumentSummary {
	t := Totals(items)
	s := DocumentSummary{
		TaxableAmount: t.TaxableAmount,
		TotalDiscount: t.TotalDiscount,
		VAT:           t.TotalTax,
		TotalAmount:   t.Total,
	}
	if applyRoundOff {
		rounded := roundWhole(s.TotalAmount)
		s.RoundOffValue = rounded - s.TotalAmount
		s.TotalAmount = rounded
	}
	return s
}
