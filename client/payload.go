package client

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/ledgerline/calc"
)

var validate = validator.New()

// DocumentType enumerates the document kinds that share the line engine.
type DocumentType string

const (
	DocumentInvoice         DocumentType = "invoice"
	DocumentPurchase        DocumentType = "purchase"
	DocumentSalesReturn     DocumentType = "sales-return"
	DocumentDebitNote       DocumentType = "debit-note"
	DocumentDeliveryChallan DocumentType = "delivery-challan"
)

// LinePayload is one computed row as persisted by the backend. Only computed
// fields travel; the backend never recomputes them.
type LinePayload struct {
	Quantity       float64 `json:"quantity" validate:"gte=0"`
	Rate           float64 `json:"rate" validate:"gte=0"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxableAmount  float64 `json:"taxableAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	LineAmount     float64 `json:"lineAmount"`
}

// DocumentPayload is the save-request body for any sales or purchase
// document, carrying the per-line results alongside the document summary.
type DocumentPayload struct {
	Type  DocumentType  `json:"type" validate:"required,oneof=invoice purchase sales-return debit-note delivery-challan"`
	Items []LinePayload `json:"items" validate:"required,min=1,dive"`
	calc.DocumentSummary
}

// BuildDocumentPayload runs the calculation engine over raw form lines and
// assembles the persistence payload.
func BuildDocumentPayload(docType DocumentType, items []calc.LineInput, applyRoundOff bool) DocumentPayload {
	lines := make([]LinePayload, 0, len(items))
	for _, item := range items {
		v := calc.ItemValues(item)
		lines = append(lines, LinePayload{
			Quantity:       calc.Number(item.Quantity),
			Rate:           calc.Number(item.Rate),
			DiscountAmount: v.DiscountAmount,
			TaxableAmount:  v.TaxableAmount,
			TaxAmount:      v.TaxAmount,
			LineAmount:     v.LineAmount,
		})
	}
	return DocumentPayload{
		Type:            docType,
		Items:           lines,
		DocumentSummary: calc.DocumentTotalsFor(items, applyRoundOff),
	}
}

// Validate checks the payload against its declared constraints.
func (p DocumentPayload) Validate() error {
	return validate.Struct(p)
}

// SaveDocument validates and POSTs a document payload to the given endpoint.
func (c *Client) SaveDocument(ctx context.Context, endpoint string, payload DocumentPayload) (*Envelope, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document payload: %w", err)
	}
	return c.Post(ctx, endpoint, payload)
}
