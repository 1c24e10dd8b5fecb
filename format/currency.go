// Package format renders computed amounts for display: grouped digits, two
// decimals, and the company currency symbol in front.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer formats monetary amounts for one locale.
type Printer struct {
	p *message.Printer
}

// NewPrinter builds a Printer for the given BCP 47 tag, falling back to
// English when the tag does not parse.
func NewPrinter(tag string) *Printer {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.English
	}
	return &Printer{p: message.NewPrinter(t)}
}

// Amount renders value prefixed with the currency symbol.
func (pr *Printer) Amount(symbol string, value float64) string {
	return pr.p.Sprintf("%s%.2f", symbol, value)
}

var defaultPrinter = NewPrinter("en")

// Amount renders value with the default English printer.
func Amount(symbol string, value float64) string {
	return defaultPrinter.Amount(symbol, value)
}
