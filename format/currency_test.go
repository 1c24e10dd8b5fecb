package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/ledgerline/format"
)

func TestAmount(t *testing.T) {
	assert.Equal(t, "$1,234,567.89", format.Amount("$", 1234567.891))
	assert.Equal(t, "₹0.00", format.Amount("₹", 0))
	assert.Equal(t, "-12.50", format.Amount("", -12.5))
}

func TestPrinterFallsBackToEnglish(t *testing.T) {
	pr := format.NewPrinter("no-such-tag-!!")
	assert.Equal(t, "$10.00", pr.Amount("$", 10))
}
