package model

import "github.com/shopspring/decimal"

func init() {
	// prices go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// TaxRate is the GST applied on top of the items subtotal at checkout.
var TaxRate = decimal.RequireFromString("0.28")

// Money rounds to two decimal places, half away from zero.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
