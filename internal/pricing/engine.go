// Package pricing derives cart totals from line items.
package pricing

import (
	"github.com/nikolayk812/ownmart-pos/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	TaxRate           = decimal.RequireFromString("0.05")
	DiscountRate      = decimal.RequireFromString("0.10")
	DiscountThreshold = decimal.RequireFromString("1000.00")
)

// Policy carries the rates used by Compute.
type Policy struct {
	TaxRate           decimal.Decimal
	DiscountRate      decimal.Decimal
	DiscountThreshold decimal.Decimal
}

// Totals are kept at full precision; rounding happens only when formatting.
type Totals struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		TaxRate:           TaxRate,
		DiscountRate:      DiscountRate,
		DiscountThreshold: DiscountThreshold,
	}
}

// Compute prices items with the default policy.
func Compute(items []domain.LineItem) Totals {
	return DefaultPolicy().Compute(items)
}

// Compute sums line totals, taxes the pre-discount subtotal and applies the
// flat discount once the subtotal reaches the threshold.
func (p Policy) Compute(items []domain.LineItem) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal.Amount)
	}

	tax := subtotal.Mul(p.TaxRate)

	discount := decimal.Zero
	if subtotal.GreaterThanOrEqual(p.DiscountThreshold) {
		discount = subtotal.Mul(p.DiscountRate)
	}

	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		Discount:   discount,
		GrandTotal: subtotal.Add(tax).Sub(discount),
	}
}

// Payable is the grand total rounded to two decimal places.
func (t Totals) Payable() decimal.Decimal {
	return t.GrandTotal.Round(2)
}
