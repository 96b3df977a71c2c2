// Package receipt renders a cart and its totals as fixed-width receipt text.
package receipt

import (
	"fmt"
	"strings"

	"github.com/nikolayk812/ownmart-pos/internal/domain"
	"github.com/nikolayk812/ownmart-pos/internal/pricing"
	"github.com/shopspring/decimal"
)

const (
	DefaultTitle  = "Own Mart"
	DefaultSymbol = "₹"

	nameWidth   = 20
	qtyWidth    = 3
	amountWidth = 10
	labelWidth  = 19
	ruleWidth   = 35
	titleIndent = 9
	columnGap   = "   "
)

var rule = strings.Repeat("-", ruleWidth)

type Formatter struct {
	title    string
	symbol   string
	taxLabel string
}

type Option func(*Formatter)

func WithTitle(title string) Option {
	return func(f *Formatter) { f.title = title }
}

func WithSymbol(symbol string) Option {
	return func(f *Formatter) { f.symbol = symbol }
}

func WithTaxLabel(label string) Option {
	return func(f *Formatter) { f.taxLabel = label }
}

// WithPolicy derives the tax label from the policy's tax rate.
func WithPolicy(p pricing.Policy) Option {
	return func(f *Formatter) { f.taxLabel = taxLabel(p.TaxRate) }
}

func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		title:    DefaultTitle,
		symbol:   DefaultSymbol,
		taxLabel: taxLabel(pricing.TaxRate),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Format is deterministic: equal inputs always produce byte-identical text.
func (f *Formatter) Format(items []domain.LineItem, totals pricing.Totals) string {
	var b strings.Builder

	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(strings.Repeat(" ", titleIndent) + f.title + " RECEIPT")
	line(rule)
	line("Item                    Qty    Amount")
	line(rule)

	for _, it := range items {
		line(fmt.Sprintf("%-*s%s%*d%s%*s",
			nameWidth, truncate(it.ItemName, nameWidth),
			columnGap,
			qtyWidth, it.Quantity,
			columnGap,
			amountWidth, f.FormatMoney(it.LineTotal.Amount)))
	}

	line(rule)
	line(f.totalLine("Subtotal:", totals.Subtotal))
	line(f.totalLine(f.taxLabel+":", totals.Tax))
	line(f.totalLine("Discount:", totals.Discount))
	line(rule)
	line(f.totalLine("Grand Total:", totals.GrandTotal))
	line(rule)

	return b.String()
}

// FormatMoney renders an amount with the currency symbol, thousands
// separators and exactly two decimals.
func (f *Formatter) FormatMoney(amount decimal.Decimal) string {
	rounded := amount.Round(2)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	whole, frac, _ := strings.Cut(rounded.StringFixed(2), ".")

	return sign + f.symbol + group(whole) + "." + frac
}

// group inserts a comma every three digits from the right.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}

func (f *Formatter) totalLine(label string, amount decimal.Decimal) string {
	return fmt.Sprintf("%-*s%s", labelWidth, label, f.FormatMoney(amount))
}

func taxLabel(rate decimal.Decimal) string {
	return fmt.Sprintf("GST (%s%%)", rate.Mul(decimal.NewFromInt(100)).String())
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}
