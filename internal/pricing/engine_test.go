package pricing_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/ownmart-pos/internal/catalog"
	"github.com/nikolayk812/ownmart-pos/internal/domain"
	"github.com/nikolayk812/ownmart-pos/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		lines []line
		want  pricing.Totals
	}{
		{
			name:  "empty cart: all zero",
			lines: nil,
			want:  totals("0", "0", "0", "0"),
		},
		{
			name:  "milk and rice: below threshold",
			lines: []line{{"Milk (1L)", 2}, {"Rice (1kg)", 1}},
			want:  totals("196.00", "9.80", "0", "205.80"),
		},
		{
			name:  "ten apples: over threshold",
			lines: []line{{"Apples (1kg)", 10}},
			want:  totals("1400.00", "70.00", "140.00", "1330.00"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.NewCart(gofakeit.UUID())
			for _, l := range tt.lines {
				_, err := cart.Append(catalog.Default(), l.name, l.qty)
				require.NoError(t, err)
			}

			got := pricing.Compute(cart.Items())
			assert.Empty(t, cmp.Diff(tt.want, got, decimalComparer()))
		})
	}
}

func TestComputeDiscountBoundary(t *testing.T) {
	tests := []struct {
		name         string
		subtotal     string
		wantDiscount string
	}{
		{name: "just below threshold", subtotal: "999.99", wantDiscount: "0"},
		{name: "at threshold", subtotal: "1000.00", wantDiscount: "100.00"},
		{name: "just above threshold", subtotal: "1000.01", wantDiscount: "100.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Compute([]domain.LineItem{lineItem(tt.subtotal, 1)})

			assert.True(t, decimal.RequireFromString(tt.wantDiscount).Equal(got.Discount), "discount %s", got.Discount)
			assert.False(t, got.Discount.IsNegative())
		})
	}
}

// Tax is taken on the subtotal before the discount. This pins current
// behaviour rather than endorsing it as accounting practice.
func TestComputeTaxesPreDiscountSubtotal(t *testing.T) {
	got := pricing.Compute([]domain.LineItem{lineItem("2000", 1)})

	assert.True(t, decimal.RequireFromString("100").Equal(got.Tax))
	assert.True(t, decimal.RequireFromString("200").Equal(got.Discount))
	assert.True(t, decimal.RequireFromString("1900").Equal(got.GrandTotal))
}

func TestComputeKeepsFullPrecision(t *testing.T) {
	got := pricing.Compute([]domain.LineItem{lineItem("1000.01", 1)})

	assert.True(t, decimal.RequireFromString("50.0005").Equal(got.Tax))
	assert.True(t, decimal.RequireFromString("950.0105").Equal(got.GrandTotal))
	assert.True(t, decimal.RequireFromString("950.01").Equal(got.Payable()))
}

func TestComputeSubtotalIsSumOfLineTotals(t *testing.T) {
	for range 50 {
		var (
			items []domain.LineItem
			want  = decimal.Zero
		)
		for range gofakeit.IntRange(1, 10) {
			price := decimal.NewFromFloat(gofakeit.Price(0, 500)).Round(2)
			qty := gofakeit.IntRange(1, 25)

			items = append(items, lineItem(price.String(), qty))
			want = want.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		}

		got := pricing.Compute(items)

		require.True(t, want.Equal(got.Subtotal), "want %s, got %s", want, got.Subtotal)
		require.True(t, got.Subtotal.Add(got.Tax).Sub(got.Discount).Equal(got.GrandTotal))
	}
}

func TestPolicyCompute(t *testing.T) {
	policy := pricing.Policy{
		TaxRate:           decimal.RequireFromString("0.18"),
		DiscountRate:      decimal.RequireFromString("0.05"),
		DiscountThreshold: decimal.RequireFromString("100"),
	}

	got := policy.Compute([]domain.LineItem{lineItem("50", 2)})

	assert.Empty(t, cmp.Diff(totals("100", "18", "5", "113"), got, decimalComparer()))
}

type line struct {
	name string
	qty  int
}

func lineItem(unitPrice string, qty int) domain.LineItem {
	price := domain.Money{Amount: decimal.RequireFromString(unitPrice), Currency: currency.INR}

	return domain.LineItem{
		ItemName:  gofakeit.ProductName(),
		Quantity:  qty,
		UnitPrice: price,
		LineTotal: price.Times(qty),
	}
}

func totals(subtotal, tax, discount, grandTotal string) pricing.Totals {
	return pricing.Totals{
		Subtotal:   decimal.RequireFromString(subtotal),
		Tax:        decimal.RequireFromString(tax),
		Discount:   decimal.RequireFromString(discount),
		GrandTotal: decimal.RequireFromString(grandTotal),
	}
}

func decimalComparer() cmp.Option {
	return cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})
}
