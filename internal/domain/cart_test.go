package domain_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/ownmart-pos/internal/catalog"
	"github.com/nikolayk812/ownmart-pos/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestCartAppend(t *testing.T) {
	prices := catalog.Default()

	tests := []struct {
		name      string
		itemName  string
		quantity  int
		wantTotal string
		wantError error
	}{
		{
			name:      "append known item: ok",
			itemName:  "Milk (1L)",
			quantity:  2,
			wantTotal: "124",
		},
		{
			name:      "append unknown item: error",
			itemName:  "Unknown Item",
			quantity:  1,
			wantError: domain.ErrUnknownItem,
		},
		{
			name:      "append zero quantity: error",
			itemName:  "Milk (1L)",
			quantity:  0,
			wantError: domain.ErrInvalidQuantity,
		},
		{
			name:      "append negative quantity: error",
			itemName:  "Milk (1L)",
			quantity:  -3,
			wantError: domain.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.NewCart(gofakeit.UUID())
			_, err := cart.Append(prices, "Rice (1kg)", 1)
			require.NoError(t, err)

			item, err := cart.Append(prices, tt.itemName, tt.quantity)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				assert.Equal(t, 1, cart.Len())
				return
			}
			require.NoError(t, err)

			assert.Equal(t, 2, cart.Len())
			assert.Equal(t, tt.itemName, item.ItemName)
			assert.Equal(t, tt.quantity, item.Quantity)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(item.LineTotal.Amount))
			assert.Equal(t, currency.INR, item.LineTotal.Currency)

			items := cart.Items()
			assert.Equal(t, tt.itemName, items[len(items)-1].ItemName)
		})
	}
}

func TestCartAppendCapturesUnitPrice(t *testing.T) {
	prices := &mutablePrices{price: money("10.00")}
	cart := domain.NewCart(gofakeit.UUID())

	_, err := cart.Append(prices, "Widget", 3)
	require.NoError(t, err)

	prices.price = money("99.00")

	items := cart.Items()
	require.Len(t, items, 1)
	assert.True(t, money("10.00").Amount.Equal(items[0].UnitPrice.Amount))
	assert.True(t, money("30.00").Amount.Equal(items[0].LineTotal.Amount))
}

func TestCartRemoveLastRestoresPreviousState(t *testing.T) {
	prices := catalog.Default()
	names := prices.ListItems()

	for range 20 {
		cart := domain.NewCart(gofakeit.UUID())
		for range gofakeit.IntRange(0, 5) {
			_, err := cart.Append(prices, gofakeit.RandomString(names), gofakeit.IntRange(1, 20))
			require.NoError(t, err)
		}
		before := cart.Items()

		_, err := cart.Append(prices, gofakeit.RandomString(names), gofakeit.IntRange(1, 20))
		require.NoError(t, err)

		_, err = cart.RemoveLast()
		require.NoError(t, err)

		assert.Empty(t, cmp.Diff(before, cart.Items(), moneyComparers()))
	}
}

func TestCartRemoveLastOnEmptyCart(t *testing.T) {
	cart := domain.NewCart(gofakeit.UUID())

	_, err := cart.RemoveLast()
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.True(t, cart.IsEmpty())
}

func TestCartClear(t *testing.T) {
	prices := catalog.Default()
	cart := domain.NewCart(gofakeit.UUID())

	cart.Clear()
	assert.True(t, cart.IsEmpty())

	_, err := cart.Append(prices, "Soap Bar", 4)
	require.NoError(t, err)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Empty(t, cart.Items())
}

func TestCartItemsIsACopy(t *testing.T) {
	cart := domain.NewCart(gofakeit.UUID())
	_, err := cart.Append(catalog.Default(), "Toothpaste", 1)
	require.NoError(t, err)

	items := cart.Items()
	items[0].ItemName = "changed"

	assert.Equal(t, "Toothpaste", cart.Items()[0].ItemName)
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int
		wantErr bool
	}{
		{name: "single digit: ok", text: "1", want: 1},
		{name: "padded: ok", text: "  12 ", want: 12},
		{name: "empty: error", text: "", wantErr: true},
		{name: "zero: error", text: "0", wantErr: true},
		{name: "negative: error", text: "-3", wantErr: true},
		{name: "fraction: error", text: "2.5", wantErr: true},
		{name: "letters: error", text: "two", wantErr: true},
		{name: "plus sign: error", text: "+2", wantErr: true},
		{name: "overflow: error", text: "99999999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseQuantity(tt.text)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidQuantity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewMoney(t *testing.T) {
	m, err := domain.NewMoney(decimal.RequireFromString("12.50"), currency.INR)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("37.5").Equal(m.Times(3).Amount))

	_, err = domain.NewMoney(decimal.RequireFromString("-0.01"), currency.INR)
	require.EqualError(t, err, "amount[-0.01] is negative")
}

type mutablePrices struct {
	price domain.Money
}

func (p *mutablePrices) PriceOf(string) (domain.Money, error) {
	return p.price, nil
}

func money(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: currency.INR}
}

func moneyComparers() cmp.Options {
	return cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
	}
}
