// Package catalog holds the static price list the terminal sells from.
package catalog

import (
	"fmt"
	"slices"

	"github.com/nikolayk812/ownmart-pos/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Entry struct {
	Name      string
	UnitPrice domain.Money
}

// Catalog is immutable after New. Lookups are by exact name; listing keeps
// declaration order.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("item name is empty")
		}
		if _, ok := c.byName[e.Name]; ok {
			return nil, fmt.Errorf("item[%s] is declared twice", e.Name)
		}
		if e.UnitPrice.Amount.IsNegative() {
			return nil, fmt.Errorf("item[%s] has negative price %s", e.Name, e.UnitPrice.Amount)
		}

		c.byName[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	return c, nil
}

func (c *Catalog) PriceOf(name string) (domain.Money, error) {
	i, ok := c.byName[name]
	if !ok {
		return domain.Money{}, fmt.Errorf("item[%s]: %w", name, domain.ErrUnknownItem)
	}

	return c.entries[i].UnitPrice, nil
}

func (c *Catalog) ListItems() []string {
	names := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		names = append(names, e.Name)
	}

	return names
}

func (c *Catalog) Entries() []Entry {
	return slices.Clone(c.entries)
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Default returns the compiled-in OwnMart price list in INR.
func Default() *Catalog {
	c, err := New(
		inr("Milk (1L)", "62.00"),
		inr("Bread (Loaf)", "45.00"),
		inr("Eggs (6 pcs)", "55.00"),
		inr("Rice (1kg)", "72.00"),
		inr("Sugar (1kg)", "48.00"),
		inr("Apples (1kg)", "140.00"),
		inr("Bananas (1 dozen)", "60.00"),
		inr("Oil (1L)", "165.00"),
		inr("Toothpaste", "95.00"),
		inr("Soap Bar", "35.00"),
		inr("(Products List Customisble)", "3.00"),
	)
	if err != nil {
		panic(err)
	}

	return c
}

func inr(name, price string) Entry {
	return Entry{
		Name: name,
		UnitPrice: domain.Money{
			Amount:   decimal.RequireFromString(price),
			Currency: currency.INR,
		},
	}
}
