package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidWeight is returned when a weight is not a number or is not greater than zero.
	ErrInvalidWeight = errors.New("invalid weight")
	// ErrUnknownMetal is returned when a metal is not present in the price table.
	ErrUnknownMetal = errors.New("unknown metal")
	// ErrInvalidTable is returned when a price table cannot be built from its entries.
	ErrInvalidTable = errors.New("invalid price table")
)

// Metal identifies a kind of scrap metal, e.g. "copper".
type Metal string

// ParseMetal normalizes a metal identifier received from a form or request body.
func ParseMetal(raw string) Metal {
	return Metal(strings.ToLower(strings.TrimSpace(raw)))
}

// Entry is a single row of a price table.
type Entry struct {
	Metal      Metal
	PricePerLb decimal.Decimal
}

// Input represents the values read from the calculator form.
type Input struct {
	Metal  Metal
	Weight decimal.Decimal
}

// Result contains the looked-up price and the computed scrap value.
type Result struct {
	Metal      Metal
	Weight     decimal.Decimal
	PricePerLb decimal.Decimal
	Total      decimal.Decimal
}

// Table is an immutable, ordered mapping from metal to price per pound.
type Table struct {
	order  []Metal
	prices map[Metal]decimal.Decimal
}

// DefaultEntries returns the built-in price sheet in display order.
func DefaultEntries() []Entry {
	return []Entry{
		{Metal: "copper", PricePerLb: decimal.RequireFromString("3.50")},
		{Metal: "aluminum", PricePerLb: decimal.RequireFromString("0.75")},
		{Metal: "steel", PricePerLb: decimal.RequireFromString("0.30")},
		{Metal: "brass", PricePerLb: decimal.RequireFromString("2.00")},
		{Metal: "iron", PricePerLb: decimal.RequireFromString("0.15")},
	}
}

// DefaultTable returns a table built from DefaultEntries.
func DefaultTable() *Table {
	t, err := NewTable(DefaultEntries())
	if err != nil {
		panic(err)
	}
	return t
}

// NewTable validates entries and builds a table preserving their order.
func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidTable)
	}

	t := &Table{
		order:  make([]Metal, 0, len(entries)),
		prices: make(map[Metal]decimal.Decimal, len(entries)),
	}
	for _, e := range entries {
		metal := ParseMetal(string(e.Metal))
		if metal == "" {
			return nil, fmt.Errorf("%w: empty metal name", ErrInvalidTable)
		}
		if _, dup := t.prices[metal]; dup {
			return nil, fmt.Errorf("%w: duplicate metal %q", ErrInvalidTable, metal)
		}
		if !e.PricePerLb.IsPositive() {
			return nil, fmt.Errorf("%w: price for %q must be greater than 0", ErrInvalidTable, metal)
		}
		t.order = append(t.order, metal)
		t.prices[metal] = e.PricePerLb
	}
	return t, nil
}

// Metals returns the table keys in display order.
func (t *Table) Metals() []Metal {
	out := make([]Metal, len(t.order))
	copy(out, t.order)
	return out
}

// Entries returns a copy of the table rows in display order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, m := range t.order {
		out = append(out, Entry{Metal: m, PricePerLb: t.prices[m]})
	}
	return out
}

// Default returns the first metal of the table, the preselected option.
func (t *Table) Default() Metal {
	return t.order[0]
}

// Price looks up the price per pound for metal.
func (t *Table) Price(metal Metal) (decimal.Decimal, error) {
	price, ok := t.prices[metal]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownMetal, metal)
	}
	return price, nil
}

// Calculate multiplies the input weight by the price of its metal.
func (t *Table) Calculate(in Input) (Result, error) {
	if !in.Weight.IsPositive() {
		return Result{}, ErrInvalidWeight
	}
	price, err := t.Price(in.Metal)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Metal:      in.Metal,
		Weight:     in.Weight,
		PricePerLb: price,
		Total:      in.Weight.Mul(price),
	}, nil
}

// Compute parses rawWeight and calculates the scrap value for metal.
// The weight is validated before the metal is looked up.
func (t *Table) Compute(metal Metal, rawWeight string) (Result, error) {
	weight, err := ParseWeight(rawWeight)
	if err != nil {
		return Result{}, err
	}
	return t.Calculate(Input{Metal: metal, Weight: weight})
}

// ParseWeight parses user-supplied weight text. The value must be a finite
// number strictly greater than zero.
func ParseWeight(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrInvalidWeight
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return decimal.Zero, ErrInvalidWeight
	}
	return decimal.NewFromFloat(value), nil
}
