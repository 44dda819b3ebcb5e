package models

import (
	"strconv"
	"strings"

	"yocto-invoice/internal/money"

	"github.com/shopspring/decimal"
)

const (
	MinQuantity = 1
	MaxQuantity = 99
)

// QuantityEditor coerces typed text into a quantity in [Min, Max]
type QuantityEditor struct {
	Min int
	Max int
}

func NewQuantityEditor() QuantityEditor {
	return QuantityEditor{Min: MinQuantity, Max: MaxQuantity}
}

// Interpret parses text, falling back to current when it is not a number
func (e QuantityEditor) Interpret(text string, current int) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		n = current
	}
	return e.clamp(n)
}

func (e QuantityEditor) clamp(n int) int {
	if n < e.Min {
		return e.Min
	}
	if n > e.Max {
		return e.Max
	}
	return n
}

// Commit writes the interpreted text to the quantity cell of row
func (e QuantityEditor) Commit(model *InvoiceModel, row int, text string) error {
	return model.EditQuantity(row, func(current int) int {
		return e.Interpret(text, current)
	})
}

// PriceEditor coerces typed text into a two-decimal price in [Min, Max]
type PriceEditor struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func NewPriceEditor() PriceEditor {
	return PriceEditor{Min: money.Zero, Max: money.MaxPrice}
}

// Interpret parses text, falling back to current when it is not an amount
func (e PriceEditor) Interpret(text string, current decimal.Decimal) decimal.Decimal {
	d, err := money.Parse(text)
	if err != nil {
		d = current
	}
	return money.Clamp(d.Round(money.Places), e.Min, e.Max)
}

// Commit writes the interpreted text to the price cell of row
func (e PriceEditor) Commit(model *InvoiceModel, row int, text string) error {
	return model.EditPrice(row, func(current decimal.Decimal) decimal.Decimal {
		return e.Interpret(text, current)
	})
}
