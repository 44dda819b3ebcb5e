package models

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"yocto-invoice/internal/money"

	"github.com/shopspring/decimal"
)

var (
	ErrRowOutOfRange  = errors.New("row out of range")
	ErrPlaceholderRow = errors.New("placeholder row has no quantity or price")
	ErrColumn         = errors.New("unknown column")
	ErrOutOfRange     = errors.New("value out of range")
)

// Column identifies a line-item table column
type Column int

const (
	ColumnDescription Column = iota
	ColumnQuantity
	ColumnPrice
)

var columnTitles = [...]string{"Description", "Quantity", "Price"}

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnTitles) {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnTitles[c]
}

// LineItem is one row of the invoice table
type LineItem struct {
	Description string
	Quantity    int
	Price       decimal.Decimal
}

// Amount is quantity times unit price
func (li LineItem) Amount() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ChangeKind describes what a model mutation did
type ChangeKind int

const (
	ChangeUpdated ChangeKind = iota
	ChangeInserted
	ChangeRemoved
	ChangeReset
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeUpdated:
		return "updated"
	case ChangeInserted:
		return "inserted"
	case ChangeRemoved:
		return "removed"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change is delivered to listeners after every mutation
type Change struct {
	Kind   ChangeKind
	Row    int
	Column Column
}

// ChangeListener observes model mutations
type ChangeListener func(Change)

// InvoiceModel backs the editable line-item grid. The last row is always a
// blank placeholder; typing a description into it promotes it to a real
// item and appends a new placeholder.
type InvoiceModel struct {
	mu        sync.RWMutex
	items     []LineItem
	listeners []ChangeListener
}

// NewInvoiceModel creates a model holding only the placeholder row
func NewInvoiceModel() *InvoiceModel {
	return &InvoiceModel{
		items: []LineItem{{}},
	}
}

// OnChanged registers a listener, called outside the model lock
func (m *InvoiceModel) OnChanged(listener ChangeListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// RowCount includes the placeholder row
func (m *InvoiceModel) RowCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *InvoiceModel) ColumnCount() int {
	return len(columnTitles)
}

// HeaderData returns the horizontal header title for col
func (m *InvoiceModel) HeaderData(col Column) string {
	return col.String()
}

// RowHeader returns the one-based vertical header label
func (m *InvoiceModel) RowHeader(row int) string {
	return strconv.Itoa(row + 1)
}

// IsPlaceholder reports whether row is the trailing blank row
func (m *InvoiceModel) IsPlaceholder(row int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return row == len(m.items)-1
}

// Editable reports whether the cell accepts edits. Quantity and price are
// locked on the placeholder row until it has a description.
func (m *InvoiceModel) Editable(row int, col Column) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if row < 0 || row >= len(m.items) {
		return false
	}
	if row == len(m.items)-1 && (col == ColumnQuantity || col == ColumnPrice) {
		return false
	}
	return true
}

// DisplayText renders a cell for the grid
func (m *InvoiceModel) DisplayText(row int, col Column) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if row < 0 || row >= len(m.items) {
		return ""
	}

	item := m.items[row]
	placeholder := row == len(m.items)-1

	switch col {
	case ColumnDescription:
		return item.Description
	case ColumnQuantity:
		if placeholder {
			return ""
		}
		return strconv.Itoa(item.Quantity)
	case ColumnPrice:
		if placeholder {
			return ""
		}
		return money.Format(item.Price)
	default:
		return ""
	}
}

// Item returns the row at index row, placeholder included
func (m *InvoiceModel) Item(row int) (LineItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if row < 0 || row >= len(m.items) {
		return LineItem{}, fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	return m.items[row], nil
}

// SetDescription edits a description. A non-empty value on the placeholder
// row promotes it with quantity 1 and price 0.00; an empty value on any
// other row removes that row.
func (m *InvoiceModel) SetDescription(row int, text string) error {
	m.mu.Lock()

	if row < 0 || row >= len(m.items) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}

	last := len(m.items) - 1
	var changes []Change

	switch {
	case row == last && text != "":
		m.items[row] = LineItem{Description: text, Quantity: 1, Price: money.Zero}
		m.items = append(m.items, LineItem{})
		changes = append(changes,
			Change{Kind: ChangeUpdated, Row: row, Column: ColumnDescription},
			Change{Kind: ChangeInserted, Row: row + 1},
		)
	case row != last && text == "":
		m.items = append(m.items[:row], m.items[row+1:]...)
		changes = append(changes, Change{Kind: ChangeRemoved, Row: row})
	default:
		m.items[row].Description = text
		changes = append(changes, Change{Kind: ChangeUpdated, Row: row, Column: ColumnDescription})
	}

	listeners := m.snapshotListeners()
	m.mu.Unlock()

	notify(listeners, changes...)
	return nil
}

// SetQuantity stores n on a real item. n must be within
// [MinQuantity, MaxQuantity].
func (m *InvoiceModel) SetQuantity(row, n int) error {
	return m.EditQuantity(row, func(int) int { return n })
}

// EditQuantity replaces a quantity with edit(current), reading and writing
// under one lock
func (m *InvoiceModel) EditQuantity(row int, edit func(current int) int) error {
	return m.update(row, ColumnQuantity, func(item *LineItem) error {
		n := edit(item.Quantity)
		if n < MinQuantity || n > MaxQuantity {
			return fmt.Errorf("%w: quantity %d not in [%d, %d]", ErrOutOfRange, n, MinQuantity, MaxQuantity)
		}
		item.Quantity = n
		return nil
	})
}

// SetPrice stores d, rounded to two places, on a real item. d must be
// within [0, money.MaxPrice].
func (m *InvoiceModel) SetPrice(row int, d decimal.Decimal) error {
	return m.EditPrice(row, func(decimal.Decimal) decimal.Decimal { return d })
}

// EditPrice replaces a price with edit(current), reading and writing under
// one lock
func (m *InvoiceModel) EditPrice(row int, edit func(current decimal.Decimal) decimal.Decimal) error {
	return m.update(row, ColumnPrice, func(item *LineItem) error {
		d := edit(item.Price).Round(money.Places)
		if d.LessThan(money.Zero) || d.GreaterThan(money.MaxPrice) {
			return fmt.Errorf("%w: price %s not in [0.00, %s]", ErrOutOfRange, d.StringFixed(money.Places), money.Format(money.MaxPrice))
		}
		item.Price = d
		return nil
	})
}

func (m *InvoiceModel) update(row int, col Column, apply func(*LineItem) error) error {
	m.mu.Lock()

	if row < 0 || row >= len(m.items) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	if row == len(m.items)-1 {
		m.mu.Unlock()
		return fmt.Errorf("%w: row %d", ErrPlaceholderRow, row)
	}

	if err := apply(&m.items[row]); err != nil {
		m.mu.Unlock()
		return err
	}
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	notify(listeners, Change{Kind: ChangeUpdated, Row: row, Column: col})
	return nil
}

// Items returns a copy of the real rows, placeholder excluded
func (m *InvoiceModel) Items() []LineItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]LineItem, len(m.items)-1)
	copy(items, m.items[:len(m.items)-1])
	return items
}

// Total sums quantity times price over the real rows
func (m *InvoiceModel) Total() decimal.Decimal {
	return Total(m.Items())
}

// Reset drops every item, leaving only the placeholder
func (m *InvoiceModel) Reset() {
	m.mu.Lock()
	m.items = []LineItem{{}}
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	notify(listeners, Change{Kind: ChangeReset})
}

func (m *InvoiceModel) snapshotListeners() []ChangeListener {
	listeners := make([]ChangeListener, len(m.listeners))
	copy(listeners, m.listeners)
	return listeners
}

func notify(listeners []ChangeListener, changes ...Change) {
	for _, change := range changes {
		for _, listener := range listeners {
			listener(change)
		}
	}
}

// Total sums the amounts of items
func Total(items []LineItem) decimal.Decimal {
	total := money.Zero
	for _, item := range items {
		total = total.Add(item.Amount())
	}
	return total
}
