package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is how document dates are printed
const DateLayout = "2006/01/02"

// DocumentType selects between an invoice and a quote
type DocumentType int

const (
	Invoice DocumentType = iota
	Quote
)

func (t DocumentType) String() string {
	if t == Quote {
		return "quote"
	}
	return "invoice"
}

// Title is the heading printed on the document
func (t DocumentType) Title() string {
	return strings.ToUpper(t.String())
}

// MetadataTitle is the PDF title property
func (t DocumentType) MetadataTitle() string {
	if t == Quote {
		return "Quote"
	}
	return "Invoice"
}

// DefaultFileName is offered by the save dialog
func (t DocumentType) DefaultFileName() string {
	return t.MetadataTitle() + ".pdf"
}

// HasDueDate is false for quotes
func (t DocumentType) HasDueDate() bool {
	return t == Invoice
}

// Business holds the sender's details, persisted between sessions
type Business struct {
	Name      string
	Address   string
	City      string
	Province  string
	PostCode  string
	Country   string
	Phone     string
	Email     string
	Website   string
	RegNumber string
	LogoPath  string
}

// ContactLines lists the non-empty contact fields in print order
func (b Business) ContactLines() []string {
	lines := make([]string, 0, 8)
	lines = appendIf(lines, b.Address)
	lines = appendPair(lines, b.City, b.Province)
	lines = appendPair(lines, b.PostCode, b.Country)
	lines = appendIf(lines, b.Phone)
	lines = appendIf(lines, b.Email)
	lines = appendIf(lines, b.Website)
	if b.RegNumber != "" {
		lines = append(lines, "Reg. number: "+b.RegNumber)
	}
	return lines
}

// IsZero reports whether no field was filled in
func (b Business) IsZero() bool {
	return b == Business{}
}

// Customer holds the billing details entered per document
type Customer struct {
	Name     string
	Company  string
	Address  string
	City     string
	Province string
	PostCode string
	Country  string
	Phone    string
	Email    string
}

// ContactLines lists the non-empty billing fields in print order. The name,
// when present, is always first.
func (c Customer) ContactLines() []string {
	lines := make([]string, 0, 8)
	lines = appendIf(lines, c.Name)
	lines = appendIf(lines, c.Company)
	lines = appendIf(lines, c.Address)
	lines = appendPair(lines, c.City, c.Province)
	lines = appendPair(lines, c.PostCode, c.Country)
	lines = appendIf(lines, c.Phone)
	lines = appendIf(lines, c.Email)
	return lines
}

func appendIf(lines []string, s string) []string {
	if s == "" {
		return lines
	}
	return append(lines, s)
}

// appendPair joins a and b as "a, b" when both are set
func appendPair(lines []string, a, b string) []string {
	if a != "" && b != "" {
		return append(lines, a+", "+b)
	}
	lines = appendIf(lines, a)
	return appendIf(lines, b)
}

// Document is the snapshot handed to the renderer
type Document struct {
	Type     DocumentType
	Number   int
	Date     time.Time
	DueDate  time.Time
	Business Business
	Customer Customer
	Items    []LineItem
	Total    decimal.Decimal
}

// NewDocument builds a document from the form state. Numbers below one
// become one and a due date before the issue date moves up to it.
func NewDocument(docType DocumentType, number int, date, due time.Time, business Business, customer Customer, items []LineItem) Document {
	if number < 1 {
		number = 1
	}

	date = truncateDay(date)
	due = truncateDay(due)
	if due.Before(date) {
		due = date
	}

	copied := make([]LineItem, len(items))
	copy(copied, items)

	return Document{
		Type:     docType,
		Number:   number,
		Date:     date,
		DueDate:  due,
		Business: business,
		Customer: customer,
		Items:    copied,
		Total:    Total(copied),
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
