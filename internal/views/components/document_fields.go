package components

import (
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/data/validation"
	"fyne.io/fyne/v2/widget"
)

// DocumentFields holds the document number and the due-date picker. The due
// date never goes before the date returned by minDate.
type DocumentFields struct {
	form    *widget.Form
	number  *widget.Entry
	dueDate *widget.DateEntry
	minDate func() time.Time
}

func NewDocumentFields(minDate func() time.Time) *DocumentFields {
	df := &DocumentFields{
		number:  widget.NewEntry(),
		dueDate: widget.NewDateEntry(),
		minDate: minDate,
	}

	df.number.Validator = validation.NewRegexp(`^[1-9][0-9]*$`, "number must be 1 or more")
	df.number.SetText("1")

	today := minDate()
	df.dueDate.SetDate(&today)
	df.dueDate.OnChanged = df.clampDueDate

	df.form = widget.NewForm(
		widget.NewFormItem("#", df.number),
		widget.NewFormItem("Due Date", df.dueDate),
	)
	return df
}

func (df *DocumentFields) clampDueDate(d *time.Time) {
	earliest := df.minDate()
	if d == nil || d.Before(earliest) {
		df.dueDate.SetDate(&earliest)
	}
}

// Number parses the number entry, falling back to 1
func (df *DocumentFields) Number() int {
	n, err := strconv.Atoi(strings.TrimSpace(df.number.Text))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (df *DocumentFields) SetNumber(n int) {
	df.number.SetText(strconv.Itoa(n))
}

// DueDate returns the picked date or the minimum when none is set
func (df *DocumentFields) DueDate() time.Time {
	if df.dueDate.Date == nil {
		return df.minDate()
	}
	return *df.dueDate.Date
}

func (df *DocumentFields) SetDueDate(t time.Time) {
	df.dueDate.SetDate(&t)
	df.clampDueDate(&t)
}

func (df *DocumentFields) GetContainer() fyne.CanvasObject {
	return df.form
}
