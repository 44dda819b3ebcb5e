package components

import (
	"yocto-invoice/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

var columnWidths = map[models.Column]float32{
	models.ColumnDescription: 360,
	models.ColumnQuantity:    100,
	models.ColumnPrice:       140,
}

const placeholderHint = "Add a line item…"

// cellEntry is an entry that commits when submitted or when it loses focus
// with changed text.
type cellEntry struct {
	widget.Entry

	id       widget.TableCellID
	original string
	onCommit func(id widget.TableCellID, text string)
}

func newCellEntry(onCommit func(widget.TableCellID, string)) *cellEntry {
	e := &cellEntry{onCommit: onCommit}
	e.ExtendBaseWidget(e)
	e.OnSubmitted = func(string) { e.commit() }
	return e
}

func (e *cellEntry) FocusLost() {
	e.Entry.FocusLost()
	e.commit()
}

func (e *cellEntry) commit() {
	if e.Text == e.original || e.onCommit == nil {
		return
	}
	e.original = e.Text
	e.onCommit(e.id, e.Text)
}

func (e *cellEntry) bind(id widget.TableCellID, text string) {
	e.id = id
	e.original = text
	e.SetText(text)
}

// LineItems is the editable line-item table
type LineItems struct {
	table    *widget.Table
	model    *models.InvoiceModel
	quantity models.QuantityEditor
	price    models.PriceEditor
	onError  func(error)
}

func NewLineItems(model *models.InvoiceModel) *LineItems {
	li := &LineItems{
		model:    model,
		quantity: models.NewQuantityEditor(),
		price:    models.NewPriceEditor(),
	}

	li.table = widget.NewTableWithHeaders(li.size, li.createCell, li.updateCell)
	li.table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	}
	li.table.UpdateHeader = li.updateHeader

	for col, width := range columnWidths {
		li.table.SetColumnWidth(int(col), width)
	}
	return li
}

// SetErrorHandler receives commit failures
func (li *LineItems) SetErrorHandler(fn func(error)) {
	li.onError = fn
}

func (li *LineItems) size() (int, int) {
	return li.model.RowCount(), li.model.ColumnCount()
}

func (li *LineItems) createCell() fyne.CanvasObject {
	return newCellEntry(li.commit)
}

func (li *LineItems) updateCell(id widget.TableCellID, obj fyne.CanvasObject) {
	entry := obj.(*cellEntry)
	col := models.Column(id.Col)

	entry.bind(id, li.model.DisplayText(id.Row, col))

	entry.PlaceHolder = ""
	if col == models.ColumnDescription && li.model.IsPlaceholder(id.Row) {
		entry.PlaceHolder = placeholderHint
	}

	if li.model.Editable(id.Row, col) {
		entry.Enable()
	} else {
		entry.Disable()
	}
}

func (li *LineItems) updateHeader(id widget.TableCellID, obj fyne.CanvasObject) {
	label := obj.(*widget.Label)
	switch {
	case id.Row < 0 && id.Col >= 0:
		label.SetText(li.model.HeaderData(models.Column(id.Col)))
	case id.Col < 0 && id.Row >= 0:
		label.SetText(li.model.RowHeader(id.Row))
	default:
		label.SetText("")
	}
}

func (li *LineItems) commit(id widget.TableCellID, text string) {
	var err error
	switch models.Column(id.Col) {
	case models.ColumnDescription:
		err = li.model.SetDescription(id.Row, text)
	case models.ColumnQuantity:
		err = li.quantity.Commit(li.model, id.Row, text)
	case models.ColumnPrice:
		err = li.price.Commit(li.model, id.Row, text)
	default:
		err = models.ErrColumn
	}

	if err != nil && li.onError != nil {
		li.onError(err)
	}
}

func (li *LineItems) Refresh() {
	li.table.Refresh()
}

func (li *LineItems) GetContainer() fyne.CanvasObject {
	return li.table
}
