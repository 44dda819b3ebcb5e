package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// TotalBar shows the running invoice total under the table
type TotalBar struct {
	container *fyne.Container
	amount    *widget.Label
}

func NewTotalBar() *TotalBar {
	tb := &TotalBar{
		amount: widget.NewLabelWithStyle("0.00", fyne.TextAlignTrailing, fyne.TextStyle{Bold: true}),
	}
	tb.container = container.NewHBox(
		layout.NewSpacer(),
		widget.NewLabelWithStyle("Total", fyne.TextAlignTrailing, fyne.TextStyle{Bold: true}),
		tb.amount,
	)
	return tb
}

func (tb *TotalBar) SetTotal(text string) {
	tb.amount.SetText(text)
}

func (tb *TotalBar) Total() string {
	return tb.amount.Text
}

// GetContainer returns the total bar container
func (tb *TotalBar) GetContainer() *fyne.Container {
	return tb.container
}
