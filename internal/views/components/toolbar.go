package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Handlers are the main window actions
type Handlers struct {
	New             func()
	SaveInvoice     func()
	SaveQuote       func()
	BusinessDetails func()
	About           func()
}

func invoke(fn func()) {
	if fn != nil {
		fn()
	}
}

// Toolbar exposes the actions as a toolbar and as the window's main menu
type Toolbar struct {
	toolbar  *widget.Toolbar
	handlers Handlers
}

// NewToolbar creates a new toolbar component
func NewToolbar() *Toolbar {
	t := &Toolbar{}
	t.toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { invoke(t.handlers.New) }),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { invoke(t.handlers.SaveInvoice) }),
		widget.NewToolbarAction(theme.FileTextIcon(), func() { invoke(t.handlers.SaveQuote) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.AccountIcon(), func() { invoke(t.handlers.BusinessDetails) }),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.InfoIcon(), func() { invoke(t.handlers.About) }),
	)
	return t
}

// SetHandlers replaces the action callbacks
func (t *Toolbar) SetHandlers(h Handlers) {
	t.handlers = h
}

// MainMenu builds the File and Help menus for the same actions
func (t *Toolbar) MainMenu() *fyne.MainMenu {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("New", func() { invoke(t.handlers.New) }),
		fyne.NewMenuItem("Save Invoice…", func() { invoke(t.handlers.SaveInvoice) }),
		fyne.NewMenuItem("Save Quote…", func() { invoke(t.handlers.SaveQuote) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Business Details…", func() { invoke(t.handlers.BusinessDetails) }),
	)
	help := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() { invoke(t.handlers.About) }),
	)
	return fyne.NewMainMenu(file, help)
}

// GetContainer returns the toolbar widget
func (t *Toolbar) GetContainer() fyne.CanvasObject {
	return t.toolbar
}
