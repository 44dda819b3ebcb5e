package views

import (
	"fmt"
	"path/filepath"
	"time"

	"yocto-invoice/internal/models"
	"yocto-invoice/internal/services"
	"yocto-invoice/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainView is the invoice window: toolbar, customer and document fields,
// the line-item table and the running total.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	customer      *components.CustomerForm
	fields        *components.DocumentFields
	lineItems     *components.LineItems
	totalBar      *components.TotalBar
}

// NewMainView builds the window content over model. minDate bounds the
// due-date picker.
func NewMainView(window fyne.Window, model *models.InvoiceModel, minDate func() time.Time) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents(model, minDate)
	view.buildLayout()
	return view
}

func (mv *MainView) initializeComponents(model *models.InvoiceModel, minDate func() time.Time) {
	mv.toolbar = components.NewToolbar()
	mv.customer = components.NewCustomerForm()
	mv.fields = components.NewDocumentFields(minDate)
	mv.lineItems = components.NewLineItems(model)
	mv.totalBar = components.NewTotalBar()

	mv.lineItems.SetErrorHandler(func(err error) {
		mv.ShowError("Could not update the line item", err)
	})
}

func (mv *MainView) buildLayout() {
	details := container.NewGridWithColumns(2,
		widget.NewCard("Bill To", "", mv.customer.GetContainer()),
		widget.NewCard("Document", "", mv.fields.GetContainer()),
	)

	mv.mainContainer = container.NewBorder(
		container.NewVBox(mv.toolbar.GetContainer(), details),
		mv.totalBar.GetContainer(),
		nil,
		nil,
		mv.lineItems.GetContainer(),
	)

	mv.window.SetContent(mv.mainContainer)
	mv.window.SetMainMenu(mv.toolbar.MainMenu())
}

// SetHandlers connects toolbar, menu and keyboard actions
func (mv *MainView) SetHandlers(h components.Handlers) {
	mv.toolbar.SetHandlers(h)

	shortcuts := map[fyne.KeyName]func(){
		fyne.KeyN: h.New,
		fyne.KeyS: h.SaveInvoice,
		fyne.KeyQ: h.SaveQuote,
	}
	for key, fn := range shortcuts {
		if fn == nil {
			continue
		}
		action := fn
		mv.window.Canvas().AddShortcut(
			&desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierShortcutDefault},
			func(fyne.Shortcut) { action() },
		)
	}
}

func (mv *MainView) Customer() models.Customer {
	return mv.customer.Customer()
}

func (mv *MainView) ClearCustomer() {
	mv.customer.Clear()
}

func (mv *MainView) DocumentNumber() int {
	return mv.fields.Number()
}

func (mv *MainView) SetDocumentNumber(n int) {
	mv.fields.SetNumber(n)
}

func (mv *MainView) DueDate() time.Time {
	return mv.fields.DueDate()
}

func (mv *MainView) SetDueDate(t time.Time) {
	mv.fields.SetDueDate(t)
}

func (mv *MainView) SetTotal(text string) {
	mv.totalBar.SetTotal(text)
}

func (mv *MainView) RefreshItems() {
	mv.lineItems.Refresh()
}

// ShowSaveDialog asks for a PDF path. onChosen is not called on cancel.
func (mv *MainView) ShowSaveDialog(title, defaultPath string, onChosen func(path string)) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mv.ShowError("Could not open the save location", err)
			return
		}
		if writer == nil {
			return
		}

		path := writer.URI().Path()
		if err := writer.Close(); err != nil {
			mv.ShowError("Could not open the save location", err)
			return
		}
		onChosen(path)
	}, mv.window)

	fd.SetConfirmText(title)
	fd.SetFileName(filepath.Base(defaultPath))
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	if lister, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(defaultPath))); err == nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

// ShowBusinessDetails opens the business form prefilled with b
func (mv *MainView) ShowBusinessDetails(b models.Business, onSave func(models.Business)) {
	form := newBusinessForm(b)
	form.onBrowse = func() { mv.showLogoPicker(form.setLogo) }

	d := dialog.NewForm("Business Details", "Save", "Cancel", form.items(), func(ok bool) {
		if ok {
			onSave(form.collect())
		}
	}, mv.window)
	d.Resize(fyne.NewSize(520, 560))
	d.Show()
}

func (mv *MainView) showLogoPicker(onPicked func(path string)) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mv.ShowError("Could not open the logo", err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		onPicked(reader.URI().Path())
	}, mv.window)

	fd.SetFilter(storage.NewExtensionFileFilter(services.LogoExtensions))
	fd.Show()
}

func (mv *MainView) ShowAbout(name, version string) {
	dialog.ShowInformation("About "+name, fmt.Sprintf("%s\nVersion %s", name, version), mv.window)
}

// ShowError shows message above the cause
func (mv *MainView) ShowError(message string, err error) {
	if err == nil {
		dialog.ShowInformation("Error", message, mv.window)
		return
	}
	dialog.ShowError(fmt.Errorf("%s\n\n%w", message, err), mv.window)
}
