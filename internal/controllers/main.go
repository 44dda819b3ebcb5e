package controllers

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"yocto-invoice/internal/logger"
	"yocto-invoice/internal/models"
	"yocto-invoice/internal/money"
	"yocto-invoice/internal/services"
)

// View is what the controller needs from the window
type View interface {
	Customer() models.Customer
	ClearCustomer()
	DocumentNumber() int
	SetDocumentNumber(n int)
	DueDate() time.Time
	SetDueDate(t time.Time)
	SetTotal(text string)
	RefreshItems()

	ShowSaveDialog(title, defaultPath string, onChosen func(path string))
	ShowBusinessDetails(b models.Business, onSave func(models.Business))
	ShowAbout(name, version string)
	ShowError(message string, err error)
}

// DocumentRenderer writes a document to disk
type DocumentRenderer interface {
	RenderFile(ctx context.Context, doc models.Document, path string) (services.RenderResult, error)
}

// AppInfo names the application in the About dialog
type AppInfo struct {
	Name    string
	Version string
}

// MainController wires the line-item model, the settings store and the PDF
// renderer to the main window's actions.
type MainController struct {
	model    *models.InvoiceModel
	settings *models.SettingsRepository
	renderer DocumentRenderer
	logger   logger.Logger
	info     AppInfo

	mu        sync.RWMutex
	view      View
	outputDir string
	now       func() time.Time
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewMainController(
	model *models.InvoiceModel,
	settings *models.SettingsRepository,
	renderer DocumentRenderer,
	log logger.Logger,
	info AppInfo,
	outputDir string,
) *MainController {
	ctx, cancel := context.WithCancel(context.Background())

	controller := &MainController{
		model:     model,
		settings:  settings,
		renderer:  renderer,
		logger:    log,
		info:      info,
		outputDir: outputDir,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}

	model.OnChanged(controller.onModelChanged)
	return controller
}

// SetClock replaces time.Now
func (mc *MainController) SetClock(now func() time.Time) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.now = now
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view View) {
	mc.mu.Lock()
	mc.view = view
	mc.mu.Unlock()

	view.SetTotal(money.Format(mc.model.Total()))
}

func (mc *MainController) mainView() View {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.view
}

func (mc *MainController) today() time.Time {
	mc.mu.RLock()
	now := mc.now()
	mc.mu.RUnlock()

	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Today is the earliest due date the form accepts
func (mc *MainController) Today() time.Time {
	return mc.today()
}

// Start asks for business details on first launch
func (mc *MainController) Start() {
	if !mc.settings.HasBusiness() {
		mc.logger.Info("MainController", "no business details saved, prompting", nil)
		mc.ShowBusinessDetails()
	}
}

// NewDocument clears the customer, number, due date and line items
func (mc *MainController) NewDocument() {
	view := mc.mainView()
	if view == nil {
		return
	}

	view.ClearCustomer()
	view.SetDocumentNumber(1)
	view.SetDueDate(mc.today())
	mc.model.Reset()
	view.SetTotal(money.Format(money.Zero))

	mc.logger.Debug("MainController", "new document", nil)
}

// SaveInvoice asks for a path and renders an invoice there
func (mc *MainController) SaveInvoice() {
	mc.save(models.Invoice)
}

// SaveQuote asks for a path and renders a quote there
func (mc *MainController) SaveQuote() {
	mc.save(models.Quote)
}

func (mc *MainController) save(docType models.DocumentType) {
	view := mc.mainView()
	if view == nil {
		return
	}

	defaultPath := filepath.Join(mc.outputDir, docType.DefaultFileName())
	view.ShowSaveDialog("Save "+docType.MetadataTitle(), defaultPath, func(path string) {
		if path == "" {
			return
		}
		if err := mc.Export(docType, path); err != nil {
			view.ShowError(fmt.Sprintf("An error occurred while saving your %s", docType), err)
		}
	})
}

// BuildDocument snapshots the form into a document of the given type
func (mc *MainController) BuildDocument(docType models.DocumentType) models.Document {
	view := mc.mainView()

	var (
		number   = 1
		due      = mc.today()
		customer models.Customer
	)
	if view != nil {
		number = view.DocumentNumber()
		due = view.DueDate()
		customer = view.Customer()
	}

	return models.NewDocument(
		docType,
		number,
		mc.today(),
		due,
		mc.settings.LoadBusiness(),
		customer,
		mc.model.Items(),
	)
}

// Export renders the current form as docType to path
func (mc *MainController) Export(docType models.DocumentType, path string) error {
	doc := mc.BuildDocument(docType)

	result, err := mc.renderer.RenderFile(mc.ctx, doc, path)
	if err != nil {
		mc.logger.Error("MainController", err, map[string]interface{}{
			"type": docType.String(),
			"path": path,
		})
		return err
	}

	mc.logger.Info("MainController", "document exported", map[string]interface{}{
		"type":  docType.String(),
		"path":  path,
		"items": len(doc.Items),
		"pages": result.Pages,
	})
	return nil
}

// ShowBusinessDetails opens the business form and persists what is saved
func (mc *MainController) ShowBusinessDetails() {
	view := mc.mainView()
	if view == nil {
		return
	}

	view.ShowBusinessDetails(mc.settings.LoadBusiness(), func(b models.Business) {
		mc.settings.SaveBusiness(b)
		mc.logger.Info("MainController", "business details saved", map[string]interface{}{
			"has_logo": b.LogoPath != "",
		})
	})
}

func (mc *MainController) ShowAbout() {
	if view := mc.mainView(); view != nil {
		view.ShowAbout(mc.info.Name, mc.info.Version)
	}
}

func (mc *MainController) onModelChanged(change models.Change) {
	view := mc.mainView()
	if view == nil {
		return
	}

	view.RefreshItems()
	view.SetTotal(money.Format(mc.model.Total()))
}

// Shutdown cancels any render in flight
func (mc *MainController) Shutdown() {
	mc.cancel()
}
