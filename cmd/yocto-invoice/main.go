package main

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"yocto-invoice/internal/config"
	"yocto-invoice/internal/controllers"
	"yocto-invoice/internal/logger"
	"yocto-invoice/internal/models"
	"yocto-invoice/internal/services"
	"yocto-invoice/internal/shutdown"
	"yocto-invoice/internal/views"
	"yocto-invoice/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	AppName = "Yocto Invoice"
	AppID   = "com.yocto.invoice"
)

// set by the linker
var version = "1.1.0"

type options struct {
	configPath string
	logLevel   string
	jsonLogs   bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// the configured logger may not exist yet
		logger.NewConsoleLogger(zerolog.ErrorLevel).Error("Application", err, nil)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "yocto-invoice",
		Short:         "Write invoices and quotes as PDF",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath(), "path to the YAML config file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.jsonLogs, "json-logs", false, "write logs as JSON")
	return cmd
}

// loadConfig applies explicitly set flags over the file and environment
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("json-logs") {
		cfg.JSONLogs = opts.jsonLogs
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	log := logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel), cfg.JSONLogs)
	log.Info("Application", "starting", map[string]interface{}{
		"version":    version,
		"go_version": runtime.Version(),
		"font":       cfg.Font,
		"output_dir": cfg.OutputDir,
	})

	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight))
	window.CenterOnScreen()
	window.SetMaster()

	pdfOptions := services.PDFOptions{}
	if cfg.Font == config.FontNoto {
		pdfOptions.Fonts = services.ThemeFonts()
	}

	model := models.NewInvoiceModel()
	settings := models.NewSettingsRepository(fyneApp.Preferences())
	logos := services.NewLogoService(log)
	renderer := services.NewPDFService(logos, pdfOptions, log)

	controller := controllers.NewMainController(
		model,
		settings,
		renderer,
		log,
		controllers.AppInfo{Name: AppName, Version: version},
		cfg.OutputDir,
	)
	view := views.NewMainView(window, model, controller.Today)
	controller.SetMainView(view)
	view.SetHandlers(components.Handlers{
		New:             controller.NewDocument,
		SaveInvoice:     controller.SaveInvoice,
		SaveQuote:       controller.SaveQuote,
		BusinessDetails: controller.ShowBusinessDetails,
		About:           controller.ShowAbout,
	})

	var running atomic.Bool
	running.Store(true)

	manager := shutdown.NewManager(log)
	manager.Register("app", shutdown.Func(func() {
		if running.Load() {
			fyne.Do(fyneApp.Quit)
		}
	}))
	manager.Register("controller", controller)
	manager.Listen()

	window.SetCloseIntercept(manager.Shutdown)

	controller.Start()
	window.ShowAndRun()

	running.Store(false)
	manager.Shutdown()

	log.Info("Application", "terminated", nil)
	return nil
}
