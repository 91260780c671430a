package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/bancosur/corresponsal/internal/terminal/http"
	"github.com/bancosur/corresponsal/internal/terminal/service"
	"github.com/bancosur/corresponsal/internal/terminal/store"
	"github.com/bancosur/corresponsal/internal/terminal/store/drivers/sqlite"
	"github.com/bancosur/corresponsal/pkg/corebank"
	"github.com/bancosur/corresponsal/pkg/cryptox"
	"github.com/bancosur/corresponsal/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the terminal service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	gateway *corebank.Client

	sessions *service.SessionManager
	auth     *service.AuthService
	catalogs *service.CatalogService
	flows    *service.FlowService
	receipts *service.ReceiptService
	history  *service.HistoryService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service:  "corresponsal-terminal",
			Version:  BuildVersion,
			DeviceID: cfg.DeviceID,
			Env:      cfg.Env,
			Level:    cfg.LogLevel,
			Format:   cfg.LogFormat,
		}),
	}

	if cfg.DeviceSecretFile != "" {
		cryptox.SetDeviceSecretPath(cfg.DeviceSecretFile)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	// Best-effort: pick up a persisted session from a previous run.
	if err := app.sessions.Restore(context.Background()); err == nil {
		app.logger.Info("session restored from persisted token")
	}

	return app, nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	app.db = db
	return nil
}

func (app *Application) initServices() {
	tokens := &sealedTokenStore{store: app.db}

	app.sessions = &service.SessionManager{
		Tokens:          tokens,
		DefaultDuration: app.cfg.SessionDuration,
	}

	app.gateway = corebank.NewClient(app.cfg.CoreAPIURL, app.cfg.DeviceID, tokens)
	app.gateway.ActingUser = app.sessions.UserID

	app.catalogs = &service.CatalogService{Gateway: app.gateway}
	app.auth = &service.AuthService{
		Gateway:  app.gateway,
		Sessions: app.sessions,
		Catalogs: app.catalogs,
	}
	app.receipts = &service.ReceiptService{
		Store:  app.db,
		Header: app.cfg.ReceiptHeader,
	}
	app.flows = &service.FlowService{
		Gateway:  app.gateway,
		Sessions: app.sessions,
		Receipts: app.receipts,
	}
	app.history = &service.HistoryService{
		Gateway:  app.gateway,
		Receipts: app.receipts,
	}
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(BuildVersion, app.db, app.logger)
	app.router.AuthService = app.auth
	app.router.FlowService = app.flows
	app.router.CatalogService = app.catalogs
	app.router.ReceiptService = app.receipts
	app.router.HistoryService = app.history
	app.router.SessionManager = app.sessions
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}

// Handler exposes the HTTP surface for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("terminal service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down terminal service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("terminal service stopped")
	return nil
}
