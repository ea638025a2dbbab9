package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/vantagehq/vantage/internal/http"
	"github.com/vantagehq/vantage/internal/notify"
	"github.com/vantagehq/vantage/internal/obs"
	"github.com/vantagehq/vantage/internal/service"
	"github.com/vantagehq/vantage/internal/store"
	"github.com/vantagehq/vantage/internal/store/drivers/sqlite"
	"github.com/vantagehq/vantage/pkg/jwtx"
	"github.com/vantagehq/vantage/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	keys     *jwtx.KeySet
	signer   jwtx.Signer
	verifier jwtx.Verifier
	notifier notify.Notifier

	// Services
	tokenService   *service.TokenService
	authService    *service.AuthService
	guard          *service.Guard
	companyService *service.CompanyService
	apiKeyService  *service.APIKeyService
	rbacService    *service.RBACService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "vantage-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	obs.Init()

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, signer, verifier, err := InitSigningKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keys = keys
	app.signer = signer
	app.verifier = verifier

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
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

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	refreshSecret, err := InitRefreshSecret(app.cfg, app.logger)
	if err != nil {
		return err
	}

	refreshSigner, err := jwtx.NewHS256Signer(refreshSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize refresh signer: %w", err)
	}
	refreshVerifier, err := jwtx.NewHS256Verifier(refreshSecret, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize refresh verifier: %w", err)
	}

	app.tokenService = &service.TokenService{
		AccessSigner:  app.signer,
		RefreshSigner: refreshSigner,
		Issuer:        app.cfg.Issuer,
		AccessTTL:     app.cfg.AccessTTL,
		RefreshTTL:    app.cfg.RefreshTTL,
	}

	app.notifier = app.initNotifier()

	app.authService = &service.AuthService{
		Store:           app.db,
		Tokens:          app.tokenService,
		Notifier:        app.notifier,
		RefreshVerifier: refreshVerifier,
		ResetTTL:        app.cfg.ResetTTL,
	}

	app.guard = &service.Guard{
		Store:         app.db,
		SuperuserRole: app.cfg.SuperuserRole,
	}
	if app.cfg.SuperuserRole == "" {
		app.logger.Warn("superuser bypass disabled, every admin action requires an explicit permission grant")
	}

	app.companyService = &service.CompanyService{Store: app.db}
	app.apiKeyService = &service.APIKeyService{Store: app.db}
	app.rbacService = &service.RBACService{Store: app.db}

	return nil
}

// initNotifier selects the token delivery channel. Without an SMTP host the
// tokens go to the log, which is only useful in dev.
func (app *Application) initNotifier() notify.Notifier {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("SMTP_HOST not set, verification and reset tokens will be logged instead of mailed")
		return notify.NewLogNotifier(app.logger)
	}

	app.logger.Info("smtp notifier enabled", "host", app.cfg.SMTPHost, "port", app.cfg.SMTPPort, "from", app.cfg.SMTPFrom)
	return notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	})
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		app.cfg.Issuer,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.Guard = app.guard
	router.CompanyService = app.companyService
	router.APIKeyService = app.apiKeyService
	router.RBACService = app.rbacService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
