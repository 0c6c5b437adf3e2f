package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopvn/authcore/internal/authcore/email"
	"github.com/shopvn/authcore/internal/authcore/google"
	httpapi "github.com/shopvn/authcore/internal/authcore/http"
	"github.com/shopvn/authcore/internal/authcore/service"
	"github.com/shopvn/authcore/internal/authcore/store"
	"github.com/shopvn/authcore/internal/authcore/store/drivers/sqlite"
	"github.com/shopvn/authcore/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	tokenService        *service.TokenService
	twoFactorService    *service.TwoFactorService
	codeManager         *service.VerificationCodeManager
	sessionManager      *service.SessionManager
	housekeepingService *service.HousekeepingService
	googleService       *google.Service

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authcore",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("authcore starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down authcore...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("authcore stopped")
	return nil
}

// databaseDSN builds the modernc.org/sqlite DSN. Pragmas use the driver's
// _pragma=name(value) form; mattn-style _busy_timeout/_journal_mode keys are
// silently ignored by this driver.
func databaseDSN(file string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", file)
}

// initDatabase opens the store and applies migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(databaseDSN(app.cfg.DatabaseFile))
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

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Issuer:        app.cfg.Issuer,
		AccessSecret:  []byte(app.cfg.AccessTokenSecret),
		RefreshSecret: []byte(app.cfg.RefreshTokenSecret),
		AccessTTL:     app.cfg.AccessTokenTTL,
		RefreshTTL:    app.cfg.RefreshTokenTTL,
	}

	app.twoFactorService = &service.TwoFactorService{Issuer: app.cfg.Issuer}

	app.codeManager = &service.VerificationCodeManager{
		Store: app.db,
		TTL:   app.cfg.OTPTTL,
	}

	app.sessionManager = &service.SessionManager{
		Store:     app.db,
		Tokens:    app.tokenService,
		TwoFactor: app.twoFactorService,
		Codes:     app.codeManager,
		Email:     app.emailSender(),
		Hasher:    service.ArgonHasher{},
	}

	if app.cfg.GoogleClientID != "" {
		app.googleService = google.NewService(
			app.cfg.GoogleClientID,
			app.cfg.GoogleClientSecret,
			app.cfg.GoogleRedirectURI,
			app.db,
			app.sessionManager,
			service.ArgonHasher{},
		)
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) emailSender() email.Sender {
	if app.cfg.SMTPHost == "" {
		return &email.LogSender{Logger: app.logger}
	}
	return &email.SMTPSender{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	}
}

// initHTTP wires the router and server.
func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(BuildVersion, app.db, app.logger)
	app.router.Sessions = app.sessionManager
	app.router.Tokens = app.tokenService
	app.router.Google = app.googleService
	app.router.ClientRedirectURI = app.cfg.ClientRedirectURI
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
