package stub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/openrestauth/pkg/cryptox"
	"github.com/aussiebroadwan/openrestauth/pkg/httpx"
	"github.com/aussiebroadwan/openrestauth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the stub authentication endpoint with its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	directory *Directory
	tokens    *TokenIssuer

	handler http.Handler
	server  *http.Server
}

// New loads the directory and builds the HTTP server.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-stub",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  cfg.LogOutput,
		}),
	}

	directory, err := LoadDirectory(cfg.DirectoryFile)
	if err != nil {
		return nil, err
	}
	app.directory = directory
	app.logger.Info("directory loaded",
		"file", cfg.DirectoryFile,
		"users", len(directory.Users),
		"federated", len(directory.Federated),
	)

	if err := app.initTokens(); err != nil {
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the fully wrapped endpoint handler.
func (app *Application) Handler() http.Handler { return app.handler }

// Run starts the server and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth stub starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown gracefully shuts down the server
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth stub...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
		return err
	}

	app.logger.Info("auth stub stopped")
	return nil
}

func (app *Application) initTokens() error {
	secret := app.cfg.TokenSecret
	if secret == "" {
		generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return fmt.Errorf("failed to generate token secret: %w", err)
		}
		secret = generated
		app.logger.Warn("STUB_TOKEN_SECRET not set, access tokens will not survive a restart")
	}

	app.tokens = &TokenIssuer{
		Secret: []byte(secret),
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.TokenTTL,
	}
	return nil
}

func (app *Application) initHTTP() {
	endpoint := &Handler{
		Directory: app.directory,
		Tokens:    app.tokens,
		Hasher:    cryptox.PasswordHasher{Pepper: app.cfg.PasswordPepper},
	}

	// Every path answers, so both "/" and "/v1.0" work as endpoint URLs
	app.handler = httpx.Chain(endpoint,
		slogx.HTTPMiddleware(app.logger),
		// Password guessing is limited per IP and username; other methods per IP
		httpx.RateLimitByIPAndJSONField(app.cfg.LoginLimit, "username"),
	)

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           app.handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
