// Package server wires configuration, storage, token services and transports
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/natsx"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/server/social/google"
	"github.com/nats-io/nats.go"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	authService *services.AuthService
	google      gs.GoogleProvider
	nc          *nats.Conn
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	repos, err := openRepositories(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	signer, err := auth.NewSigner([]byte(c.SecretKey))
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	app := &App{config: c, logger: logger, repos: repos}

	var events services.AccountEvents
	if c.NATSURL != "" {
		nc, err := nats.Connect(c.NATSURL, nats.Name("gophauth"))
		if err != nil {
			_ = repos.Close()
			return nil, fmt.Errorf("nats connect error: %w", err)
		}
		app.nc = nc
		events = natsx.NewPublisher(nc, c.NATSAccountEventsSubject, logger)
	}

	issuer := services.NewTokenIssuer(signer, c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)
	app.authService = services.NewAuthService(repos, password.NewBcrypt(c.BcryptCost), signer, issuer, events, logger)

	if app.nc != nil {
		if _, err := natsx.NewVerifyHandler(app.authService, logger).Subscribe(app.nc, c.NATSVerifySubject, c.NATSVerifyQueue); err != nil {
			app.close()
			return nil, fmt.Errorf("nats subscribe error: %w", err)
		}
	}

	if c.GoogleClientID != "" {
		app.google = google.NewProvider(c.GoogleClientID, c.GoogleClientSecret, c.GoogleRedirectURL)
	}

	return app, nil
}

func openRepositories(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	if dsn == "" {
		return repomanager.NewInMemoryRepositoryManager(), nil
	}
	return repomanager.OpenPostgres(ctx, dsn)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService, app.google)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the broker connection and the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	var errs []error
	if app.nc != nil {
		errs = append(errs, app.nc.Drain())
	}
	errs = append(errs, app.repos.Close())
	if err := errors.Join(errs...); err != nil {
		app.logger.Error(context.Background(), "shutdown error", "error", err.Error())
	}
}
