// Package server wires the supportdesk components together and runs the
// HTTP and gRPC servers until the process is told to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/supportdesk/internal/logging"
	"github.com/dmitrijs2005/supportdesk/internal/server/admission"
	"github.com/dmitrijs2005/supportdesk/internal/server/archive"
	"github.com/dmitrijs2005/supportdesk/internal/server/auth"
	"github.com/dmitrijs2005/supportdesk/internal/server/config"
	"github.com/dmitrijs2005/supportdesk/internal/server/guard"
	"github.com/dmitrijs2005/supportdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/supportdesk/internal/server/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/supportdesk/internal/server/grpc"
)

// Seams for tests.
var (
	listen      = net.Listen
	openStorage = repomanager.Open
	openArchive = func(ctx context.Context, cfg config.S3Config) (archive.Store, error) {
		return archive.NewS3Store(ctx, cfg)
	}
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage repomanager.RepositoryManager
	http    *httpapi.Server
	grpc    *gs.GRPCServer
}

// NewApp builds every component from c. Storage is connected and migrated
// here, so a returned App is ready to serve.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:     c.JWTSecret,
		Lifetime:   c.TokenLifetime.Std(),
		Production: c.IsProduction(),
	}, logger)
	if err != nil {
		return nil, err
	}

	storage, err := openStorage(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	var store archive.Store
	if c.ArchiveEnabled() {
		store, err = openArchive(ctx, c.S3)
		if err != nil {
			_ = storage.Close(ctx)
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		logger.Info(ctx, "text archive enabled", "bucket", c.S3.Bucket)
	}

	accounts := services.NewAccountService(storage.Accounts(), tokens, logger.With("module", "accounts"))
	documents := services.NewDocumentService(
		storage.Documents(),
		admission.New(c.MaxUploadSize),
		store,
		logger.With("module", "documents"),
	)

	if c.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(
		httpapi.NewHandler(accounts, documents, storage, c.MaxUploadSize),
		guard.New(tokens),
		logger.With("module", "http"),
	)

	return &App{
		config:  c,
		logger:  logger,
		storage: storage,
		http:    httpapi.NewServer(c.HTTPAddress, router, c.ShutdownTimeout.Std(), logger),
		grpc:    gs.NewGRPCServer(c.GRPCAddress, logger),
	}, nil
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

// Run serves until ctx is canceled, a signal arrives or one of the servers
// fails, then closes storage. The gRPC health status turns SERVING only once
// both listeners are bound.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	httpLn, err := listen("tcp", app.config.HTTPAddress)
	if err != nil {
		return app.stop(ctx, fmt.Errorf("http listen: %w", err))
	}
	grpcLn, err := listen("tcp", app.config.GRPCAddress)
	if err != nil {
		_ = httpLn.Close()
		return app.stop(ctx, fmt.Errorf("grpc listen: %w", err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.http.Serve(gctx, httpLn) })
	g.Go(func() error { return app.grpc.Serve(gctx, grpcLn) })
	app.grpc.SetServing(true)

	err = g.Wait()
	app.grpc.SetServing(false)

	return app.stop(ctx, err)
}

// stop closes storage and returns err joined with any close failure.
func (app *App) stop(ctx context.Context, err error) error {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout.Std())
	defer cancel()
	if cerr := app.storage.Close(closeCtx); cerr != nil {
		app.logger.Error(ctx, "storage close failed", "error", cerr)
		err = errors.Join(err, cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
