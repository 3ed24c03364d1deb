// Package server wires the levelup backend together: it opens the database,
// applies migrations, builds the services and runs the HTTP server until a
// termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/levelup/internal/logging"
	"github.com/dmitrijs2005/levelup/internal/server/config"
	"github.com/dmitrijs2005/levelup/internal/server/events"
	"github.com/dmitrijs2005/levelup/internal/server/metrics"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/levelup/internal/server/rest"
	"github.com/dmitrijs2005/levelup/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	publisher events.Publisher
	server    *rest.HTTPServer
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}
	app.publisher = events.NewPublisher(c.KafkaBrokers, c.KafkaOrdersTopic)
	h := rest.NewRouter(app.handlers(rm), metrics.New(), logger, rest.RouterConfig{
		JWTSecret:      []byte(c.SecretKey),
		RequestTimeout: c.RequestTimeout,
	})
	app.server = rest.NewHTTPServer(c.EndpointAddrHTTP, h, c.ShutdownTimeout, logger)
	return app, nil
}

func (app *App) handlers(rm repomanager.RepositoryManager) *rest.Handlers {
	c, db, l := app.config, app.db, app.logger
	return &rest.Handlers{
		Users:     services.NewUserService(db, rm, c, l),
		Catalog:   services.NewCatalogService(db, rm, l),
		Carts:     services.NewCartService(db, rm, l),
		Favorites: services.NewFavoriteService(db, rm, l),
		Orders:    services.NewOrderService(db, rm, app.publisher, l),
		Lifecycle: services.NewLifecycleService(db, rm, l),
		Images:    services.NewImageService(db, rm, c, l),
		DB:        db,
	}
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives or the server fails, then releases the
// publisher and the database pool.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.publisher.Close(); err != nil {
		app.logger.Warn(ctx, "closing event publisher", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
