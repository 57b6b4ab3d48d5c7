// Package server wires the directory server together: configuration,
// PostgreSQL, audit publishing and the HTTP API, with graceful shutdown on
// SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/assetgate/internal/logging"
	"github.com/dmitrijs2005/assetgate/internal/server/config"
	"github.com/dmitrijs2005/assetgate/internal/server/events"
	"github.com/dmitrijs2005/assetgate/internal/server/httpapi"
	"github.com/dmitrijs2005/assetgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/assetgate/internal/server/services"
)

var (
	openDB               = func(dsn string) (*sql.DB, error) { return sql.Open("pgx", dsn) }
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config           *config.Config
	logger           logging.Logger
	db               *sql.DB
	publisher        events.Publisher
	directoryService *services.DirectoryService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.New(os.Stdout, "json", c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := newRepositoryManager(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	var pub events.Publisher = events.NopPublisher{}
	if len(c.KafkaBrokers) > 0 {
		pub = events.NewKafkaPublisher(c.KafkaBrokers, c.KafkaTopic)
		logger.Info(ctx, "audit events enabled", "brokers", c.KafkaBrokers, "topic", c.KafkaTopic)
	}

	ds := services.NewDirectoryService(db, rm, c, pub, logger)

	return &App{config: c, logger: logger, db: db, publisher: pub, directoryService: ds}, nil
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
	s := httpapi.NewHTTPServer(app.config.HTTPAddr, app.logger, app.directoryService, app.config.SecretKey, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a signal arrives, ctx is cancelled or the listener
// fails, then releases the database and the audit publisher.
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

	app.Close(ctx)
}

func (app *App) Close(ctx context.Context) {
	if err := app.publisher.Close(); err != nil {
		app.logger.Warn(ctx, "closing audit publisher", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
