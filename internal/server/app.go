// Package server initializes and runs the reporting application: it opens the
// database, applies migrations, provisions the bootstrap admin, and serves
// the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"salesreport/internal/logging"
	"salesreport/internal/server/api"
	"salesreport/internal/server/config"
	"salesreport/internal/server/repositories/repomanager"
	"salesreport/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	apiServer   *api.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	users := services.NewUserService(db, rm, cfg, logger)
	permissions := services.NewPermissionService(db, rm, logger)
	reports := services.NewReportService(db, rm, logger)
	summarizer := services.NewHTTPSummarizer(cfg)
	summaries := services.NewSummaryService(db, rm, reports, summarizer, logger)
	exports := services.NewExportService(db, rm, cfg, logger)

	apiServer := api.NewServer(cfg, users, permissions, reports, summaries, exports, logger)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		userService: users,
		apiServer:   apiServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.userService.EnsureInitialAdmin(ctx); err != nil {
		app.logger.Error(ctx, "admin provisioning failed", "error", err.Error())
		return
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.apiServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}
