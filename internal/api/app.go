package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"flightwatch/internal/config"
	"flightwatch/internal/logging"
	"flightwatch/internal/notify"
	"flightwatch/internal/provider"
	"flightwatch/internal/repositories/repomanager"
	"flightwatch/internal/worker"
)

// App bundles the HTTP server with the shared infrastructure it needs.
// It reuses the worker's evaluator so that a manual check behaves exactly
// like a scheduled one.
type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	repos, err := repomanager.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	prices := provider.NewKiwiClient(cfg.RapidAPIKey, provider.WithTimeout(cfg.ProviderTimeout))
	notifier := notify.NewTelegramNotifier(cfg.TelegramBotToken)

	recorder := worker.NewSnapshotRecorder(repos.Snapshots(), logger)
	gate := worker.NewGate(repos.Notifications(), cfg.SuppressionWindow, logger)
	evaluator := worker.NewEvaluator(prices, notifier, recorder, gate, repos.Notifications(),
		logger, cfg.SearchLimit, cfg.ProviderTimeout)

	server := NewServer(cfg.APIAddr, repos, evaluator, logger)

	return &App{config: cfg, logger: logger, repos: repos, server: server}, nil
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

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "api server failed", "error", err)
	}

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing db failed", "error", err)
	}
}
