// Package worker contains the alert monitoring worker: the endless loop
// that re-evaluates every active alert against live prices, records price
// history and notifies owners when a target price is hit.
package worker

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
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	monitor *Monitor
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

	recorder := NewSnapshotRecorder(repos.Snapshots(), logger)
	gate := NewGate(repos.Notifications(), cfg.SuppressionWindow, logger)
	evaluator := NewEvaluator(prices, notifier, recorder, gate, repos.Notifications(),
		logger, cfg.SearchLimit, cfg.ProviderTimeout)
	monitor := NewMonitor(repos.Alerts(), evaluator, logger,
		cfg.CheckInterval, cfg.ErrorCooldown, cfg.AlertDelay)

	return &App{config: cfg, logger: logger, repos: repos, monitor: monitor}, nil
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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting worker")

	app.initSignalHandler(cancelFunc)

	_ = app.monitor.Run(ctx)

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing db failed", "error", err)
	}
}
