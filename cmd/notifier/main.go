package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spendly/internal/config"
	"spendly/internal/database"
	"spendly/internal/logger"
	"spendly/internal/notifier"
	"spendly/internal/push"
	"spendly/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	db := dbManager.DB()
	expenseService := services.NewExpenseService(db)
	sender := push.NewExpoClient(appConfig.PushAPIURL, appConfig.PushAccessToken,
		&http.Client{Timeout: 30 * time.Second})

	budgetNotifier := notifier.New(db, expenseService, sender, appConfig.NotifierInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infof("Starting budget notifier, tick interval %s", appConfig.NotifierInterval)

	ticker := time.NewTicker(appConfig.NotifierInterval)
	defer ticker.Stop()

	// Run once at startup so a restart doesn't silently skip a slot.
	runOnce(ctx, budgetNotifier, time.Now())

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down budget notifier")
			return nil
		case now := <-ticker.C:
			runOnce(ctx, budgetNotifier, now)
		}
	}
}

// runOnce executes a single notifier pass and logs any failure without
// stopping the loop.
func runOnce(ctx context.Context, n *notifier.Notifier, now time.Time) {
	if _, err := n.Run(ctx, now); err != nil && ctx.Err() == nil {
		logger.Get().Errorw("notifier run failed", "error", err)
	}
}
