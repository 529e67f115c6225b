package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kerhoff/floristbot/internal/api"
	"github.com/Kerhoff/floristbot/internal/config"
	"github.com/Kerhoff/floristbot/internal/handlers"
	"github.com/Kerhoff/floristbot/internal/metrics"
	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/repository/postgres"
	"github.com/Kerhoff/floristbot/internal/service"
	"github.com/Kerhoff/floristbot/internal/telegram"
	"github.com/Kerhoff/floristbot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting floristbot...")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// Database
	db, err := config.NewDatabase(ctx, cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if _, err := db.Migrate(cfg.MigrationsPath); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Service layer
	m := metrics.New()
	svc := service.New(l, m,
		postgres.NewEventRepository(db.DB),
		postgres.NewClientRepository(db.DB),
		postgres.NewFloristRepository(db.DB),
		postgres.NewExpenseRepository(db.DB),
		postgres.NewReminderStateRepository(db.DB),
	)
	svc.SetLocation(cfg.Location)

	// Telegram bot and reminder notifications
	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.AdminChatIDs, l)
		if err != nil {
			l.Fatalf("Failed to create Telegram bot: %v", err)
		}

		bot.RegisterCommand("start", handlers.NewStartHandler(l))
		bot.RegisterCommand("help", handlers.NewHelpHandler(l))
		bot.RegisterCommand("reminders", handlers.NewRemindersHandler(svc, l))
		bot.RegisterCommand("board", handlers.NewBoardHandler(svc, l))
		bot.RegisterCommand("upcoming", handlers.NewUpcomingHandler(svc, l))

		dismiss := handlers.NewDismissHandler(svc, l)
		read := handlers.NewReadHandler(svc, l)
		bot.RegisterCommand("dismiss", dismiss)
		bot.RegisterCommand("read", read)
		bot.RegisterCallback(handlers.CallbackDismiss, dismiss)
		bot.RegisterCallback(handlers.CallbackRead, read)

		notifier := svc.NewNotifier(cfg.NotifyInterval, cfg.NotifyMinPriority)
		go notifier.Run(ctx, func(r models.Reminder) {
			if err := bot.Broadcast(handlers.FormatReminder(r)); err != nil {
				l.WithError(err).Errorf("Failed to deliver reminder %s", r.ID)
			}
		})

		go func() {
			if err := bot.Start(ctx); err != nil {
				l.Errorf("Bot error: %v", err)
			}
		}()
	} else {
		l.Warn("TELEGRAM_TOKEN is not set, running without the bot")
	}

	// HTTP API
	apiServer := api.NewServer(svc, l, m)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Prometheus metrics
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", m.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	for name, srv := range map[string]*http.Server{"HTTP": httpServer, "Metrics": metricsServer} {
		go func() {
			l.Infof("%s server listening on %s", name, srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Errorf("%s server error: %v", name, err)
				cancel()
			}
		}()
	}

	l.Info("floristbot started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP servers...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	for _, srv := range []*http.Server{httpServer, metricsServer} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Errorf("Server shutdown error: %v", err)
		}
	}

	l.Info("floristbot stopped")
}
