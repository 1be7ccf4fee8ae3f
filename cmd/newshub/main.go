package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"news_hub/internal/assistant"
	"news_hub/internal/config"
	"news_hub/internal/conversation"
	"news_hub/internal/handler"
	"news_hub/internal/mailer"
	"news_hub/internal/publisher"
	"news_hub/internal/report"
	"news_hub/internal/scheduler"
	"news_hub/internal/service"
	"news_hub/internal/source/newsapi"
	"news_hub/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("news hub stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("news hub exited properly")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	logger.Info("connected to database", "max_open_conns", cfg.Database.MaxOpenConns)

	// Initialize stores
	articleStore := postgres.NewArticleStore(db)
	stateStore := postgres.NewStateStore(db)

	// Optional collaborators stay nil interfaces when not configured.
	var articlePublisher service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		articlePublisher = rabbitMQ
	}

	var reportMailer service.Mailer
	if cfg.SMTP.Host != "" {
		reportMailer = mailer.NewSMTP(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, logger)
	} else {
		logger.Warn("smtp not configured, /send-report is disabled")
	}

	var chatAssistant service.Assistant
	if cfg.Assistant.APIKey != "" {
		gemini, err := assistant.NewGemini(ctx, assistant.Config{
			APIKey:  cfg.Assistant.APIKey,
			Model:   cfg.Assistant.Model,
			Timeout: cfg.Assistant.Timeout,
		})
		if err != nil {
			return err
		}
		defer gemini.Close()
		chatAssistant = gemini
	} else {
		logger.Warn("assistant not configured, /chat is disabled")
	}

	conversations, err := conversation.NewStore(cfg.Assistant.MaxSessions)
	if err != nil {
		return err
	}

	// Initialize news source
	source := newsapi.New(newsapi.Config{
		BaseURL:       cfg.NewsAPI.BaseURL,
		APIKey:        cfg.NewsAPI.APIKey,
		Language:      cfg.NewsAPI.Language,
		PageSize:      cfg.NewsAPI.PageSize,
		Timeout:       cfg.NewsAPI.Timeout,
		RatePerSecond: cfg.NewsAPI.RatePerSecond,
		Burst:         cfg.NewsAPI.Burst,
	}, logger)

	// Services
	ingestion := service.NewIngestionService(
		source,
		articleStore,
		stateStore,
		articlePublisher,
		logger,
		cfg.Ingestion,
		nil,
	)
	queries := service.NewQueryService(articleStore, cfg.Ingestion.Categories, nil)
	reports := service.NewReportService(
		articleStore,
		report.NewRenderer(report.Config{
			FontDir:    cfg.Report.FontDir,
			FontFamily: cfg.Report.FontFamily,
		}),
		reportMailer,
		cfg.Ingestion.Categories,
		logger,
	)
	chat := service.NewChatService(articleStore, chatAssistant, conversations, cfg.Assistant.HistoryLimit, logger)

	e, err := handler.NewServer(handler.Dependencies{
		News:     queries,
		Ingester: ingestion,
		Reports:  reports,
		Chat:     chat,
		DB:       db,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting news hub",
			"addr", cfg.Server.Addr,
			"source", source.Name(),
			"window_days", cfg.Ingestion.WindowDays,
			"concurrency", cfg.Ingestion.Concurrency,
		)
		if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Ingestion.Interval > 0 {
		sched := scheduler.NewScheduler(ingestion, cfg.Ingestion.Interval, 0, logger)
		g.Go(func() error {
			if err := sched.Start(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
