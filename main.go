package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	"inboxpilot/internal/ai"
	"inboxpilot/internal/assistant"
	"inboxpilot/internal/calendar"
	"inboxpilot/internal/config"
	"inboxpilot/internal/gmail"
	"inboxpilot/internal/logger"
	"inboxpilot/internal/notify"
	"inboxpilot/internal/repository"
	"inboxpilot/internal/repository/postgres"
	"inboxpilot/internal/repository/sqlite"
	"inboxpilot/internal/search"
	"inboxpilot/internal/timeparse"

	_ "github.com/lib/pq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatal("Config validation failed:", err)
	}

	// Initialize logger
	appLogger := logger.New()

	ctx := context.Background()

	// Initialize the message store (postgres when DATABASE_URL is set,
	// local sqlite otherwise)
	var messageRepo repository.MessageRepository

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		if err := postgres.InitializeDatabase(db); err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		messageRepo = postgres.NewPostgresMessageRepository(db)

		appLogger.Info("Using PostgreSQL message store")
	} else {
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatal("Failed to create data directory:", err)
			}
		}

		repo, err := sqlite.NewSQLiteMessageRepository(cfg.SQLitePath)
		if err != nil {
			log.Fatal("Failed to open sqlite store:", err)
		}
		defer repo.Close()
		messageRepo = repo

		appLogger.Info("Using SQLite message store at", cfg.SQLitePath)
	}

	// Initialize collaborators
	aiClient := ai.NewAIClient(cfg.AIProvider, cfg.AIKey, appLogger)

	mailClient, err := gmail.NewGmailClient(ctx, cfg.GoogleAccessToken, cfg.MaxFetchEmails, appLogger)
	if err != nil {
		log.Fatal("Failed to create Gmail client:", err)
	}

	calendarClient, err := calendar.NewCalendarClient(ctx, cfg.GoogleAccessToken, appLogger)
	if err != nil {
		log.Fatal("Failed to create Calendar client:", err)
	}

	searcher := search.NewDuckDuckGoSearcher(appLogger)

	var notifier assistant.Notifier
	if cfg.SlackBotToken != "" {
		notifier = notify.NewSlackNotifier(cfg.SlackBotToken, cfg.SlackChannelID, appLogger)
	} else {
		appLogger.Warn("SLACK_BOT_TOKEN not set, Slack notifications disabled")
	}

	confirmer := assistant.NewTerminalConfirmer(os.Stdin, os.Stdout)
	resolver := timeparse.NewResolver(nil)

	dispatcher := assistant.NewDispatcher(
		aiClient,
		calendarClient,
		searcher,
		notifier,
		confirmer,
		resolver,
		appLogger,
	)

	runner := assistant.NewRunner(
		messageRepo,
		mailClient,
		aiClient,
		dispatcher,
		time.Duration(cfg.MessagePause)*time.Second,
		os.Stdout,
		appLogger,
	)

	appLogger.Info("Starting assistant run")
	if err := runner.Run(ctx); err != nil {
		appLogger.Error("Assistant run failed:", err)
		os.Exit(1)
	}
	appLogger.Info("Assistant run finished")
}
