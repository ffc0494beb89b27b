// Package main contains the entrypoint for the TagAlert Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/retry"
	tgbot "github.com/go-telegram/bot"

	"tagalert/internal/bot"
	"tagalert/internal/bot/handlers"
	"tagalert/internal/bot/tasks"
	"tagalert/internal/config"
	"tagalert/internal/database"
	"tagalert/internal/logger"
	"tagalert/internal/notify"
	"tagalert/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// telegram bot, scheduler), handles graceful shutdown, and returns an exit
// code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db) // Ensure DB is closed on function exit
	store := database.NewStore(db, log)

	hDeps := &handlers.Deps{
		Logger:  log,
		Config:  cfg,
		Store:   store,
		Counter: notify.NoopCounter{},
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	// Notifier needs the created bot client; attach it before polling starts.
	hDeps.Notifier = notify.NewNotifier(tg, store, notify.Messages{
		MainText:       cfg.Messages.MainText,
		MainCaption:    cfg.Messages.MainCaption,
		RetrieveButton: cfg.Messages.RetrieveButton,
	}, log)

	// Retrieve bot info and store it in the config for runtime use.
	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	cfg.Telegram.BotInfo = config.BotInfo{ID: me.ID, Username: me.Username, FirstName: me.FirstName}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	sendBootNotice(ctx, log, tg, cfg)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}))
	app := bot.NewBot(log, cfg, db, store, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx) // Run blocks until context is cancelled or an error occurs
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}

// sendBootNotice tells the admin chat that the bot is up, retrying briefly.
// A failed notice is logged but never blocks startup.
func sendBootNotice(ctx context.Context, log *slog.Logger, tg *tgbot.Bot, cfg *config.Config) {
	notice := fmt.Sprintf(cfg.Messages.Booting, cfg.Telegram.BotInfo.Username)

	err := retry.Do(
		func() error {
			_, sendErr := tg.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID: cfg.Telegram.AdminChatID,
				Text:   notice,
			})
			return sendErr
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, retryErr error) {
			log.Warn("Retrying boot notice", "attempt", n, "error", retryErr)
		}),
	)
	if err != nil {
		log.Error("Failed to send boot notice to admin chat", "admin_chat_id", cfg.Telegram.AdminChatID, "error", err)
	}
}
