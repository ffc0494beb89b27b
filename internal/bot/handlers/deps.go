package handlers

import (
	"log/slog"

	"tagalert/internal/config"
	"tagalert/internal/database"
	"tagalert/internal/notify"
)

// Deps provides dependencies for Telegram command and message handlers.
// Handlers hold a pointer so the Notifier, which needs the created bot
// client, can be attached after bot construction but before polling starts.
type Deps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Notifier *notify.Notifier
	Counter  notify.RetrievalCounter
}
