// Package tasks implements scheduled tasks for the TagAlert bot.
package tasks

import (
	"log/slog"

	"tagalert/internal/config"
	"tagalert/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
