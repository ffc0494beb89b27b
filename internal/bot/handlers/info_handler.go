package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewInfoHandler returns a handler for the /info command.
func NewInfoHandler(deps *Deps) bot.HandlerFunc {
	return infoHandler{deps}.Handle
}

// infoHandler processes the /info command using injected dependencies.
type infoHandler struct {
	deps *Deps
}

func (h infoHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "info")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Info handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	msgs := h.deps.Config.Messages
	chatID := update.Message.Chat.ID

	params := &bot.SendMessageParams{ChatID: chatID}
	switch {
	case update.Message.Chat.Type != models.ChatTypePrivate:
		params.Text = msgs.StartGroup
	case update.Message.From.Username == "":
		// Without a username the user can never be mentioned, so the bot is
		// useless to them until they set one.
		params.Text = msgs.NoUsername
	default:
		params.Text = msgs.StartPrivate
		params.ParseMode = models.ParseModeHTML
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		log.ErrorContext(ctx, "Failed to send info message", "error", err, "chat_id", chatID)
	}
}
