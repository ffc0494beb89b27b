package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"tagalert/internal/token"
)

// NewRetrieveHandler returns the handler for retrieval callback queries.
// The callback payload is a self-describing token; no server-side session
// state exists for pending retrievals.
func NewRetrieveHandler(deps *Deps) bot.HandlerFunc {
	return retrieveHandler{deps}.Handle
}

type retrieveHandler struct {
	deps *Deps
}

func (h retrieveHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "retrieve")

	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	messageID, chatID, err := token.Decode(cb.Data)
	if err != nil {
		// Malformed tokens are silently ignored: no dispatch, no partial
		// retrieval, no user-visible feedback.
		log.WarnContext(ctx, "Ignoring malformed retrieval token", "data", cb.Data, "error", err)
		return
	}

	times := h.deps.Counter.Times(ctx, messageID, chatID)
	if times >= h.deps.Config.Retrieval.Limit {
		log.InfoContext(ctx, "Retrieval limit exceeded",
			"chat_id", chatID, "message_id", messageID, "times", times)
		h.answer(ctx, b, cb.ID, h.deps.Config.Messages.RetrieveLimitExceeded, true)
		return
	}

	requester := cb.From.Username
	if requester == "" {
		requester = cb.From.FirstName
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            fmt.Sprintf(h.deps.Config.Messages.RetrieveGroup, requester),
		ReplyParameters: &models.ReplyParameters{MessageID: messageID},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to post retrieval pointer into origin chat",
			"chat_id", chatID, "message_id", messageID, "error", err)
		return
	}

	log.InfoContext(ctx, "Posted retrieval pointer",
		"chat_id", chatID, "message_id", messageID, "requester_id", cb.From.ID)
	h.answer(ctx, b, cb.ID, h.deps.Config.Messages.RetrieveSuccess, false)
}

func (h retrieveHandler) answer(ctx context.Context, b *bot.Bot, callbackID, text string, alert bool) {
	log := h.deps.Logger.With("handler", "retrieve")
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "callback_query_id", callbackID, "error", err)
	}
}
