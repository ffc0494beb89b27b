package handlers

import (
	"context"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/sync/errgroup"

	"tagalert/internal/mention"
)

const upsertTimeout = 5 * time.Second

// NewMessageHandler creates the default handler that watches every inbound
// message: it keeps the subscriber registry current and, for group
// messages, dispatches mention notifications.
func NewMessageHandler(deps *Deps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps *Deps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil || msg.From == nil {
		log.DebugContext(ctx, "Ignoring update with nil message or sender", "update_id", update.ID)
		return
	}

	// Registry upkeep happens before any network send, so a hung send can
	// never leave the registry stale.
	h.upsertSender(ctx, msg.From)

	if msg.Chat.Type != models.ChatTypeGroup && msg.Chat.Type != models.ChatTypeSupergroup {
		return
	}

	usernames := mention.Extract(msg)
	if len(usernames) == 0 {
		return
	}

	log.DebugContext(ctx, "Dispatching mention notifications",
		"chat_id", msg.Chat.ID, "message_id", msg.ID, "mentions", len(usernames))

	// Fan out across candidates within this one message; each candidate is
	// isolated, so the goroutines always return nil.
	g, gCtx := errgroup.WithContext(ctx)
	for _, username := range usernames {
		g.Go(func() error {
			h.deps.Notifier.Dispatch(gCtx, username, msg)
			return nil
		})
	}
	_ = g.Wait()
}

// upsertSender records the sender in the subscriber registry. Upkeep must
// never block message processing, so failures are retried briefly and then
// swallowed.
func (h messageHandler) upsertSender(ctx context.Context, from *models.User) {
	log := h.deps.Logger.With("handler", "message")

	err := retry.Do(
		func() error {
			upsertCtx, cancel := context.WithTimeout(ctx, upsertTimeout)
			defer cancel()
			return h.deps.Store.UpsertSubscriber(upsertCtx, from.ID, from.Username)
		},
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, retryErr error) {
			log.WarnContext(ctx, "Retrying subscriber upsert", "attempt", n, "user_id", from.ID, "error", retryErr)
		}),
	)
	if err != nil {
		log.ErrorContext(ctx, "Failed to upsert subscriber, continuing", "user_id", from.ID, "error", err)
	}
}
