// Package notify implements the mention-notification dispatch pipeline:
// resolving a mentioned username against the subscriber registry, gating on
// group membership, and delivering the notification to the subscriber's
// private chat.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"tagalert/internal/database"
	"tagalert/internal/token"
)

const (
	membershipCheckTimeout = 10 * time.Second
	sendMessageTimeout     = 10 * time.Second
)

// TelegramAPI is the subset of the Telegram client used by the dispatcher.
// *bot.Bot satisfies it; tests inject fakes.
type TelegramAPI interface {
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
}

// Messages holds the reply templates the dispatcher interpolates. The
// three-slot templates receive sender, group title, and body, in that order.
type Messages struct {
	MainText       string
	MainCaption    string
	RetrieveButton string
}

// Notifier resolves mention candidates and delivers private notifications.
type Notifier struct {
	api    TelegramAPI
	store  database.Store
	msgs   Messages
	logger *slog.Logger
}

// NewNotifier creates a notification dispatcher. Both the Telegram client
// and the registry store are injected so tests can substitute doubles.
func NewNotifier(api TelegramAPI, store database.Store, msgs Messages, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		api:    api,
		store:  store,
		msgs:   msgs,
		logger: logger.With("component", "notifier"),
	}
}

// Dispatch notifies every registered, still-member subscriber matching the
// mentioned username about the given group message. Misses (unknown
// username, departed member) are normal control flow; delivery failures are
// logged and swallowed so one candidate never aborts the others.
func (n *Notifier) Dispatch(ctx context.Context, username string, msg *models.Message) {
	if msg == nil || username == "" {
		return
	}

	ids, err := n.store.FindIDsByUsername(ctx, username)
	if err != nil {
		n.logger.ErrorContext(ctx, "Registry lookup failed, skipping mention", "username", username, "error", err)
		return
	}
	if len(ids) == 0 {
		n.logger.DebugContext(ctx, "Mentioned username has no subscriber", "username", username)
		return
	}

	for _, userID := range ids {
		if !n.isActiveMember(ctx, msg.Chat.ID, userID) {
			n.logger.DebugContext(ctx, "Subscriber is not an active member of the origin chat, skipping",
				"username", username, "user_id", userID, "chat_id", msg.Chat.ID)
			continue
		}
		n.notifySubscriber(ctx, userID, msg)
	}
}

// isActiveMember asks Telegram for the user's current membership status in
// the origin chat. Statuses left and kicked are inactive; everything else
// (member, admin, creator, restricted) counts as active. The check runs
// per-candidate, per-message and is never cached, since membership can
// change between messages.
func (n *Notifier) isActiveMember(ctx context.Context, chatID, userID int64) bool {
	checkCtx, cancel := context.WithTimeout(ctx, membershipCheckTimeout)
	defer cancel()

	member, err := n.api.GetChatMember(checkCtx, &bot.GetChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil {
		n.logger.WarnContext(ctx, "Membership check failed, skipping subscriber",
			"chat_id", chatID, "user_id", userID, "error", err)
		return false
	}
	if member == nil {
		return false
	}

	return member.Type != models.ChatMemberTypeLeft && member.Type != models.ChatMemberTypeBanned
}

// notifySubscriber builds the notification payload for one subscriber and
// sends it to their private chat. Photo messages carry the plain caption
// template with the media attached; text messages use the HTML template.
func (n *Notifier) notifySubscriber(ctx context.Context, userID int64, msg *models.Message) {
	markup := n.actionButton(msg)

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	if len(msg.Photo) > 0 {
		body := fmt.Sprintf(n.msgs.MainCaption, senderDisplay(msg.From), msg.Chat.Title, msg.Caption)
		_, err := n.api.SendPhoto(sendCtx, &bot.SendPhotoParams{
			ChatID:      userID,
			Photo:       &models.InputFileString{Data: msg.Photo[0].FileID},
			Caption:     body,
			ReplyMarkup: markup,
		})
		if err != nil {
			n.logger.WarnContext(ctx, "Failed to deliver photo notification",
				"user_id", userID, "chat_id", msg.Chat.ID, "error", err)
			return
		}
	} else {
		body := fmt.Sprintf(n.msgs.MainText, senderDisplay(msg.From), msg.Chat.Title, msg.Text)
		_, err := n.api.SendMessage(sendCtx, &bot.SendMessageParams{
			ChatID:      userID,
			Text:        body,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: markup,
		})
		if err != nil {
			n.logger.WarnContext(ctx, "Failed to deliver notification",
				"user_id", userID, "chat_id", msg.Chat.ID, "error", err)
			return
		}
	}

	n.logger.InfoContext(ctx, "Notified subscriber about mention",
		"user_id", userID, "chat_id", msg.Chat.ID, "message_id", msg.ID)
}

// actionButton builds the inline button pointing back at the original
// message. Public groups get a direct t.me link; private groups get a
// callback payload carrying the retrieval token. Exactly one addressing
// mode is used per notification, never both.
func (n *Notifier) actionButton(msg *models.Message) models.ReplyMarkup {
	button := models.InlineKeyboardButton{Text: n.msgs.RetrieveButton}
	if msg.Chat.Username != "" {
		button.URL = fmt.Sprintf("https://t.me/%s/%d", msg.Chat.Username, msg.ID)
	} else {
		button.CallbackData = token.Encode(msg.ID, msg.Chat.ID)
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{button}},
	}
}

// senderDisplay renders the sender as "First Last (@username)", cleanly
// omitting the optional components without double-spacing artifacts.
func senderDisplay(from *models.User) string {
	if from == nil {
		return ""
	}

	parts := make([]string, 0, 3)
	if from.FirstName != "" {
		parts = append(parts, from.FirstName)
	}
	if from.LastName != "" {
		parts = append(parts, from.LastName)
	}
	if from.Username != "" {
		parts = append(parts, "(@"+from.Username+")")
	}
	return strings.Join(parts, " ")
}
