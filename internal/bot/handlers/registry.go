// Package handlers contains the Telegram bot command, message, and callback
// handlers, along with their registration metadata.
package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"tagalert/internal/token"
)

// RegisteredHandler represents a handler with its registration metadata.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all bot commands and
// the retrieval callback handler.
func RegisterAllCommands(deps *Deps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/info"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "info",
		Handler:     NewInfoHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["retrieve_callback"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     token.Marker,
		Handler:     NewRetrieveHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
