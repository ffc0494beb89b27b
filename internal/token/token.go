// Package token encodes message references into Telegram callback payloads.
//
// A retrieval token lets a privately notified user ask the bot to re-post a
// pointer to the original group message, without the bot keeping any
// server-side state: the token is fully self-describing.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Marker prefixes every retrieval token on the wire.
const Marker = "/retrieve"

const delimiter = "_"

// ErrInvalidToken is returned when a callback payload does not carry a
// well-formed retrieval token.
var ErrInvalidToken = errors.New("invalid retrieval token")

// Encode builds the callback payload for a message reference. Group chat IDs
// are negative on Telegram; the token stores the positive magnitude and
// Decode re-negates it. The result fits well within Telegram's 64-byte
// callback-data limit.
func Encode(messageID int, chatID int64) string {
	return fmt.Sprintf("%s%s%d%s%d", Marker, delimiter, messageID, delimiter, -chatID)
}

// Decode parses a callback payload produced by Encode and returns the
// message ID and the (negative) group chat ID. A payload with a wrong
// marker, wrong field count, or unparsable numbers yields ErrInvalidToken;
// callers must then act on nothing.
func Decode(payload string) (messageID int, chatID int64, err error) {
	parts := strings.Split(payload, delimiter)
	if len(parts) != 3 || parts[0] != Marker {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidToken, payload)
	}

	messageID, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad message id %q", ErrInvalidToken, parts[1])
	}

	magnitude, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad chat id %q", ErrInvalidToken, parts[2])
	}

	return messageID, -magnitude, nil
}
