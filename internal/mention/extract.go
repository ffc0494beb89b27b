// Package mention extracts @-mentions from group messages. It produces the
// deduplicated set of mentioned usernames, excluding the sender's own.
package mention

import (
	"regexp"
	"strings"

	"github.com/go-telegram/bot/models"
)

// captionMentionRegex is the permissive fallback pattern used for media
// captions, which carry no entity spans in the path handled here.
var captionMentionRegex = regexp.MustCompile(`(?i)@[a-z0-9]*`)

// Extract returns the set of usernames mentioned in the message, lowercased
// and deduplicated, as an unordered slice. Candidates equal to the sender's
// own username (case-insensitively) are excluded.
//
// Extraction is strictly either/or: when the message has text with entity
// spans, only mention entities are considered and the caption is never
// scanned; the caption regex runs only for pure-caption messages.
func Extract(msg *models.Message) []string {
	if msg == nil {
		return nil
	}

	var sender string
	if msg.From != nil {
		sender = strings.ToLower(msg.From.Username)
	}

	seen := make(map[string]struct{})

	switch {
	case msg.Text != "" && len(msg.Entities) > 0:
		for _, entity := range msg.Entities {
			if entity.Type != models.MessageEntityTypeMention {
				continue
			}
			if entity.Offset < 0 || entity.Length <= 0 || entity.Offset+entity.Length > len(msg.Text) {
				continue
			}
			// Skip the leading @.
			username := strings.ToLower(msg.Text[entity.Offset+1 : entity.Offset+entity.Length])
			add(seen, username, sender)
		}

	case msg.Caption != "":
		for _, match := range captionMentionRegex.FindAllString(msg.Caption, -1) {
			username := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(match), "@"))
			add(seen, username, sender)
		}
	}

	if len(seen) == 0 {
		return nil
	}

	usernames := make([]string, 0, len(seen))
	for username := range seen {
		usernames = append(usernames, username)
	}
	return usernames
}

func add(seen map[string]struct{}, username, sender string) {
	if username == "" {
		return
	}
	if sender != "" && username == sender {
		return
	}
	seen[username] = struct{}{}
}
