package notify

import "context"

// RetrievalCounter reports how many times a group message has already been
// retrieved through its callback token. The retrieve handler compares the
// count against the configured limit before re-posting a pointer.
//
// This is a deliberate seam: the default implementation counts nothing, so
// with any limit >= 1 retrieval is always allowed. Plugging in a real
// counter makes the limit enforceable without touching the handler.
type RetrievalCounter interface {
	// Times returns the number of completed retrievals for the message and
	// increments the counter for this one.
	Times(ctx context.Context, messageID int, chatID int64) int
}

// NoopCounter is the default RetrievalCounter: it never counts.
type NoopCounter struct{}

// Times always reports zero prior retrievals.
func (NoopCounter) Times(context.Context, int, int64) int { return 0 }
