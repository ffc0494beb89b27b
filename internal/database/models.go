package database

// Subscriber represents a Telegram user who has interacted with the bot and
// is therefore eligible to receive mention notifications. Usernames are
// stored lowercase-normalized; lookups are case-insensitive. There is at
// most one row per user ID, while username collisions across different IDs
// follow a last-writer-wins policy.
type Subscriber struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
}
