package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for subscriber registry operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertSubscriber inserts or updates the (userID, username) pair.
	// Empty username or zero userID is a no-op. The username is
	// lowercase-normalized before storing.
	UpsertSubscriber(ctx context.Context, userID int64, username string) error

	// FindIDsByUsername returns the IDs of all subscribers matching the
	// username, case-insensitively. A miss returns an empty slice, not an
	// error.
	FindIDsByUsername(ctx context.Context, username string) ([]int64, error)

	// RemoveByUsername deletes all subscribers matching the normalized
	// username. No-op on empty input.
	RemoveByUsername(ctx context.Context, username string) error

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertSubscriber inserts a subscriber row, or updates the username when a
// row for the user ID already exists. The insert-or-update runs as a single
// atomic statement so near-simultaneous messages from the same new user
// cannot race into conflicting inserts.
func (s *sqlxStore) UpsertSubscriber(ctx context.Context, userID int64, username string) error {
	if userID == 0 || username == "" {
		s.logger.DebugContext(ctx, "Skipping upsert for incomplete subscriber", "user_id", userID)
		return nil
	}

	normalized := strings.ToLower(username)

	query := `
        INSERT INTO users (id, username) VALUES (?, ?)
        ON CONFLICT(id) DO UPDATE SET username = excluded.username;
    `

	if _, err := s.db.ExecContext(ctx, query, userID, normalized); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting subscriber", "user_id", userID, "error", err)
		return fmt.Errorf("failed to upsert subscriber %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Subscriber upserted", "user_id", userID, "username", normalized)
	return nil
}

// FindIDsByUsername returns all subscriber IDs registered under the given
// username, matched case-insensitively.
func (s *sqlxStore) FindIDsByUsername(ctx context.Context, username string) ([]int64, error) {
	if username == "" {
		return []int64{}, nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	normalized := strings.ToLower(username)

	var ids []int64
	query := `SELECT id FROM users WHERE username = ?;`

	if err := s.db.SelectContext(ctx, &ids, query, normalized); err != nil {
		s.logger.ErrorContext(ctx, "Error looking up subscribers by username", "username", normalized, "error", err)
		return nil, fmt.Errorf("failed to find subscribers for username %q: %w", normalized, err)
	}

	s.logger.DebugContext(ctx, "Looked up subscribers by username", "username", normalized, "count", len(ids))
	return ids, nil
}

// RemoveByUsername deletes all subscriber rows matching the normalized
// username.
func (s *sqlxStore) RemoveByUsername(ctx context.Context, username string) error {
	if username == "" {
		return nil
	}

	normalized := strings.ToLower(username)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?;`, normalized)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error removing subscribers", "username", normalized, "error", err)
		return fmt.Errorf("failed to remove subscribers for username %q: %w", normalized, err)
	}

	count, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Removed subscribers", "username", normalized, "count", count)
	return nil
}

// RunMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
