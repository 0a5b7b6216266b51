package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"inboxpilot/internal/model"

	_ "github.com/lib/pq"
)

type PostgresMessageRepository struct {
	db *sql.DB
}

func NewPostgresMessageRepository(db *sql.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// InitializeDatabase creates the messages table if it does not exist.
func InitializeDatabase(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			message_id TEXT UNIQUE NOT NULL,
			thread_id TEXT NOT NULL,
			sender TEXT,
			recipient TEXT,
			subject TEXT,
			body_plain TEXT,
			body_html TEXT,
			received_at TIMESTAMPTZ,
			stored_at TIMESTAMPTZ DEFAULT NOW(),
			processed BOOLEAN DEFAULT FALSE
		);
		CREATE INDEX IF NOT EXISTS idx_messages_processed ON messages (processed);
		CREATE INDEX IF NOT EXISTS idx_messages_thread_id ON messages (thread_id);`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

func (r *PostgresMessageRepository) Insert(ctx context.Context, msg *model.Message) (bool, error) {
	query := `
		INSERT INTO messages (id, message_id, thread_id, sender, recipient, subject, body_plain, body_html, received_at, stored_at, processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (message_id) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.MessageID, msg.ThreadID, msg.Sender, msg.Recipient,
		msg.Subject, msg.BodyPlain, msg.BodyHTML, msg.ReceivedAt, msg.StoredAt, msg.Processed)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PostgresMessageRepository) Exists(ctx context.Context, messageID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM messages WHERE message_id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, messageID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresMessageRepository) ListUnprocessed(ctx context.Context) ([]*model.Message, error) {
	query := `
		SELECT id, message_id, thread_id, sender, recipient, subject, body_plain, body_html, received_at, stored_at, processed
		FROM messages WHERE processed = FALSE ORDER BY received_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		msg := &model.Message{}
		err := rows.Scan(
			&msg.ID, &msg.MessageID, &msg.ThreadID, &msg.Sender, &msg.Recipient,
			&msg.Subject, &msg.BodyPlain, &msg.BodyHTML, &msg.ReceivedAt, &msg.StoredAt, &msg.Processed)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *PostgresMessageRepository) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	query := `UPDATE messages SET processed = TRUE WHERE message_id = $1`
	result, err := r.db.ExecContext(ctx, query, messageID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
