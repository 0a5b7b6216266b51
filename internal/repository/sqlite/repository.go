package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"inboxpilot/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	message_id TEXT UNIQUE NOT NULL,
	thread_id TEXT NOT NULL,
	sender TEXT,
	recipient TEXT,
	subject TEXT,
	body_plain TEXT,
	body_html TEXT,
	received_at TIMESTAMP,
	stored_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	processed BOOLEAN DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_messages_message_id ON messages (message_id);
CREATE INDEX IF NOT EXISTS idx_messages_thread_id ON messages (thread_id);
CREATE INDEX IF NOT EXISTS idx_messages_processed ON messages (processed);
`

// SQLiteMessageRepository stores messages in a local SQLite database.
type SQLiteMessageRepository struct {
	db *sqlx.DB
}

// NewSQLiteMessageRepository opens (or creates) the database at dbPath,
// enables WAL mode, and creates the schema if needed.
func NewSQLiteMessageRepository(dbPath string) (*SQLiteMessageRepository, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteMessageRepository{db: db}, nil
}

func (r *SQLiteMessageRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteMessageRepository) Insert(ctx context.Context, msg *model.Message) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (
			id, message_id, thread_id, sender, recipient,
			subject, body_plain, body_html, received_at, stored_at, processed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (message_id) DO NOTHING`,
		msg.ID, msg.MessageID, msg.ThreadID, msg.Sender, msg.Recipient,
		msg.Subject, msg.BodyPlain, msg.BodyHTML, msg.ReceivedAt, msg.StoredAt, msg.Processed,
	)
	if err != nil {
		return false, fmt.Errorf("inserting message %s: %w", msg.MessageID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading insert result: %w", err)
	}
	return rows > 0, nil
}

func (r *SQLiteMessageRepository) Exists(ctx context.Context, messageID string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM messages WHERE message_id = ?", messageID)
	if err != nil {
		return false, fmt.Errorf("checking message %s: %w", messageID, err)
	}
	return count > 0, nil
}

func (r *SQLiteMessageRepository) ListUnprocessed(ctx context.Context) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.SelectContext(ctx, &messages, `
		SELECT id, message_id, thread_id, sender, recipient,
			subject, body_plain, body_html, received_at, stored_at, processed
		FROM messages
		WHERE processed = FALSE
		ORDER BY received_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing unprocessed messages: %w", err)
	}
	return messages, nil
}

func (r *SQLiteMessageRepository) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE messages SET processed = TRUE WHERE message_id = ?", messageID)
	if err != nil {
		return false, fmt.Errorf("marking message %s processed: %w", messageID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading update result: %w", err)
	}
	return rows > 0, nil
}
