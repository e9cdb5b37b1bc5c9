package devserver

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/zhubert/confide/internal/api"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	FOREIGN KEY(conversation_id) REFERENCES conversations(id)
);
CREATE INDEX IF NOT EXISTS messages_conversation ON messages(conversation_id, id);
`

// Store persists conversations and their messages in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore opens (and migrates) the database at dsn. Use ":memory:" for tests.
func OpenStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateConversation inserts an empty conversation and returns its id.
func (s *Store) CreateConversation(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO conversations (id, created_at) VALUES (?, ?)", id, s.now().UnixNano()); err != nil {
		return "", fmt.Errorf("failed to create conversation: %w", err)
	}
	return id, nil
}

// ListConversations returns every conversation, newest first. The summary is
// the first user message and the preview is the last message of any role.
func (s *Store) ListConversations(ctx context.Context) ([]api.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id,
			COALESCE((SELECT content FROM messages WHERE conversation_id = c.id AND role = 'user' ORDER BY id LIMIT 1), ''),
			(SELECT COUNT(*) FROM messages WHERE conversation_id = c.id),
			COALESCE((SELECT content FROM messages WHERE conversation_id = c.id ORDER BY id DESC LIMIT 1), '')
		FROM conversations c
		ORDER BY c.created_at DESC, c.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := []api.Conversation{}
	for rows.Next() {
		var conv api.Conversation
		if err := rows.Scan(&conv.SessionID, &conv.Summary, &conv.MessageCount, &conv.LastMessagePreview); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// Exists reports whether conversation id is stored.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversations WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to look up conversation: %w", err)
	}
	return n > 0, nil
}

// History returns the messages of conversation id in arrival order.
// ok is false when the conversation does not exist.
func (s *Store) History(ctx context.Context, id string) (history []api.Message, ok bool, err error) {
	exists, err := s.Exists(ctx, id)
	if err != nil || !exists {
		return nil, false, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT role, content FROM messages WHERE conversation_id = ? ORDER BY id", id)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	history = []api.Message{}
	for rows.Next() {
		var msg api.Message
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return nil, false, fmt.Errorf("failed to scan message: %w", err)
		}
		history = append(history, msg)
	}
	return history, true, rows.Err()
}

// AppendExchange stores a question and its answer. Unknown ids are created
// on the fly, matching a backend that keys sessions by whatever id it is sent.
func (s *Store) AppendExchange(ctx context.Context, id, question, answer string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UnixNano()
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO conversations (id, created_at) VALUES (?, ?)", id, now); err != nil {
		return fmt.Errorf("failed to ensure conversation: %w", err)
	}
	for _, msg := range []api.Message{
		{Role: api.RoleUser, Content: question},
		{Role: api.RoleAssistant, Content: answer},
	} {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)",
			id, msg.Role, msg.Content, now); err != nil {
			return fmt.Errorf("failed to store message: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteConversation removes conversation id and its messages.
// It returns false when nothing was deleted.
func (s *Store) DeleteConversation(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE conversation_id = ?", id); err != nil {
		return false, fmt.Errorf("failed to delete messages: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}
