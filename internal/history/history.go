package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Conversation is one assistant conversation.
type Conversation struct {
	ID        int64
	UserEmail string
	Mode      string
	StartedAt time.Time
}

// Message is one stored transcript entry.
type Message struct {
	ID             int64
	ConversationID int64
	Role           string // user, assistant, error
	Content        string
	CreatedAt      time.Time
}

// Store keeps assistant transcripts in a local sqlite database so past
// conversations survive restarts.
type Store struct {
	conn *sql.DB
}

// Open opens (and initializes) the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	// Foreign keys go in the DSN so every pooled connection gets them,
	// not just the one a PRAGMA happened to run on.
	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_email TEXT NOT NULL,
		mode TEXT NOT NULL,
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_email);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// BeginConversation records a new conversation and returns its id.
func (s *Store) BeginConversation(userEmail, mode string) (int64, error) {
	result, err := s.conn.Exec(
		`INSERT INTO conversations (user_email, mode, started_at) VALUES (?, ?, ?)`,
		userEmail, mode, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save conversation: %w", err)
	}
	return result.LastInsertId()
}

// SaveMessage appends one message to a conversation.
func (s *Store) SaveMessage(conversationID int64, role, content string) (int64, error) {
	result, err := s.conn.Exec(
		`INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		conversationID, role, content, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save message: %w", err)
	}
	return result.LastInsertId()
}

// Messages returns a conversation's messages in order.
func (s *Store) Messages(conversationID int64) ([]Message, error) {
	rows, err := s.conn.Query(
		`SELECT id, conversation_id, role, content, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// RecentConversations lists a user's most recent conversations.
func (s *Store) RecentConversations(userEmail string, limit int) ([]Conversation, error) {
	rows, err := s.conn.Query(
		`SELECT id, user_email, mode, started_at
		 FROM conversations WHERE user_email = ? ORDER BY started_at DESC, id DESC LIMIT ?`,
		userEmail, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.UserEmail, &c.Mode, &c.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}

	return conversations, rows.Err()
}

// DeleteConversation removes a conversation and its messages.
func (s *Store) DeleteConversation(conversationID int64) error {
	if _, err := s.conn.Exec(`DELETE FROM conversations WHERE id = ?`, conversationID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}
