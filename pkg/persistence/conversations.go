package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"snapsolver/pkg/problem"
)

// ErrNotFound is returned when a conversation does not exist.
var ErrNotFound = errors.New("conversation not found")

// Conversation is one stored problem-solving session.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationStore provides conversation and message operations over a
// database connection.
type ConversationStore struct {
	db *sql.DB
}

// NewConversationStore creates a ConversationStore over the given
// connection.
func NewConversationStore(db *sql.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// CreateConversation inserts a new conversation and returns its generated
// ID.
func (s *ConversationStore) CreateConversation(title string) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.Exec(
		"INSERT INTO conversations (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)",
		id, title, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create conversation: %w", err)
	}
	return id, nil
}

// GetConversation fetches a single conversation by ID.
func (s *ConversationStore) GetConversation(id string) (*Conversation, error) {
	var conv Conversation
	err := s.db.QueryRow(
		"SELECT id, title, created_at, updated_at FROM conversations WHERE id = ?", id,
	).Scan(&conv.ID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation %s: %w", id, err)
	}
	return &conv, nil
}

// ListConversations returns all conversations, most recently updated first.
func (s *ConversationStore) ListConversations() ([]*Conversation, error) {
	rows, err := s.db.Query(
		"SELECT id, title, created_at, updated_at FROM conversations ORDER BY updated_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var conversations []*Conversation
	for rows.Next() {
		var conv Conversation
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, &conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}
	return conversations, nil
}

// AppendMessage records one message in a conversation and bumps the
// conversation's updated_at.
func (s *ConversationStore) AppendMessage(conversationID string, msg problem.Message) error {
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(
		"UPDATE conversations SET updated_at = ? WHERE id = ?", now, conversationID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch conversation %s: %w", conversationID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check conversation %s: %w", conversationID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(
		"INSERT INTO messages (id, conversation_id, kind, content, language, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.New().String(), conversationID, msg.Kind, msg.Content, msg.Language, now,
	)
	if err != nil {
		return fmt.Errorf("failed to append message to %s: %w", conversationID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message append: %w", err)
	}
	return nil
}

// Messages returns a conversation's messages in chronological order.
func (s *ConversationStore) Messages(conversationID string) ([]problem.Message, error) {
	rows, err := s.db.Query(
		"SELECT kind, content, language FROM messages WHERE conversation_id = ? ORDER BY created_at, id",
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages for %s: %w", conversationID, err)
	}
	defer func() { _ = rows.Close() }()

	var messages []problem.Message
	for rows.Next() {
		var msg problem.Message
		if err := rows.Scan(&msg.Kind, &msg.Content, &msg.Language); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

// DeleteConversation removes a conversation and, via the foreign key
// cascade, its messages.
func (s *ConversationStore) DeleteConversation(id string) error {
	result, err := s.db.Exec("DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete of %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
