package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapsolver/pkg/problem"
)

func testStore(t *testing.T) *ConversationStore {
	t.Helper()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewConversationStore(db)
}

func TestCreateAndGetConversation(t *testing.T) {
	store := testStore(t)

	id, err := store.CreateConversation("Two Sum session")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	conv, err := store.GetConversation(id)
	require.NoError(t, err)
	assert.Equal(t, id, conv.ID)
	assert.Equal(t, "Two Sum session", conv.Title)
	assert.False(t, conv.CreatedAt.IsZero())
}

func TestGetConversationNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.GetConversation("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendAndListMessages(t *testing.T) {
	store := testStore(t)

	id, err := store.CreateConversation("session")
	require.NoError(t, err)

	require.NoError(t, store.AppendMessage(id, problem.Message{
		Kind:    problem.MessageKindText,
		Content: "Given an array of integers...",
	}))
	require.NoError(t, store.AppendMessage(id, problem.Message{
		Kind:     problem.MessageKindSolution,
		Language: "python",
	}))

	messages, err := store.Messages(id)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, problem.MessageKindText, messages[0].Kind)
	assert.Equal(t, "Given an array of integers...", messages[0].Content)
	assert.Equal(t, problem.MessageKindSolution, messages[1].Kind)
	assert.Equal(t, "python", messages[1].Language)
}

func TestAppendMessageUnknownConversation(t *testing.T) {
	store := testStore(t)

	err := store.AppendMessage("missing", problem.Message{Kind: problem.MessageKindText, Content: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListConversationsOrder(t *testing.T) {
	store := testStore(t)

	first, err := store.CreateConversation("first")
	require.NoError(t, err)
	second, err := store.CreateConversation("second")
	require.NoError(t, err)

	// Touching the older conversation moves it to the front.
	require.NoError(t, store.AppendMessage(first, problem.Message{Kind: problem.MessageKindText, Content: "hi"}))

	conversations, err := store.ListConversations()
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, first, conversations[0].ID)
	assert.Equal(t, second, conversations[1].ID)
}

func TestDeleteConversationCascades(t *testing.T) {
	store := testStore(t)

	id, err := store.CreateConversation("doomed")
	require.NoError(t, err)
	require.NoError(t, store.AppendMessage(id, problem.Message{Kind: problem.MessageKindText, Content: "x"}))

	require.NoError(t, store.DeleteConversation(id))
	assert.ErrorIs(t, store.DeleteConversation(id), ErrNotFound)

	messages, err := store.Messages(id)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// The cascade on messages only works when the connection enables the
	// foreign_keys pragma.
	var enabled int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestSchemaVersionPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versioned.db")

	db, err := OpenDatabase(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must see the recorded version and skip schema creation.
	db, err = OpenDatabase(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var version int
	require.NoError(t, db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, CurrentSchemaVersion, version)
}
