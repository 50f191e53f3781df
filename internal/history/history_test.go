package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestConversationRoundTrip(t *testing.T) {
	s := openTestStore(t)

	conv, err := s.BeginConversation("ada@example.edu", "chat")
	require.NoError(t, err)

	_, err = s.SaveMessage(conv, "user", "What is my project status?")
	require.NoError(t, err)
	_, err = s.SaveMessage(conv, "assistant", "Your project is in progress.")
	require.NoError(t, err)

	messages, err := s.Messages(conv)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "assistant", messages[1].Role)
	assert.Equal(t, "Your project is in progress.", messages[1].Content)
}

func TestRecentConversationsAreScopedToUser(t *testing.T) {
	s := openTestStore(t)

	first, err := s.BeginConversation("ada@example.edu", "chat")
	require.NoError(t, err)
	second, err := s.BeginConversation("ada@example.edu", "rag")
	require.NoError(t, err)
	_, err = s.BeginConversation("grace@example.edu", "chat")
	require.NoError(t, err)

	conversations, err := s.RecentConversations("ada@example.edu", 10)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, second, conversations[0].ID, "newest first")
	assert.Equal(t, first, conversations[1].ID)
}

func TestDeleteConversationCascadesToMessages(t *testing.T) {
	s := openTestStore(t)

	conv, err := s.BeginConversation("ada@example.edu", "chat")
	require.NoError(t, err)
	_, err = s.SaveMessage(conv, "user", "hello")
	require.NoError(t, err)

	require.NoError(t, s.DeleteConversation(conv))

	messages, err := s.Messages(conv)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
