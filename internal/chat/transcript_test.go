package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptFailReplacesPlaceholder(t *testing.T) {
	tr := NewTranscript(recordingMarkdown{})
	tr.AddUser("question")
	tr.BeginAnswer()
	require.True(t, tr.Streaming())

	tr.Fail("something went wrong")

	require.Len(t, tr.Bubbles(), 2)
	assert.Equal(t, RoleError, tr.Last().Role)
	assert.Equal(t, "something went wrong", tr.Last().Content)
	assert.False(t, tr.Streaming())
}

func TestTranscriptIgnoresChunksWithoutPlaceholder(t *testing.T) {
	tr := NewTranscript(recordingMarkdown{})
	tr.AddUser("question")

	tr.ApplyChunk("stray")
	tr.Complete("stray")

	require.Len(t, tr.Bubbles(), 1)
	assert.Equal(t, RoleUser, tr.Last().Role)
}

func TestTranscriptCancelWithoutTextKeepsLastChunk(t *testing.T) {
	tr := NewTranscript(recordingMarkdown{})
	tr.AddUser("question")
	tr.BeginAnswer()
	tr.ApplyChunk("partial answ")

	tr.CancelStream("")

	assert.Equal(t, "md(partial answ)", tr.Last().Content)
	assert.False(t, tr.Streaming())
}
