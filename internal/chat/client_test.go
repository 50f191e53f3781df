package chat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciciliostudio/hub/internal/api"
)

// scriptStream yields one scripted chunk per Read and honors context
// cancellation like an HTTP response body does.
type scriptStream struct {
	ctx    context.Context
	chunks chan string
}

func (s *scriptStream) Read(p []byte) (int, error) {
	select {
	case chunk, ok := <-s.chunks:
		if !ok {
			return 0, io.EOF
		}
		return copy(p, chunk), nil
	case <-s.ctx.Done():
		return 0, s.ctx.Err()
	}
}

func (s *scriptStream) Close() error { return nil }

// fakeStreamer hands out a fresh scripted stream per request.
type fakeStreamer struct {
	streams chan *scriptStream
}

func newFakeStreamer() *fakeStreamer {
	return &fakeStreamer{streams: make(chan *scriptStream, 4)}
}

func (f *fakeStreamer) ChatStream(ctx context.Context, query, mode string) (io.ReadCloser, error) {
	s := &scriptStream{ctx: ctx, chunks: make(chan string, 8)}
	f.streams <- s
	return s, nil
}

// chanSender collects messages the way a tea.Program would receive them.
type chanSender struct {
	msgs chan tea.Msg
}

func newChanSender() *chanSender {
	return &chanSender{msgs: make(chan tea.Msg, 32)}
}

func (s *chanSender) Send(msg tea.Msg) { s.msgs <- msg }

func recv(t *testing.T, ch chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a stream message")
		return nil
	}
}

type recordingMarkdown struct{}

func (recordingMarkdown) Partial(text string) string { return "md(" + text + cursorMarker + ")" }
func (recordingMarkdown) Final(text string) string   { return "md(" + text + ")" }

func TestStreamAccumulatesChunksIntoOneAnswer(t *testing.T) {
	streamer := newFakeStreamer()
	sender := newChanSender()
	client := New(streamer)

	id := client.Start("hello", ModeChat, sender)
	stream := <-streamer.streams

	transcript := NewTranscript(recordingMarkdown{})
	transcript.AddUser("hello")
	transcript.BeginAnswer()

	want := []string{"Hel", "Hello wor", "Hello world!"}
	for i, chunk := range []string{"Hel", "lo wor", "ld!"} {
		stream.chunks <- chunk
		msg := recv(t, sender.msgs)
		chunkMsg, ok := msg.(ChunkMsg)
		require.True(t, ok, "expected ChunkMsg, got %T", msg)
		assert.Equal(t, id, chunkMsg.Session)
		assert.Equal(t, want[i], chunkMsg.Text)

		transcript.ApplyChunk(chunkMsg.Text)
		assert.Equal(t, "md("+want[i]+cursorMarker+")", transcript.Last().Content,
			"in-flight answer renders with the cursor marker")
	}

	close(stream.chunks)
	msg := recv(t, sender.msgs)
	done, ok := msg.(DoneMsg)
	require.True(t, ok, "expected DoneMsg, got %T", msg)
	assert.Equal(t, "Hello world!", done.Text)

	transcript.Complete(done.Text)
	assert.Equal(t, "md(Hello world!)", transcript.Last().Content,
		"final render carries no cursor marker")
	assert.False(t, transcript.Streaming())
	assert.False(t, client.Active())
}

func TestStopIsGracefulAndKeepsPartialText(t *testing.T) {
	streamer := newFakeStreamer()
	sender := newChanSender()
	client := New(streamer)

	client.Start("hello", ModeChat, sender)
	stream := <-streamer.streams

	stream.chunks <- "Hel"
	chunkMsg := recv(t, sender.msgs).(ChunkMsg)
	require.Equal(t, "Hel", chunkMsg.Text)

	transcript := NewTranscript(recordingMarkdown{})
	transcript.AddUser("hello")
	transcript.BeginAnswer()
	transcript.ApplyChunk(chunkMsg.Text)

	client.Stop()
	msg := recv(t, sender.msgs)
	cancelled, ok := msg.(CancelledMsg)
	require.True(t, ok, "cancellation must not surface as an error, got %T", msg)
	assert.Equal(t, "Hel", cancelled.Text)

	transcript.CancelStream(cancelled.Text)
	assert.Equal(t, "md(Hel)", transcript.Last().Content, "partial answer stays in place")
	assert.Equal(t, RoleAssistant, transcript.Last().Role, "no error bubble after a stop")
	assert.False(t, client.Active())
}

func TestNewSessionSupersedesThePriorOne(t *testing.T) {
	streamer := newFakeStreamer()
	sender := newChanSender()
	client := New(streamer)

	first := client.Start("first", ModeChat, sender)
	firstStream := <-streamer.streams
	firstStream.chunks <- "old "
	require.Equal(t, "old ", recv(t, sender.msgs).(ChunkMsg).Text)

	second := client.Start("second", ModeChat, sender)
	secondStream := <-streamer.streams

	assert.True(t, client.Stale(first), "the first session is superseded")
	assert.False(t, client.Stale(second))

	// The old stream winds down with a cancellation tagged with its own
	// session id, so receivers can tell it apart and drop it.
	msg := recv(t, sender.msgs)
	cancelled, ok := msg.(CancelledMsg)
	require.True(t, ok, "expected CancelledMsg from the old session, got %T", msg)
	assert.Equal(t, first, cancelled.Session)

	secondStream.chunks <- "new answer"
	chunkMsg := recv(t, sender.msgs).(ChunkMsg)
	assert.Equal(t, second, chunkMsg.Session)
	assert.Equal(t, "new answer", chunkMsg.Text)
	assert.True(t, client.Active())

	close(secondStream.chunks)
	done := recv(t, sender.msgs).(DoneMsg)
	assert.Equal(t, "new answer", done.Text)
}

func TestStreamOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)

		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		for _, chunk := range []string{"Hel", "lo wor", "ld!"} {
			fmt.Fprint(w, chunk)
			flusher.Flush()
		}
	}))
	defer server.Close()

	sender := newChanSender()
	client := New(api.NewClient(server.URL))
	client.Start("hello", ModeChat, sender)

	var got string
	for {
		switch msg := recv(t, sender.msgs).(type) {
		case ChunkMsg:
			got = msg.Text
		case DoneMsg:
			assert.Equal(t, "Hello world!", msg.Text)
			assert.Equal(t, "Hello world!", got)
			return
		default:
			t.Fatalf("unexpected message %T", msg)
		}
	}
}

func TestStreamErrorCarriesGuidance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail": "LLM Provider Not Initialized"}`)
	}))
	defer server.Close()

	sender := newChanSender()
	client := New(api.NewClient(server.URL))
	client.Start("hello", ModeChat, sender)

	msg := recv(t, sender.msgs)
	errMsg, ok := msg.(ErrMsg)
	require.True(t, ok, "expected ErrMsg, got %T", msg)
	assert.Contains(t, errMsg.Guidance, "Configure settings and click Initialize")

	transcript := NewTranscript(recordingMarkdown{})
	transcript.AddUser("hello")
	transcript.BeginAnswer()
	transcript.Fail(errMsg.Guidance)
	assert.Equal(t, RoleError, transcript.Last().Role)
}

func TestGuidanceFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect string
	}{
		{
			name:   "provider not initialized, mixed case",
			err:    &api.APIError{Status: 400, Detail: "LLM Provider NOT Initialized"},
			expect: "Configure settings and click Initialize",
		},
		{
			name:   "no vectorstore loaded, mixed case",
			err:    &api.APIError{Status: 400, Detail: "No VectorStore is Loaded for this session"},
			expect: "Load a document set",
		},
		{
			name:   "unknown detail passes through",
			err:    &api.APIError{Status: 500, Detail: "database unavailable"},
			expect: "database unavailable",
		},
		{
			name:   "empty detail falls back to the status",
			err:    &api.APIError{Status: 502},
			expect: "status 502",
		},
		{
			name:   "transport error",
			err:    fmt.Errorf("dial tcp: connection refused"),
			expect: "Could not reach the assistant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, GuidanceFor(tt.err), tt.expect)
		})
	}
}
