package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ciciliostudio/hub/internal/logging"
)

// Streamer is the transport side of the assistant: it issues the query
// and returns a chunked text body. *api.Client satisfies it.
type Streamer interface {
	ChatStream(ctx context.Context, query, mode string) (io.ReadCloser, error)
}

// Sender delivers messages back into the UI loop. *tea.Program
// satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Assistant modes.
const (
	ModeChat = "chat"
	ModeRAG  = "rag"
)

// ChunkMsg carries the accumulated answer text after a chunk arrived.
// Session identifies which stream produced it; messages from a
// superseded session must be discarded by the receiver.
type ChunkMsg struct {
	Session int
	Text    string
}

// DoneMsg signals normal stream completion with the full answer.
type DoneMsg struct {
	Session int
	Text    string
}

// CancelledMsg signals a deliberate user cancellation. The partial text
// already rendered stays in place; this is not a failure.
type CancelledMsg struct {
	Session int
	Text    string
}

// ErrMsg signals a genuine transport or server failure. Guidance, when
// non-empty, is the user-facing explanation to render.
type ErrMsg struct {
	Session  int
	Err      error
	Guidance string
}

// Client consumes the streaming assistant endpoint. At most one session
// is active at a time: starting a new one explicitly cancels the prior
// session, and the session sequence number lets receivers drop any
// chunks the old stream managed to emit before it observed the
// cancellation.
type Client struct {
	streamer Streamer

	mu     sync.Mutex
	seq    int
	cancel context.CancelFunc
	active bool
}

// New creates a chat client over the given transport.
func New(streamer Streamer) *Client {
	return &Client{streamer: streamer}
}

// Start launches a new streaming session and returns its id. Any prior
// session is cancelled first. The read loop runs in its own goroutine
// and reports progress through send; its only suspension point is the
// chunk read.
func (c *Client) Start(query, mode string, send Sender) int {
	c.mu.Lock()
	if c.cancel != nil {
		logging.Debug("chat: cancelling session %d before starting a new one", c.seq)
		c.cancel()
	}
	c.seq++
	id := c.seq
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.active = true
	c.mu.Unlock()

	go c.run(ctx, id, query, mode, send)
	return id
}

// Stop cancels the active session. The read loop observes the
// cancellation at its next read and reports CancelledMsg.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Active reports whether a session is in flight.
func (c *Client) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Stale reports whether a message's session has been superseded.
// Receivers drop stale messages so a cancelled stream can never write
// into the transcript after its replacement started.
func (c *Client) Stale(session int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return session != c.seq
}

func (c *Client) run(ctx context.Context, id int, query, mode string, send Sender) {
	body, err := c.streamer.ChatStream(ctx, query, mode)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.finish(id)
			send.Send(CancelledMsg{Session: id})
			return
		}
		logging.Error("chat: stream request failed: %v", err)
		c.finish(id)
		send.Send(ErrMsg{Session: id, Err: err, Guidance: GuidanceFor(err)})
		return
	}
	defer body.Close()

	var acc strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			acc.Write(buf[:n])
			send.Send(ChunkMsg{Session: id, Text: acc.String()})
		}
		if err == nil {
			continue
		}

		c.finish(id)
		switch {
		case errors.Is(err, io.EOF):
			send.Send(DoneMsg{Session: id, Text: acc.String()})
		case errors.Is(err, context.Canceled):
			// Graceful termination, distinguished by the cancellation
			// signal itself, never by message text.
			send.Send(CancelledMsg{Session: id, Text: acc.String()})
		default:
			logging.Error("chat: stream read failed mid-answer: %v", err)
			send.Send(ErrMsg{Session: id, Err: err, Guidance: GuidanceFor(err)})
		}
		return
	}
}

// finish clears the session state unless a newer session already owns it.
func (c *Client) finish(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id != c.seq {
		return
	}
	c.active = false
	c.cancel = nil
}
