package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ciciliostudio/hub/internal/chat"
	"github.com/ciciliostudio/hub/internal/history"
	"github.com/ciciliostudio/hub/internal/logging"
)

// ChatView is the streaming assistant page: a transcript viewport over
// a single-line input, with chat and RAG modes.
type ChatView struct {
	chatClient *chat.Client
	transcript *chat.Transcript
	store      *history.Store
	send       chat.Sender

	userEmail      string
	mode           string
	conversationID int64

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	width  int
	height int

	userStyle      lipgloss.Style
	assistantStyle lipgloss.Style
	errStyle       lipgloss.Style
	thinkingStyle  lipgloss.Style
	modeStyle      lipgloss.Style
	hintStyle      lipgloss.Style
}

// NewChatView creates the assistant page. store may be nil, which
// disables transcript persistence.
func NewChatView(client *chat.Client, md chat.Markdown, store *history.Store, userEmail, mode string) *ChatView {
	ta := textarea.New()
	ta.Placeholder = "Ask the assistant... (Enter to send)"
	ta.CharLimit = 500
	ta.SetWidth(80)
	ta.SetHeight(1)
	ta.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	if mode != chat.ModeRAG {
		mode = chat.ModeChat
	}

	return &ChatView{
		chatClient: client,
		transcript: chat.NewTranscript(md),
		store:      store,
		userEmail:  userEmail,
		mode:       mode,
		viewport:   vp,
		textarea:   ta,
		spinner:    sp,

		userStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		assistantStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		errStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		thinkingStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		modeStyle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B6EA5")),
		hintStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// SetSender wires the program reference used to deliver stream messages
// from the reader goroutine back into the update loop.
func (v *ChatView) SetSender(send chat.Sender) {
	v.send = send
}

// SetSize updates the layout dimensions.
func (v *ChatView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.textarea.SetWidth(width - 2)
	v.viewport.Width = width
	v.viewport.Height = max(height-6, 4)
	v.renderTranscript()
}

// Streaming reports whether an answer is in flight.
func (v *ChatView) Streaming() bool {
	return v.chatClient.Active()
}

// Stop cancels the in-flight answer, keeping whatever text arrived.
func (v *ChatView) Stop() {
	v.chatClient.Stop()
}

// Update handles chat input and stream messages.
func (v *ChatView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return v.submit()
		case "ctrl+x":
			if v.chatClient.Active() {
				v.chatClient.Stop()
			}
			return nil
		case "ctrl+r":
			if v.mode == chat.ModeChat {
				v.mode = chat.ModeRAG
			} else {
				v.mode = chat.ModeChat
			}
			return nil
		}

	case chat.ChunkMsg:
		if v.chatClient.Stale(msg.Session) {
			return nil
		}
		v.transcript.ApplyChunk(msg.Text)
		v.renderTranscript()
		return nil

	case chat.DoneMsg:
		if v.chatClient.Stale(msg.Session) {
			return nil
		}
		v.transcript.Complete(msg.Text)
		v.renderTranscript()
		v.persist(chat.RoleAssistant, msg.Text)
		return nil

	case chat.CancelledMsg:
		if v.chatClient.Stale(msg.Session) {
			return nil
		}
		v.transcript.CancelStream(msg.Text)
		v.renderTranscript()
		if msg.Text != "" {
			v.persist(chat.RoleAssistant, msg.Text)
		}
		return nil

	case chat.ErrMsg:
		if v.chatClient.Stale(msg.Session) {
			return nil
		}
		v.transcript.Fail(msg.Guidance)
		v.renderTranscript()
		return nil

	case spinner.TickMsg:
		if v.chatClient.Active() {
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(msg)
			return cmd
		}
		return nil
	}

	var taCmd, vpCmd tea.Cmd
	v.textarea, taCmd = v.textarea.Update(msg)
	v.viewport, vpCmd = v.viewport.Update(msg)
	return tea.Batch(taCmd, vpCmd)
}

func (v *ChatView) submit() tea.Cmd {
	query := strings.TrimSpace(v.textarea.Value())
	if query == "" || v.send == nil {
		return nil
	}
	v.textarea.Reset()

	// A submit during a stream replaces it: the client cancels the old
	// session and its late messages are dropped as stale.
	v.transcript.AddUser(query)
	v.transcript.BeginAnswer()
	v.renderTranscript()
	v.persist(chat.RoleUser, query)

	v.chatClient.Start(query, v.mode, v.send)
	return v.spinner.Tick
}

// persist appends to the sqlite transcript, opening a conversation on
// first use. Persistence failures only log; the live chat keeps going.
func (v *ChatView) persist(role, content string) {
	if v.store == nil {
		return
	}
	if v.conversationID == 0 {
		id, err := v.store.BeginConversation(v.userEmail, v.mode)
		if err != nil {
			logging.Warn("chat: could not start history conversation: %v", err)
			return
		}
		v.conversationID = id
	}
	if _, err := v.store.SaveMessage(v.conversationID, role, content); err != nil {
		logging.Warn("chat: could not save message: %v", err)
	}
}

func (v *ChatView) renderTranscript() {
	var parts []string
	for _, b := range v.transcript.Bubbles() {
		switch b.Role {
		case chat.RoleUser:
			parts = append(parts, v.userStyle.Render("You: ")+b.Content)
		case chat.RoleAssistant:
			if b.Streaming && b.Content == "" {
				parts = append(parts, v.thinkingStyle.Render("Thinking..."))
			} else {
				parts = append(parts, v.assistantStyle.Render(b.Content))
			}
		case chat.RoleError:
			parts = append(parts, v.errStyle.Render(b.Content))
		}
	}
	v.viewport.SetContent(strings.Join(parts, "\n\n"))
	v.viewport.GotoBottom()
}

// View renders the chat page.
func (v *ChatView) View() string {
	var b strings.Builder

	mode := "chat"
	if v.mode == chat.ModeRAG {
		mode = "rag"
	}
	header := v.modeStyle.Render("Assistant") + v.hintStyle.Render("  mode: "+mode)
	if v.chatClient.Active() {
		header += "  " + v.spinner.View() + v.hintStyle.Render(" streaming, ctrl+x to stop")
	}

	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.textarea.View())
	b.WriteString("\n")
	b.WriteString(v.hintStyle.Render("[Enter Send] [Ctrl+R Toggle mode] [Ctrl+X Stop] [Esc Back]"))
	return b.String()
}
