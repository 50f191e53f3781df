package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ciciliostudio/hub/internal/api"
)

// InvitationsView lists pending team invitations and guide requests and
// lets the user accept or decline them. One cursor spans both sections.
type InvitationsView struct {
	client *api.Client

	received      []api.TeamInvitation
	guideRequests []api.GuideRequest
	cursor        int
	loading       bool
	errText       string
	status        string

	width int

	titleStyle  lipgloss.Style
	cursorStyle lipgloss.Style
	labelStyle  lipgloss.Style
	okStyle     lipgloss.Style
	errStyle    lipgloss.Style
	hintStyle   lipgloss.Style
}

// NewInvitationsView creates the invitations page.
func NewInvitationsView(client *api.Client) *InvitationsView {
	return &InvitationsView{
		client: client,

		titleStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B6EA5")),
		cursorStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E5C07B")),
		labelStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")),
		okStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		errStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		hintStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// SetSize updates the layout width.
func (v *InvitationsView) SetSize(width, height int) {
	v.width = width
}

// Load fetches pending team invitations and guide requests.
func (v *InvitationsView) Load() tea.Cmd {
	v.loading = true
	v.errText = ""
	v.status = ""
	client := v.client

	invitations := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		received, err := client.ListTeamInvitations(ctx, "", "pending")
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return InvitationsLoadedMsg{Received: received}
	}
	requests := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		pending, err := client.ListGuideRequests(ctx, "", "pending")
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return GuideRequestsLoadedMsg{Requests: pending}
	}

	return tea.Batch(invitations, requests)
}

func (v *InvitationsView) total() int {
	return len(v.received) + len(v.guideRequests)
}

// Update handles invitation input and data arrival.
func (v *InvitationsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case InvitationsLoadedMsg:
		v.loading = false
		v.received = msg.Received
		if v.cursor >= v.total() {
			v.cursor = 0
		}
		return nil

	case GuideRequestsLoadedMsg:
		v.loading = false
		v.guideRequests = msg.Requests
		if v.cursor >= v.total() {
			v.cursor = 0
		}
		return nil

	case StatusMsg:
		v.status = msg.Text
		return v.Load()

	case ErrorMsg:
		v.loading = false
		v.errText = msg.Err.Error()
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < v.total()-1 {
				v.cursor++
			}
		case "a":
			return v.respond(true)
		case "d":
			return v.respond(false)
		case "r":
			return v.Load()
		}
	}
	return nil
}

// respond resolves the entry under the cursor. Team invitations come
// before guide requests in cursor order.
func (v *InvitationsView) respond(accept bool) tea.Cmd {
	if v.cursor >= v.total() {
		return nil
	}
	client := v.client
	verb := "declined"
	if accept {
		verb = "accepted"
	}

	if v.cursor < len(v.received) {
		inv := v.received[v.cursor]
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
			defer cancel()

			updated, err := client.RespondTeamInvitation(ctx, inv.ID, accept)
			if err != nil {
				return ErrorMsg{Err: err}
			}
			return StatusMsg{Text: fmt.Sprintf("Invitation to %s %s", updated.ProjectName, verb)}
		}
	}

	req := v.guideRequests[v.cursor-len(v.received)]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		updated, err := client.RespondGuideRequest(ctx, req.ID, accept, "")
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Text: fmt.Sprintf("Guide request for %s %s", updated.ProjectName, verb)}
	}
}

// View renders both pending lists.
func (v *InvitationsView) View() string {
	var b strings.Builder

	b.WriteString(v.titleStyle.Render("Team invitations"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.labelStyle.Render("Loading..."))
	case len(v.received) == 0:
		b.WriteString(v.labelStyle.Render("No pending invitations."))
	default:
		for i, inv := range v.received {
			line := fmt.Sprintf("%s invited you to %s", inv.InviterName, inv.ProjectName)
			b.WriteString(v.cursorLine(line, i == v.cursor) + "\n")
		}
	}

	if len(v.guideRequests) > 0 {
		b.WriteString("\n")
		b.WriteString(v.titleStyle.Render("Guide requests"))
		b.WriteString("\n\n")
		for i, req := range v.guideRequests {
			line := fmt.Sprintf("%s offered to guide %s", req.TeacherName, req.ProjectName)
			b.WriteString(v.cursorLine(line, len(v.received)+i == v.cursor) + "\n")
		}
	}

	if v.status != "" {
		b.WriteString("\n" + v.okStyle.Render(v.status))
	}
	if v.errText != "" {
		b.WriteString("\n" + v.errStyle.Render(v.errText))
	}

	b.WriteString("\n\n")
	b.WriteString(v.hintStyle.Render("[a Accept] [d Decline] [r Reload] [Esc Back]"))
	return b.String()
}

func (v *InvitationsView) cursorLine(line string, selected bool) string {
	if selected {
		return v.cursorStyle.Render("> " + line)
	}
	return "  " + line
}
