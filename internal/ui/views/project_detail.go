package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ciciliostudio/hub/internal/api"
)

// ProjectDetailView shows one project: milestones, team, guide, and
// deadline, with milestone advancement for the owning student.
type ProjectDetailView struct {
	client  *api.Client
	project *api.Project

	updating bool
	errText  string
	status   string

	width int

	titleStyle  lipgloss.Style
	cardStyle   lipgloss.Style
	labelStyle  lipgloss.Style
	doneStyle   lipgloss.Style
	activeStyle lipgloss.Style
	errStyle    lipgloss.Style
	hintStyle   lipgloss.Style
}

// NewProjectDetailView creates the project detail page.
func NewProjectDetailView(client *api.Client) *ProjectDetailView {
	return &ProjectDetailView{
		client: client,

		titleStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B6EA5")),
		cardStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B6EA5")).
			Padding(0, 2).
			MarginTop(1),
		labelStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")),
		doneStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		activeStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E5C07B")),
		errStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		hintStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// SetSize updates the layout width.
func (v *ProjectDetailView) SetSize(width, height int) {
	v.width = width
}

// Update handles detail page input and data arrival.
func (v *ProjectDetailView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ProjectLoadedMsg:
		v.project = msg.Project
		v.updating = false
		v.errText = ""
		return nil

	case StatusMsg:
		v.status = msg.Text
		return nil

	case ErrorMsg:
		v.updating = false
		v.errText = msg.Err.Error()
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "m":
			return v.advanceMilestone()
		case "r":
			return v.reload()
		}
	}
	return nil
}

// advanceMilestone marks the first unfinished milestone completed. The
// backend recomputes progress and returns the updated project.
func (v *ProjectDetailView) advanceMilestone() tea.Cmd {
	if v.project == nil || v.updating {
		return nil
	}

	var next *api.Milestone
	for i := range v.project.Milestones {
		if v.project.Milestones[i].Status != "completed" {
			next = &v.project.Milestones[i]
			break
		}
	}
	if next == nil {
		v.status = "All milestones are complete"
		return nil
	}

	v.updating = true
	v.errText = ""
	client := v.client
	projectID := v.project.ID
	order := next.Order

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		project, err := client.UpdateMilestone(ctx, projectID, api.UpdateMilestoneRequest{
			MilestoneOrder: order,
			Status:         "completed",
		})
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ProjectLoadedMsg{Project: project}
	}
}

func (v *ProjectDetailView) reload() tea.Cmd {
	if v.project == nil {
		return nil
	}
	client := v.client
	id := v.project.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		project, err := client.GetProject(ctx, id)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ProjectLoadedMsg{Project: project}
	}
}

// View renders the project.
func (v *ProjectDetailView) View() string {
	if v.project == nil {
		if v.errText != "" {
			return v.errStyle.Render(v.errText)
		}
		return v.labelStyle.Render("Loading project...")
	}

	p := v.project
	var b strings.Builder

	b.WriteString(v.titleStyle.Render(p.Name))
	b.WriteString("\n")
	b.WriteString(v.labelStyle.Render(fmt.Sprintf("%s  %s  %s", p.CourseCode, p.Department, p.Status)))
	b.WriteString("\n")

	if p.Description != "" {
		b.WriteString("\n" + p.Description + "\n")
	}

	b.WriteString(v.cardStyle.Render(v.renderMilestones()))
	b.WriteString("\n")
	b.WriteString(v.cardStyle.Render(v.renderTeam()))

	if v.status != "" {
		b.WriteString("\n" + v.doneStyle.Render(v.status))
	}
	if v.errText != "" {
		b.WriteString("\n" + v.errStyle.Render(v.errText))
	}

	b.WriteString("\n\n")
	b.WriteString(v.hintStyle.Render("[m Complete next milestone] [r Reload] [Esc Back]"))
	return b.String()
}

func (v *ProjectDetailView) renderMilestones() string {
	p := v.project
	lines := []string{fmt.Sprintf("Milestones  %d%% %s", p.Progress, progressBar(p.Progress, 20))}

	for _, m := range p.Milestones {
		marker := "[ ]"
		line := fmt.Sprintf("%s %d. %s", marker, m.Order, m.Name)
		switch m.Status {
		case "completed":
			line = v.doneStyle.Render(fmt.Sprintf("[x] %d. %s", m.Order, m.Name))
		case "in_progress":
			line = v.activeStyle.Render(fmt.Sprintf("[~] %d. %s", m.Order, m.Name))
		}
		lines = append(lines, line)
	}

	if p.Deadline != nil {
		lines = append(lines, "", "Deadline: "+p.Deadline.Format("2006-01-02"))
	}

	return strings.Join(lines, "\n")
}

func (v *ProjectDetailView) renderTeam() string {
	p := v.project
	lines := []string{"Team"}

	lines = append(lines, fmt.Sprintf("  %s (owner)", p.OwnerName))
	for _, m := range p.TeamMembers {
		if m.UserID == p.OwnerID {
			continue
		}
		lines = append(lines, "  "+m.FullName)
	}

	if p.GuideName != "" {
		lines = append(lines, "", "Guide: "+p.GuideName)
	} else {
		lines = append(lines, "", v.labelStyle.Render("No guide assigned yet"))
	}

	return strings.Join(lines, "\n")
}

func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
