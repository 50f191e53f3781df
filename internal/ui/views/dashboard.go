package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ciciliostudio/hub/internal/api"
)

const loadTimeout = 15 * time.Second

// DashboardView is the landing page: a role-aware summary of the user's
// projects and, for admins, the platform statistics.
type DashboardView struct {
	client *api.Client
	user   *api.User

	projects []api.Project
	stats    *api.AdminStats
	loading  bool
	errText  string

	width int

	titleStyle lipgloss.Style
	cardStyle  lipgloss.Style
	labelStyle lipgloss.Style
	errStyle   lipgloss.Style
	hintStyle  lipgloss.Style
}

// NewDashboardView creates the dashboard.
func NewDashboardView(client *api.Client) *DashboardView {
	return &DashboardView{
		client: client,

		titleStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B6EA5")),
		cardStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B6EA5")).
			Padding(0, 2).
			MarginTop(1),
		labelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")),
		errStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		hintStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// SetUser records the signed-in user after login.
func (v *DashboardView) SetUser(user *api.User) {
	v.user = user
}

// SetSize updates the layout width.
func (v *DashboardView) SetSize(width, height int) {
	v.width = width
}

// Load fetches the dashboard data.
func (v *DashboardView) Load() tea.Cmd {
	if v.user == nil {
		return nil
	}
	v.loading = true
	v.errText = ""

	admin := v.user.Role == "Admin"
	client := v.client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		if admin {
			stats, err := client.GetAdminStats(ctx)
			if err != nil {
				return ErrorMsg{Err: err}
			}
			return StatsLoadedMsg{Stats: stats}
		}

		projects, err := client.ListProjects(ctx, "")
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ProjectsLoadedMsg{Projects: projects}
	}
}

// Update handles dashboard messages.
func (v *DashboardView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ProjectsLoadedMsg:
		v.loading = false
		v.projects = msg.Projects
	case StatsLoadedMsg:
		v.loading = false
		v.stats = msg.Stats
	case ErrorMsg:
		v.loading = false
		v.errText = msg.Err.Error()
	case tea.KeyMsg:
		if msg.String() == "r" {
			return v.Load()
		}
	}
	return nil
}

// View renders the dashboard.
func (v *DashboardView) View() string {
	var b strings.Builder

	name := "there"
	if v.user != nil {
		name = v.user.FullName
	}
	b.WriteString(v.titleStyle.Render("Welcome back, " + name))
	b.WriteString("\n")

	switch {
	case v.loading:
		b.WriteString(v.labelStyle.Render("Loading..."))
	case v.errText != "":
		b.WriteString(v.errStyle.Render(v.errText))
	case v.stats != nil:
		b.WriteString(v.renderStats())
	default:
		b.WriteString(v.renderProjects())
	}

	b.WriteString("\n\n")
	b.WriteString(v.hintStyle.Render("[p Projects] [i Invitations] [c Assistant] [r Reload] [q Quit]"))
	return b.String()
}

func (v *DashboardView) renderProjects() string {
	if len(v.projects) == 0 {
		return v.labelStyle.Render("No projects yet. Press p to browse projects.")
	}

	byStatus := map[string]int{}
	for _, p := range v.projects {
		byStatus[p.Status]++
	}

	summary := fmt.Sprintf(
		"%d project(s)  planning %d  in progress %d  completed %d",
		len(v.projects),
		byStatus["planning"],
		byStatus["in_progress"],
		byStatus["completed"],
	)

	var lines []string
	lines = append(lines, summary, "")
	for i, p := range v.projects {
		if i >= 5 {
			lines = append(lines, fmt.Sprintf("  ... and %d more", len(v.projects)-i))
			break
		}
		lines = append(lines, fmt.Sprintf("  %-30s %-12s %3d%%", truncate(p.Name, 30), p.Status, p.Progress))
	}

	return v.cardStyle.Render(strings.Join(lines, "\n"))
}

func (v *DashboardView) renderStats() string {
	s := v.stats
	lines := []string{
		fmt.Sprintf("Users     %4d   students %d, teachers %d", s.TotalUsers, s.TotalStudents, s.TotalTeachers),
		fmt.Sprintf("Projects  %4d   planning %d, in progress %d, completed %d",
			s.TotalProjects, s.ProjectsPlanning, s.ProjectsInProgress, s.ProjectsCompleted),
		fmt.Sprintf("Active    %4d students, %d teachers, %d guides",
			s.ActiveStudents, s.ActiveTeachers, s.GuidesCount),
	}
	return v.cardStyle.Render(strings.Join(lines, "\n"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
