package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ciciliostudio/hub/internal/api"
)

// projectItem adapts a project to the list component.
type projectItem struct {
	project api.Project
}

func (i projectItem) Title() string { return i.project.Name }
func (i projectItem) Description() string {
	desc := fmt.Sprintf("%s  %d%%", i.project.Status, i.project.Progress)
	if i.project.GuideName != "" {
		desc += "  guide: " + i.project.GuideName
	}
	return desc
}
func (i projectItem) FilterValue() string { return i.project.Name }

// ProjectsView lists the user's projects and opens the detail page on
// selection.
type ProjectsView struct {
	client *api.Client

	list    list.Model
	loaded  bool
	errText string

	width  int
	height int

	errStyle  lipgloss.Style
	hintStyle lipgloss.Style
}

// NewProjectsView creates the project list page.
func NewProjectsView(client *api.Client) *ProjectsView {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Projects"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return &ProjectsView{
		client: client,
		list:   l,

		errStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		hintStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// SetSize updates the layout dimensions.
func (v *ProjectsView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.list.SetSize(width, max(height-4, 4))
}

// Load fetches the project list.
func (v *ProjectsView) Load() tea.Cmd {
	client := v.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		projects, err := client.ListProjects(ctx, "")
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ProjectsLoadedMsg{Projects: projects}
	}
}

// Selected returns the highlighted project, or nil.
func (v *ProjectsView) Selected() *api.Project {
	item, ok := v.list.SelectedItem().(projectItem)
	if !ok {
		return nil
	}
	p := item.project
	return &p
}

// Update handles list input and data arrival.
func (v *ProjectsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ProjectsLoadedMsg:
		v.loaded = true
		v.errText = ""
		items := make([]list.Item, len(msg.Projects))
		for i, p := range msg.Projects {
			items[i] = projectItem{project: p}
		}
		return v.list.SetItems(items)

	case ErrorMsg:
		v.errText = msg.Err.Error()
		return nil

	case tea.KeyMsg:
		if !v.list.SettingFilter() {
			switch msg.String() {
			case "enter":
				if selected := v.Selected(); selected != nil {
					return v.open(selected.ID)
				}
				return nil
			case "r":
				return v.Load()
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

// open navigates to the detail page and fetches the full record behind
// the transition.
func (v *ProjectsView) open(id string) tea.Cmd {
	client := v.client
	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		project, err := client.GetProject(ctx, id)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ProjectLoadedMsg{Project: project}
	}
	navigate := func() tea.Msg {
		return NavigateMsg{Target: "project"}
	}
	return tea.Batch(navigate, fetch)
}

// View renders the list.
func (v *ProjectsView) View() string {
	var b strings.Builder

	if v.errText != "" {
		b.WriteString(v.errStyle.Render(v.errText))
		b.WriteString("\n")
	}
	b.WriteString(v.list.View())
	b.WriteString("\n")
	b.WriteString(v.hintStyle.Render("[Enter Open] [/ Filter] [r Reload] [Esc Back]"))
	return b.String()
}
