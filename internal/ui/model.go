package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ciciliostudio/hub/internal/api"
	"github.com/ciciliostudio/hub/internal/chat"
	"github.com/ciciliostudio/hub/internal/config"
	"github.com/ciciliostudio/hub/internal/history"
	"github.com/ciciliostudio/hub/internal/logging"
	"github.com/ciciliostudio/hub/internal/nav"
	"github.com/ciciliostudio/hub/internal/scroll"
	"github.com/ciciliostudio/hub/internal/session"
	"github.com/ciciliostudio/hub/internal/ui/views"
)

// ConfigReloadedMsg delivers a config picked up by the file watcher
// while the interface is running.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// Page ids registered with the navigator.
const (
	PageLogin       = "login"
	PageHome        = "home"
	PageProjects    = "projects"
	PageProject     = "project"
	PageInvitations = "invitations"
	PageChat        = "chat"
)

// Model is the main application model. It owns the navigator, the
// scroll controller, and the per-page views; each view keeps its own
// sub-state and the model routes messages between them.
type Model struct {
	config     *config.Config
	client     *api.Client
	sessionMgr *session.Manager
	user       *api.User

	navigator *nav.Navigator
	scroll    *scroll.Controller

	loginView       *views.LoginView
	dashboardView   *views.DashboardView
	projectsView    *views.ProjectsView
	projectView     *views.ProjectDetailView
	invitationsView *views.InvitationsView
	chatView        *views.ChatView

	width  int
	height int
	sized  bool

	lastContent int

	styles *Styles
}

// NewModel creates the main model. sess may be nil, in which case the
// login page gates everything else. store may be nil to disable chat
// persistence.
func NewModel(cfg *config.Config, client *api.Client, sessionMgr *session.Manager, sess *session.Session, store *history.Store) (*Model, error) {
	sc := scroll.New(cfg.ScrollEase())

	defaultPage := PageHome
	if sess == nil {
		defaultPage = PageLogin
	}
	navigator := nav.New(defaultPage, cfg.TransitionDuration(), sc)
	navigator.Register(PageLogin, PageHome, PageProjects, PageProject, PageInvitations, PageChat)

	md, err := chat.NewRenderer(78)
	if err != nil {
		return nil, err
	}

	userEmail := ""
	if sess != nil {
		userEmail = sess.Email
	}

	m := &Model{
		config:     cfg,
		client:     client,
		sessionMgr: sessionMgr,
		navigator:  navigator,
		scroll:     sc,

		loginView:       views.NewLoginView(client),
		dashboardView:   views.NewDashboardView(client),
		projectsView:    views.NewProjectsView(client),
		projectView:     views.NewProjectDetailView(client),
		invitationsView: views.NewInvitationsView(client),
		chatView:        views.NewChatView(chat.New(client), md, store, userEmail, cfg.ChatMode()),

		styles: NewStyles(),
	}

	if sess != nil {
		m.user = &api.User{
			ID:       sess.UserID,
			Email:    sess.Email,
			FullName: sess.FullName,
			Role:     sess.Role,
		}
		m.dashboardView.SetUser(m.user)
	}

	return m, nil
}

// SetProgram wires the running program in so stream goroutines can send
// messages back into the update loop.
func (m *Model) SetProgram(p *tea.Program) {
	m.chatView.SetSender(p)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.user != nil {
		return m.dashboardView.Load()
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, v := range m.sizable() {
			v.SetSize(msg.Width, m.pageHeight())
		}
		if !m.sized {
			m.sized = true
			m.scroll.Attach(m.measureContent(), m.pageHeight())
			return m, m.scroll.Start()
		}
		m.scroll.Resize(m.measureContent(), m.pageHeight())
		return m, nil

	case scroll.FrameMsg:
		return m, m.scroll.Update(msg)

	case nav.SwapMsg, nav.RevealMsg, nav.SettledMsg:
		cmd := m.navigator.Update(msg)
		m.syncScroll()
		return m, cmd

	case views.NavigateMsg:
		return m, m.navigate(msg.Target)

	case views.BackMsg:
		return m, m.navigator.GoBack()

	case views.LoggedInMsg:
		return m, m.handleLogin(msg)

	case ConfigReloadedMsg:
		m.config = msg.Config
		m.scroll.SetEase(msg.Config.ScrollEase())
		logging.Info("ui: applied reloaded config")
		return m, nil
	}

	cmd := m.route(msg)
	m.syncScroll()
	return m, cmd
}

// handleKey applies the global bindings. Returns handled=false when the
// key should fall through to the visible view.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()

	if key == "ctrl+c" {
		return tea.Quit, true
	}

	visible := m.navigator.Visible()
	typing := visible == PageLogin || visible == PageChat

	if key == "esc" {
		if visible == PageChat && m.chatView.Streaming() {
			// First esc stops the stream, the next one leaves the page.
			m.chatView.Stop()
			return nil, true
		}
		return m.navigator.GoBack(), true
	}

	if typing {
		return nil, false
	}

	switch key {
	case "q":
		return tea.Quit, true
	case "h":
		return m.navigate(PageHome), true
	case "p":
		return m.navigate(PageProjects), true
	case "i":
		return m.navigate(PageInvitations), true
	case "c":
		return m.navigate(PageChat), true
	case "up":
		m.scroll.ScrollBy(-1)
		return nil, true
	case "down":
		m.scroll.ScrollBy(1)
		return nil, true
	case "pgup":
		m.scroll.ScrollBy(float64(-m.pageHeight()))
		return nil, true
	case "pgdown":
		m.scroll.ScrollBy(float64(m.pageHeight()))
		return nil, true
	case "home":
		m.scroll.SetTarget(0)
		return nil, true
	}

	return nil, false
}

// navigate starts a transition and schedules the target page's data
// load so it arrives behind the fade.
func (m *Model) navigate(target string) tea.Cmd {
	if m.user == nil && target != PageLogin {
		logging.Debug("ui: not signed in, ignoring navigation to %q", target)
		return nil
	}

	navCmd := m.navigator.Navigate(target)
	if navCmd == nil {
		return nil
	}

	var load tea.Cmd
	switch target {
	case PageHome:
		load = m.dashboardView.Load()
	case PageProjects:
		load = m.projectsView.Load()
	case PageInvitations:
		load = m.invitationsView.Load()
	}

	return tea.Batch(navCmd, load)
}

func (m *Model) handleLogin(msg views.LoggedInMsg) tea.Cmd {
	m.user = msg.User
	m.dashboardView.SetUser(msg.User)
	m.loginView.Update(msg)

	if m.sessionMgr != nil {
		if _, err := m.sessionMgr.Start(msg.User, msg.Token, m.client.BaseURL()); err != nil {
			logging.Warn("ui: could not persist session: %v", err)
		}
	}

	return m.navigate(PageHome)
}

// route delivers a message to the view that owns it. Stream messages go
// to the chat view regardless of what is visible, so a transition can
// never lose an in-flight answer.
func (m *Model) route(msg tea.Msg) tea.Cmd {
	switch msg.(type) {
	case chat.ChunkMsg, chat.DoneMsg, chat.CancelledMsg, chat.ErrMsg:
		return m.chatView.Update(msg)

	case views.ProjectsLoadedMsg:
		return tea.Batch(m.projectsView.Update(msg), m.dashboardView.Update(msg))

	case views.ProjectLoadedMsg:
		return m.projectView.Update(msg)

	case views.InvitationsLoadedMsg, views.GuideRequestsLoadedMsg:
		return m.invitationsView.Update(msg)

	case views.StatsLoadedMsg:
		return m.dashboardView.Update(msg)

	case views.StatusMsg:
		return tea.Batch(m.projectView.Update(msg), m.invitationsView.Update(msg))
	}

	return m.viewFor(m.navigator.Visible()).Update(msg)
}

// pageView is the shared surface of all page views.
type pageView interface {
	Update(tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
}

func (m *Model) viewFor(page string) pageView {
	switch page {
	case PageLogin:
		return m.loginView
	case PageProjects:
		return m.projectsView
	case PageProject:
		return m.projectView
	case PageInvitations:
		return m.invitationsView
	case PageChat:
		return m.chatView
	default:
		return m.dashboardView
	}
}

func (m *Model) sizable() []pageView {
	return []pageView{
		m.loginView, m.dashboardView, m.projectsView,
		m.projectView, m.invitationsView, m.chatView,
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.sized {
		return "Loading..."
	}

	content := m.viewFor(m.navigator.Visible()).View()
	content = m.applyScroll(content)

	if m.navigator.Dimmed() {
		content = m.styles.Dimmed.Render(content)
	}

	var parts []string
	if !m.scroll.HeaderHidden() {
		parts = append(parts, m.styles.Header.Render("ProjectHub"))
	}
	parts = append(parts, content, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// applyScroll slices the page content at the interpolated offset. The
// chat and list pages scroll their own viewports, so they are exempt.
func (m *Model) applyScroll(content string) string {
	visible := m.navigator.Visible()
	if visible == PageChat || visible == PageProjects || visible == PageLogin {
		return content
	}

	offset := m.scroll.Offset()
	if offset <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	if offset >= len(lines) {
		offset = len(lines) - 1
	}
	return strings.Join(lines[offset:], "\n")
}

func (m *Model) renderFooter() string {
	var links []string
	labels := map[string]string{
		PageHome:        "Home",
		PageProjects:    "Projects",
		PageInvitations: "Invitations",
		PageChat:        "Assistant",
	}
	for _, page := range []string{PageHome, PageProjects, PageInvitations, PageChat} {
		label := labels[page]
		if page == m.navigator.Current() {
			links = append(links, m.styles.NavActive.Render(label))
		} else {
			links = append(links, m.styles.NavLink.Render(label))
		}
	}

	footer := strings.Join(links, "  ")
	if m.navigator.BackVisible() {
		footer += m.styles.NavLink.Render("   [Esc Back]")
	}
	return m.styles.Footer.Render(footer)
}

// pageHeight is the rows left for page content under the header and
// above the footer.
func (m *Model) pageHeight() int {
	h := m.height - 4
	if h < 4 {
		h = 4
	}
	return h
}

// measureContent returns the visible page's rendered height.
func (m *Model) measureContent() int {
	return lipgloss.Height(m.viewFor(m.navigator.Visible()).View())
}

// syncScroll re-measures the content when a page changed height, so the
// scroll limit tracks the layout without an explicit resize event.
func (m *Model) syncScroll() {
	if !m.sized {
		return
	}
	height := m.measureContent()
	if height != m.lastContent {
		m.lastContent = height
		m.scroll.Resize(height, m.pageHeight())
	}
}
