package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ciciliostudio/hub/internal/api"
)

const loginTimeout = 15 * time.Second

// LoginView is the sign-in form shown until a session exists.
type LoginView struct {
	client *api.Client

	email    textinput.Model
	password textinput.Model
	focus    int

	submitting bool
	spinner    spinner.Model
	errText    string

	width int

	titleStyle lipgloss.Style
	labelStyle lipgloss.Style
	errStyle   lipgloss.Style
	hintStyle  lipgloss.Style
}

// NewLoginView creates the login form.
func NewLoginView(client *api.Client) *LoginView {
	email := textinput.New()
	email.Placeholder = "you@university.edu"
	email.CharLimit = 128
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128
	password.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &LoginView{
		client:   client,
		email:    email,
		password: password,
		spinner:  sp,

		titleStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B6EA5")).MarginBottom(1),
		labelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")),
		errStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		hintStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// SetSize updates the layout width.
func (v *LoginView) SetSize(width, height int) {
	v.width = width
}

// Update handles form input.
func (v *LoginView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.submitting {
			return nil
		}
		switch msg.String() {
		case "tab", "down":
			v.setFocus(v.focus + 1)
			return nil
		case "shift+tab", "up":
			v.setFocus(v.focus - 1)
			return nil
		case "enter":
			if v.focus == 0 {
				v.setFocus(1)
				return nil
			}
			return v.submit()
		}

	case LoggedInMsg:
		v.submitting = false
		v.password.SetValue("")
		return nil

	case ErrorMsg:
		v.submitting = false
		v.errText = msg.Err.Error()
		return nil

	case spinner.TickMsg:
		if v.submitting {
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(msg)
			return cmd
		}
		return nil
	}

	var cmd tea.Cmd
	if v.focus == 0 {
		v.email, cmd = v.email.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return cmd
}

func (v *LoginView) setFocus(i int) {
	if i < 0 {
		i = 1
	}
	if i > 1 {
		i = 0
	}
	v.focus = i
	if i == 0 {
		v.email.Focus()
		v.password.Blur()
	} else {
		v.email.Blur()
		v.password.Focus()
	}
}

func (v *LoginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.errText = "Email and password are required"
		return nil
	}

	v.submitting = true
	v.errText = ""

	login := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()

		token, err := v.client.Login(ctx, email, password)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		user, err := v.client.Me(ctx)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return LoggedInMsg{User: user, Token: token.AccessToken}
	}

	return tea.Batch(v.spinner.Tick, login)
}

// View renders the form.
func (v *LoginView) View() string {
	var b strings.Builder

	b.WriteString(v.titleStyle.Render("Sign in to ProjectHub"))
	b.WriteString("\n\n")
	b.WriteString(v.labelStyle.Render("Email"))
	b.WriteString("\n")
	b.WriteString(v.email.View())
	b.WriteString("\n\n")
	b.WriteString(v.labelStyle.Render("Password"))
	b.WriteString("\n")
	b.WriteString(v.password.View())
	b.WriteString("\n\n")

	if v.submitting {
		b.WriteString(v.spinner.View() + " Signing in...")
	} else if v.errText != "" {
		b.WriteString(v.errStyle.Render(v.errText))
	} else {
		b.WriteString(v.hintStyle.Render("[Tab Switch field] [Enter Sign in]"))
	}

	return b.String()
}
