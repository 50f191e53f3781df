package views

import (
	"github.com/ciciliostudio/hub/internal/api"
)

// Message types used by views

// NavigateMsg asks the root model to transition to another page.
type NavigateMsg struct {
	Target string
}

// BackMsg asks the root model to pop the navigation history.
type BackMsg struct{}

// LoggedInMsg reports a completed sign-in.
type LoggedInMsg struct {
	User  *api.User
	Token string
}

// LoggedOutMsg reports the session ended.
type LoggedOutMsg struct{}

// ProjectsLoadedMsg delivers the project list.
type ProjectsLoadedMsg struct {
	Projects []api.Project
}

// ProjectLoadedMsg delivers one project for the detail page.
type ProjectLoadedMsg struct {
	Project *api.Project
}

// InvitationsLoadedMsg delivers team invitations.
type InvitationsLoadedMsg struct {
	Received []api.TeamInvitation
	Sent     []api.TeamInvitation
}

// GuideRequestsLoadedMsg delivers guide requests.
type GuideRequestsLoadedMsg struct {
	Requests []api.GuideRequest
}

// StatsLoadedMsg delivers the admin dashboard numbers.
type StatsLoadedMsg struct {
	Stats *api.AdminStats
}

// StatusMsg shows a transient confirmation line.
type StatusMsg struct {
	Text string
}

// ErrorMsg surfaces a failed backend call.
type ErrorMsg struct {
	Err error
}
