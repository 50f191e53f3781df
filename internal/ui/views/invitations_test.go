package views

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciciliostudio/hub/internal/api"
)

func TestGuideRequestsRenderBelowTeamInvitations(t *testing.T) {
	v := NewInvitationsView(api.NewClient("http://localhost"))

	v.Update(InvitationsLoadedMsg{Received: []api.TeamInvitation{
		{ID: "inv-1", ProjectName: "Compiler", InviterName: "Ada"},
	}})
	v.Update(GuideRequestsLoadedMsg{Requests: []api.GuideRequest{
		{ID: "req-1", ProjectName: "Compiler", TeacherName: "Dr. Hopper"},
	}})

	out := v.View()
	assert.Contains(t, out, "Ada invited you to Compiler")
	assert.Contains(t, out, "Dr. Hopper offered to guide Compiler")
}

func TestRespondTargetsTheEntryUnderTheCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/requests/guide/req-1/respond", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, true, payload["accept"])

		json.NewEncoder(w).Encode(api.GuideRequest{
			ID:          "req-1",
			ProjectName: "Compiler",
			Status:      "accepted",
		})
	}))
	defer server.Close()

	v := NewInvitationsView(api.NewClient(server.URL))
	v.Update(InvitationsLoadedMsg{Received: []api.TeamInvitation{
		{ID: "inv-1", ProjectName: "Compiler", InviterName: "Ada"},
	}})
	v.Update(GuideRequestsLoadedMsg{Requests: []api.GuideRequest{
		{ID: "req-1", ProjectName: "Compiler", TeacherName: "Dr. Hopper"},
	}})

	// Move past the team invitation onto the guide request.
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	require.NotNil(t, cmd)

	msg := cmd()
	status, ok := msg.(StatusMsg)
	require.True(t, ok, "expected a StatusMsg, got %T", msg)
	assert.Equal(t, "Guide request for Compiler accepted", status.Text)
}

func TestCursorResetsWhenListsShrink(t *testing.T) {
	v := NewInvitationsView(api.NewClient("http://localhost"))

	v.Update(InvitationsLoadedMsg{Received: []api.TeamInvitation{
		{ID: "inv-1"}, {ID: "inv-2"},
	}})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, v.cursor)

	v.Update(InvitationsLoadedMsg{Received: []api.TeamInvitation{{ID: "inv-2"}}})
	assert.Equal(t, 0, v.cursor)
}
