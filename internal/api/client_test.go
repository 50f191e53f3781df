package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresTokenForLaterRequests(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			var req LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ada@example.edu", req.Email)
			json.NewEncoder(w).Encode(Token{AccessToken: "tok-123", TokenType: "bearer"})
		case "/users/me":
			authHeader = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(User{ID: "u-1", Email: "ada@example.edu", Role: "Student"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	token, err := client.Login(context.Background(), "ada@example.edu", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token.AccessToken)

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "Bearer tok-123", authHeader)
}

func TestListProjectsPassesStatusFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/projects", r.URL.Path)
		require.Equal(t, "in_progress", r.URL.Query().Get("status"))
		fmt.Fprint(w, `[{"_id": "p-1", "name": "Compiler", "status": "in_progress", "progress": 50}]`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	projects, err := client.ListProjects(context.Background(), "in_progress")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "p-1", projects[0].ID)
	assert.Equal(t, 50, projects[0].Progress)
}

func TestErrorDetailIsSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"detail": "Only the owner can edit this project"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetProject(context.Background(), "p-1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Only the owner can edit this project", apiErr.Detail)
}

func TestMalformedErrorBodyFallsBackToStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>gateway error</html>")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Me(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Detail)
}

func TestRespondTeamInvitation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/invitations/team/inv-1/respond", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var payload map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.True(t, payload["accept"])

		json.NewEncoder(w).Encode(TeamInvitation{ID: "inv-1", Status: "accepted"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	inv, err := client.RespondTeamInvitation(context.Background(), "inv-1", true)
	require.NoError(t, err)
	assert.Equal(t, "accepted", inv.Status)
}

func TestUpdateMeReturnsUpdatedUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/me", r.URL.Path)
		require.Equal(t, http.MethodPut, r.Method)

		var req UpdateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ada Lovelace", req.FullName)
		assert.Equal(t, "CS-042", req.RegistrationNumber)

		json.NewEncoder(w).Encode(User{
			ID:                 "u-1",
			FullName:           req.FullName,
			RegistrationNumber: req.RegistrationNumber,
			Department:         req.Department,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	user, err := client.UpdateMe(context.Background(), UpdateUserRequest{
		FullName:           "Ada Lovelace",
		RegistrationNumber: "CS-042",
		Department:         "CSE",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.FullName)
	assert.Equal(t, "CSE", user.Department)
}

func TestListGuideRequestsPassesFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/requests/guide", r.URL.Path)
		require.Equal(t, "sent", r.URL.Query().Get("type"))
		require.Equal(t, "pending", r.URL.Query().Get("status"))
		fmt.Fprint(w, `[{"_id": "req-1", "projectName": "Compiler", "status": "pending"}]`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	requests, err := client.ListGuideRequests(context.Background(), "sent", "pending")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "req-1", requests[0].ID)
	assert.Equal(t, "Compiler", requests[0].ProjectName)
}

func TestRespondGuideRequestCarriesDeclineReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/requests/guide/req-1/respond", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, false, payload["accept"])
		assert.Equal(t, "Already guiding four projects", payload["declineReason"])

		json.NewEncoder(w).Encode(GuideRequest{
			ID:            "req-1",
			Status:        "declined",
			DeclineReason: "Already guiding four projects",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	request, err := client.RespondGuideRequest(context.Background(), "req-1", false, "Already guiding four projects")
	require.NoError(t, err)
	assert.Equal(t, "declined", request.Status)
	assert.Equal(t, "Already guiding four projects", request.DeclineReason)
}

func TestUpdateMilestoneReturnsRecomputedProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/projects/p-1/milestones", r.URL.Path)

		var req UpdateMilestoneRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.MilestoneOrder)
		assert.Equal(t, "completed", req.Status)

		json.NewEncoder(w).Encode(Project{ID: "p-1", Progress: 50, Milestones: []Milestone{
			{Name: "Proposal", Status: "completed", Order: 1},
			{Name: "Design", Status: "completed", Order: 2},
			{Name: "Implementation", Status: "not_started", Order: 3},
			{Name: "Final Report", Status: "not_started", Order: 4},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	project, err := client.UpdateMilestone(context.Background(), "p-1", UpdateMilestoneRequest{
		MilestoneOrder: 2,
		Status:         "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, project.Progress)
	require.Len(t, project.Milestones, 4)
	assert.Equal(t, "completed", project.Milestones[1].Status)
}
