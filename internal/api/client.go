package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx response from the backend. Detail carries the
// backend's human-readable `detail` field when the error body parsed;
// otherwise it is empty and the status speaks for itself.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Client is a typed HTTP client for the ProjectHub REST API. All
// persistence, authentication, and retrieval logic live behind this API;
// the client only shapes requests and decodes responses.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken attaches a bearer token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs a JSON request and decodes the response into out (when out
// is non-nil). Non-2xx responses become *APIError; a malformed error
// body is swallowed and the status alone is reported.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}

// --- Auth ---

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	var token Token
	if err := c.do(ctx, http.MethodPost, "/login", LoginRequest{Email: email, Password: password}, &token); err != nil {
		return nil, err
	}
	c.token = token.AccessToken
	return &token, nil
}

// Signup creates an account and returns the public user record.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/signup", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResetPassword resets a password through the security-question flow.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/reset-password", req, nil)
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe updates the authenticated user's personal details and
// returns the updated record.
func (c *Client) UpdateMe(ctx context.Context, req UpdateUserRequest) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/users/me", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Projects ---

// ListProjects lists the projects visible to the current user, optionally
// filtered by status.
func (c *Client) ListProjects(ctx context.Context, statusFilter string) ([]Project, error) {
	path := "/projects"
	if statusFilter != "" {
		path += "?status=" + url.QueryEscape(statusFilter)
	}
	var projects []Project
	if err := c.do(ctx, http.MethodGet, path, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// UnassignedProjects lists projects without a guide, for teachers.
func (c *Client) UnassignedProjects(ctx context.Context, department string) ([]Project, error) {
	path := "/projects/unassigned"
	if department != "" {
		path += "?department=" + url.QueryEscape(department)
	}
	var projects []Project
	if err := c.do(ctx, http.MethodGet, path, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches one project.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+id, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project. The backend seeds the four fixed
// milestones.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodPost, "/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject applies partial project updates.
func (c *Client) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodPut, "/projects/"+id, req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+id, nil, nil)
}

// UpdateMilestone advances one milestone and returns the updated project.
func (c *Client) UpdateMilestone(ctx context.Context, projectID string, req UpdateMilestoneRequest) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodPut, "/projects/"+projectID+"/milestones", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// SetDeadline sets the project deadline.
func (c *Client) SetDeadline(ctx context.Context, projectID string, deadline time.Time) (*Project, error) {
	var project Project
	payload := map[string]time.Time{"deadline": deadline}
	if err := c.do(ctx, http.MethodPut, "/projects/"+projectID+"/deadline", payload, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// --- Team ---

// InviteTeamMember invites a student by email to join a project team.
func (c *Client) InviteTeamMember(ctx context.Context, projectID, inviteeEmail string) (*TeamInvitation, error) {
	var invitation TeamInvitation
	payload := map[string]string{"inviteeEmail": inviteeEmail}
	if err := c.do(ctx, http.MethodPost, "/projects/"+projectID+"/team/invite", payload, &invitation); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ListTeamInvitations lists invitations. kind is "sent" or "" (received);
// statusFilter defaults to pending on the server.
func (c *Client) ListTeamInvitations(ctx context.Context, kind, statusFilter string) ([]TeamInvitation, error) {
	q := url.Values{}
	if kind != "" {
		q.Set("type", kind)
	}
	if statusFilter != "" {
		q.Set("status", statusFilter)
	}
	path := "/invitations/team"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var invitations []TeamInvitation
	if err := c.do(ctx, http.MethodGet, path, nil, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

// RespondTeamInvitation accepts or declines an invitation.
func (c *Client) RespondTeamInvitation(ctx context.Context, invitationID string, accept bool) (*TeamInvitation, error) {
	var invitation TeamInvitation
	payload := map[string]bool{"accept": accept}
	if err := c.do(ctx, http.MethodPost, "/invitations/team/"+invitationID+"/respond", payload, &invitation); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// RemoveTeamMember removes a member from a project team.
func (c *Client) RemoveTeamMember(ctx context.Context, projectID, userID string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+projectID+"/team/"+userID, nil, nil)
}

// --- Guide requests ---

// SendGuideRequest offers to guide a project (teachers only).
func (c *Client) SendGuideRequest(ctx context.Context, projectID string, deadline *time.Time) (*GuideRequest, error) {
	var request GuideRequest
	payload := map[string]interface{}{}
	if deadline != nil {
		payload["deadline"] = deadline
	}
	if err := c.do(ctx, http.MethodPost, "/projects/"+projectID+"/guide/request", payload, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// ListGuideRequests lists guide requests for the current user.
func (c *Client) ListGuideRequests(ctx context.Context, kind, statusFilter string) ([]GuideRequest, error) {
	q := url.Values{}
	if kind != "" {
		q.Set("type", kind)
	}
	if statusFilter != "" {
		q.Set("status", statusFilter)
	}
	path := "/requests/guide"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var requests []GuideRequest
	if err := c.do(ctx, http.MethodGet, path, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// RespondGuideRequest accepts or declines a guide request, with an
// optional decline reason.
func (c *Client) RespondGuideRequest(ctx context.Context, requestID string, accept bool, declineReason string) (*GuideRequest, error) {
	var request GuideRequest
	payload := map[string]interface{}{"accept": accept}
	if declineReason != "" {
		payload["declineReason"] = declineReason
	}
	if err := c.do(ctx, http.MethodPost, "/requests/guide/"+requestID+"/respond", payload, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// --- Students ---

// SearchStudents searches students by name or registration number.
func (c *Client) SearchStudents(ctx context.Context, query, department string) ([]User, error) {
	q := url.Values{"q": {query}}
	if department != "" {
		q.Set("department", department)
	}
	var students []User
	if err := c.do(ctx, http.MethodGet, "/students/search?"+q.Encode(), nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// --- Admin ---

// GetAdminStats returns platform-wide statistics (admins only).
func (c *Client) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
