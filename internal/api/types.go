package api

import "time"

// JSON shapes consumed from the ProjectHub backend. Field names follow
// the wire contract, which uses camelCase for entity fields and
// snake_case for the token and admin endpoints.

// User is the public user record.
type User struct {
	ID                 string    `json:"_id"`
	FullName           string    `json:"fullName"`
	Email              string    `json:"email"`
	Role               string    `json:"role"` // "Admin", "Teacher", "Student"
	RegistrationNumber string    `json:"registrationNumber,omitempty"`
	Department         string    `json:"department,omitempty"`
	SecurityQuestion   string    `json:"securityQuestion,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the account creation payload.
type SignupRequest struct {
	FullName           string `json:"fullName"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Password           string `json:"password"`
	Department         string `json:"department,omitempty"`
	SecurityQuestion   string `json:"securityQuestion,omitempty"`
	SecurityAnswer     string `json:"securityAnswer,omitempty"`
}

// ResetPasswordRequest is the security-question password reset payload.
type ResetPasswordRequest struct {
	Email            string `json:"email"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
	NewPassword      string `json:"newPassword"`
}

// UpdateUserRequest carries personal profile updates.
type UpdateUserRequest struct {
	FullName           string `json:"fullName"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Department         string `json:"department,omitempty"`
}

// Milestone is one of a project's four fixed milestones.
type Milestone struct {
	Name   string `json:"name"`
	Status string `json:"status"` // not_started, in_progress, completed
	Order  int    `json:"order"`
}

// TeamMember is a member entry on a project.
type TeamMember struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Role     string `json:"role,omitempty"`
}

// Project is the project record.
type Project struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CourseCode  string       `json:"courseCode"`
	OwnerID     string       `json:"ownerId"`
	OwnerName   string       `json:"ownerName"`
	Department  string       `json:"department"`
	Status      string       `json:"status"`
	TeamMembers []TeamMember `json:"teamMembers"`
	GuideID     string       `json:"guideId,omitempty"`
	GuideName   string       `json:"guideName,omitempty"`
	Milestones  []Milestone  `json:"milestones"`
	Progress    int          `json:"progress"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CreateProjectRequest is the project creation payload.
type CreateProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CourseCode  string     `json:"courseCode"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateProjectRequest carries optional project field updates.
type UpdateProjectRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// UpdateMilestoneRequest advances one milestone by order.
type UpdateMilestoneRequest struct {
	MilestoneOrder int    `json:"milestoneOrder"`
	Status         string `json:"status"`
}

// TeamInvitation is a pending or resolved team invite.
type TeamInvitation struct {
	ID          string     `json:"_id"`
	ProjectID   string     `json:"projectId"`
	ProjectName string     `json:"projectName"`
	InviterID   string     `json:"inviterId"`
	InviterName string     `json:"inviterName"`
	InviteeID   string     `json:"inviteeId"`
	InviteeName string     `json:"inviteeName"`
	Status      string     `json:"status"` // pending, accepted, declined
	CreatedAt   time.Time  `json:"createdAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

// GuideRequest is a teacher's offer to guide a project.
type GuideRequest struct {
	ID            string     `json:"_id"`
	ProjectID     string     `json:"projectId"`
	ProjectName   string     `json:"projectName"`
	TeacherID     string     `json:"teacherId"`
	TeacherName   string     `json:"teacherName"`
	OwnerID       string     `json:"ownerId"`
	OwnerName     string     `json:"ownerName"`
	Status        string     `json:"status"`
	DeclineReason string     `json:"declineReason,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
}

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	TotalUsers         int `json:"total_users"`
	TotalProjects      int `json:"total_projects"`
	TotalStudents      int `json:"total_students"`
	TotalTeachers      int `json:"total_teachers"`
	ProjectsCompleted  int `json:"projects_completed"`
	ProjectsInProgress int `json:"projects_in_progress"`
	ProjectsPlanning   int `json:"projects_planning"`
	ActiveStudents     int `json:"active_students"`
	ActiveTeachers     int `json:"active_teachers"`
	GuidesCount        int `json:"guides_count"`
}

// ChatRequest is the assistant query payload.
type ChatRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode"` // "chat" or "rag"
}
