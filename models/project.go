package models

import "time"

// ProjectStatus is the lifecycle stage shown on a project card.
type ProjectStatus string

const (
	StatusCompleted  ProjectStatus = "completed"
	StatusInProgress ProjectStatus = "in-progress"
	StatusPlanned    ProjectStatus = "planned"
)

// Valid reports whether s is one of the known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusInProgress, StatusPlanned:
		return true
	}
	return false
}

// Project is a portfolio entry. The bundled fallback snapshot uses the
// same shape and ids so it can be imported into the projects table.
type Project struct {
	ID          string        `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Tags        []string      `json:"tags" db:"tags"`
	Status      ProjectStatus `json:"status" db:"status"`
	GithubURL   *string       `json:"github_url,omitempty" db:"github_url"`
	LiveURL     *string       `json:"live_url,omitempty" db:"live_url"`
	Image       *string       `json:"image,omitempty" db:"image"`
	Featured    bool          `json:"featured" db:"featured"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

// ProjectPatch carries the fields of an update. Nil fields are left
// untouched in the stored row.
type ProjectPatch struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Tags        *[]string      `json:"tags,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
	GithubURL   *string        `json:"github_url,omitempty"`
	LiveURL     *string        `json:"live_url,omitempty"`
	Image       *string        `json:"image,omitempty"`
	Featured    *bool          `json:"featured,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p ProjectPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Tags == nil && p.Status == nil &&
		p.GithubURL == nil && p.LiveURL == nil && p.Image == nil && p.Featured == nil
}

// CreateProjectRequest is the payload for creating a project.
// ID is optional; the database generates one when empty.
type CreateProjectRequest struct {
	ID          string        `json:"id"`
	Title       string        `json:"title" binding:"required,max=255"`
	Description string        `json:"description" binding:"required"`
	Tags        []string      `json:"tags"`
	Status      ProjectStatus `json:"status" binding:"omitempty,oneof=completed in-progress planned"`
	GithubURL   *string       `json:"github_url"`
	LiveURL     *string       `json:"live_url"`
	Image       *string       `json:"image"`
	Featured    bool          `json:"featured"`
}

// Project converts the request into a row to insert.
func (r CreateProjectRequest) Project() Project {
	status := r.Status
	if status == "" {
		status = StatusInProgress
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return Project{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Tags:        tags,
		Status:      status,
		GithubURL:   r.GithubURL,
		LiveURL:     r.LiveURL,
		Image:       r.Image,
		Featured:    r.Featured,
	}
}

// ImportProjectsRequest asks for the fallback snapshot to be written to the
// projects table. When EditedID is set, Edit is applied to that row.
type ImportProjectsRequest struct {
	EditedID string                `json:"edited_id"`
	Edit     *CreateProjectRequest `json:"edit"`
}

// ProjectsResponse is the rendered project list.
type ProjectsResponse struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
	Source   string    `json:"source"`
	Tags     []string  `json:"tags"`
	Hint     string    `json:"hint,omitempty"`
}
