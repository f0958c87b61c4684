package admin

import (
	"strings"

	"portfolio/models"
)

// Form is the project editor's input state. RawTags is comma-separated.
type Form struct {
	Title       string
	Description string
	RawTags     string
	Status      models.ProjectStatus
	GithubURL   string
	LiveURL     string
	Image       string
	Featured    bool
}

func EmptyForm() Form {
	return Form{Status: models.StatusInProgress}
}

// FormFromProject fills a form for editing p.
func FormFromProject(p models.Project) Form {
	return Form{
		Title:       p.Title,
		Description: p.Description,
		RawTags:     strings.Join(p.Tags, ", "),
		Status:      p.Status,
		GithubURL:   deref(p.GithubURL),
		LiveURL:     deref(p.LiveURL),
		Image:       deref(p.Image),
		Featured:    p.Featured,
	}
}

// Valid requires a title and a description.
func (f Form) Valid() bool {
	return strings.TrimSpace(f.Title) != "" && strings.TrimSpace(f.Description) != ""
}

// Tags splits RawTags on commas, trimming and dropping empties.
func (f Form) Tags() []string {
	tags := []string{}
	for _, t := range strings.Split(f.RawTags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (f Form) status() models.ProjectStatus {
	if f.Status.Valid() {
		return f.Status
	}
	return models.StatusInProgress
}

// Project builds a row from the form. id may be empty.
func (f Form) Project(id string, image *string) models.Project {
	return models.Project{
		ID:          id,
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Tags:        f.Tags(),
		Status:      f.status(),
		GithubURL:   optional(f.GithubURL),
		LiveURL:     optional(f.LiveURL),
		Image:       image,
		Featured:    f.Featured,
	}
}

// Patch sets every form field. A blank URL clears the stored one; a nil
// image leaves it untouched.
func (f Form) Patch(image *string) models.ProjectPatch {
	title := strings.TrimSpace(f.Title)
	description := strings.TrimSpace(f.Description)
	tags := f.Tags()
	status := f.status()
	github := strings.TrimSpace(f.GithubURL)
	live := strings.TrimSpace(f.LiveURL)
	featured := f.Featured
	return models.ProjectPatch{
		Title:       &title,
		Description: &description,
		Tags:        &tags,
		Status:      &status,
		GithubURL:   &github,
		LiveURL:     &live,
		Image:       image,
		Featured:    &featured,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
