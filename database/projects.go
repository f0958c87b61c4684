package database

import (
	"context"
	"fmt"
	"time"

	"portfolio/models"

	"go.uber.org/zap"
)

const projectColumns = `id, title, description, tags, status, github_url, live_url, image, featured, created_at`

// ListProjects returns every project, newest first.
func (db *DB) ListProjects(ctx context.Context) ([]models.Project, error) {
	defer db.timed("ListProjects", time.Now())

	rows, err := db.Pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, wrap("list projects", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (db *DB) GetProject(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE id = $1
	`

	project, err := scanProject(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrap("get project", err)
	}
	return project, nil
}

// CreateProject inserts p. An empty p.ID lets the database assign one; an
// explicit id that already exists overwrites that row, so importing the
// same snapshot twice leaves one copy of each project.
func (db *DB) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	defer db.timed("CreateProject", time.Now(), zap.String("id", p.ID))

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	status := p.Status
	if status == "" {
		status = models.StatusInProgress
	}

	query := `
		INSERT INTO projects (id, title, description, tags, status, github_url, live_url, image, featured)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			tags = EXCLUDED.tags,
			status = EXCLUDED.status,
			github_url = EXCLUDED.github_url,
			live_url = EXCLUDED.live_url,
			image = EXCLUDED.image,
			featured = EXCLUDED.featured
		RETURNING ` + projectColumns

	created, err := scanProject(db.Pool.QueryRow(ctx, query,
		p.ID, p.Title, p.Description, tags, string(status),
		p.GithubURL, p.LiveURL, p.Image, p.Featured,
	))
	if err != nil {
		return nil, wrap("create project", err)
	}

	db.log.Info("Created project", zap.String("id", created.ID), zap.String("title", created.Title))
	return created, nil
}

// UpdateProject writes only the fields set in patch. An empty patch is a
// lookup that still reports ErrNotFound for unknown ids.
func (db *DB) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	defer db.timed("UpdateProject", time.Now(), zap.String("id", id))

	ub := NewUpdateBuilder()
	if patch.Title != nil {
		ub.Set(columnTitle, *patch.Title)
	}
	if patch.Description != nil {
		ub.Set(columnDescription, *patch.Description)
	}
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		ub.Set(columnTags, tags)
	}
	if patch.Status != nil {
		ub.Set(columnStatus, string(*patch.Status))
	}
	if patch.GithubURL != nil {
		ub.Set(columnGithubURL, nullIfEmpty(*patch.GithubURL))
	}
	if patch.LiveURL != nil {
		ub.Set(columnLiveURL, nullIfEmpty(*patch.LiveURL))
	}
	if patch.Image != nil {
		ub.Set(columnImage, nullIfEmpty(*patch.Image))
	}
	if patch.Featured != nil {
		ub.Set(columnFeatured, *patch.Featured)
	}

	if ub.Len() == 0 {
		return db.GetProject(ctx, id)
	}

	// SAFETY: column names come from the constants above; values are
	// parameterized.
	query := fmt.Sprintf(`
		UPDATE projects
		%s
		WHERE %s = $%d
		RETURNING %s
	`, ub.SetClause(), columnID, ub.NextArgNum(), projectColumns)

	args := append(ub.Args(), id)
	updated, err := scanProject(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrap("update project", err)
	}

	db.log.Info("Updated project", zap.String("id", id), zap.Int("fields", ub.Len()))
	return updated, nil
}

func (db *DB) DeleteProject(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := db.Pool.Exec(ctx, query, id)
	if err != nil {
		return wrap("delete project", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete project %s: %w", id, ErrNotFound)
	}

	db.log.Info("Deleted project", zap.String("id", id))
	return nil
}

// Helper functions

// nullIfEmpty stores an explicitly cleared optional URL as NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var project models.Project
	var status string
	err := row.Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.Tags,
		&status,
		&project.GithubURL,
		&project.LiveURL,
		&project.Image,
		&project.Featured,
		&project.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	project.Status = models.ProjectStatus(status)
	if project.Tags == nil {
		project.Tags = []string{}
	}
	return &project, nil
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanProjects(rows rowsScanner) ([]models.Project, error) {
	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, wrap("scan project", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("iterate projects", err)
	}

	return projects, nil
}
