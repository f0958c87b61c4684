// Package gateway is the single seam between the application and the
// remote data service. Every operation fails soft: errors are logged and
// turned into sentinel returns, never handed to the caller.
package gateway

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"portfolio/database"
	"portfolio/logger"
	"portfolio/models"

	"go.uber.org/zap"
)

// ErrNotConfigured marks results produced while no remote store is set up.
var ErrNotConfigured = errors.New("remote data service not configured")

// Store is the remote data service. *database.DB implements it.
type Store interface {
	RecentMessages(ctx context.Context, limit int) ([]models.ChatMessage, error)
	InsertMessage(ctx context.Context, username, text string) (*models.ChatMessage, error)
	ListenMessages(ctx context.Context, fn func(models.ChatMessage)) error
	GetStatus(ctx context.Context) ([]models.StatusItem, error)
	UpsertStatus(ctx context.Context, items []models.StatusItem) error
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// ObjectStore holds uploaded project images. *storage.Bucket implements it.
type ObjectStore interface {
	Put(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ProjectsResult separates "no rows" from "query failed".
type ProjectsResult struct {
	Rows []models.Project
	Err  error
}

// SchemaMissing reports whether the projects table does not exist yet.
func (r ProjectsResult) SchemaMissing() bool {
	return errors.Is(r.Err, database.ErrSchemaMissing)
}

type Gateway struct {
	store       Store
	objects     ObjectStore
	log         *zap.Logger
	resubscribe time.Duration
	hub         *messageHub
}

// New builds a gateway. A nil store leaves every operation a no-op; pass
// an untyped nil rather than a nil *database.DB.
func New(store Store, objects ObjectStore, l *zap.Logger) *Gateway {
	g := &Gateway{
		store:       store,
		objects:     objects,
		log:         logger.Module(l, "gateway"),
		resubscribe: 2 * time.Second,
	}
	g.hub = newMessageHub(g)
	return g
}

// Configured reports whether a remote store is attached.
func (g *Gateway) Configured() bool {
	return g != nil && g.store != nil
}

// FetchMessages returns the most recent messages in ascending order.
func (g *Gateway) FetchMessages(ctx context.Context) []models.ChatMessage {
	if !g.Configured() {
		return []models.ChatMessage{}
	}
	msgs, err := g.store.RecentMessages(ctx, models.TranscriptSize)
	if err != nil {
		g.log.Error("fetchMessages failed", zap.Error(err))
		return []models.ChatMessage{}
	}
	return msgs
}

// SendMessage stores a chat message, trimmed and capped at
// MaxMessageLength runes.
func (g *Gateway) SendMessage(ctx context.Context, username, text string) bool {
	if !g.Configured() {
		return false
	}
	text = TruncateMessage(text)
	if text == "" || strings.TrimSpace(username) == "" {
		g.log.Warn("sendMessage rejected: empty username or message")
		return false
	}
	if _, err := g.store.InsertMessage(ctx, username, text); err != nil {
		g.log.Error("sendMessage failed", zap.Error(err), zap.String("username", username))
		return false
	}
	return true
}

// SubscribeMessages delivers every message inserted while the subscription
// is live. It returns nil when the gateway is not configured; otherwise the
// returned func stops the subscription and waits for it to wind down. All
// subscriptions share one listener, which is reopened when dropped, so
// callers must dedupe by id.
func (g *Gateway) SubscribeMessages(onInsert func(models.ChatMessage)) func() {
	if !g.Configured() {
		return nil
	}

	s := g.hub.register(onInsert)
	var once sync.Once
	return func() {
		once.Do(func() { g.hub.unregister(s) })
	}
}

// FetchStatus returns the global status list, empty on any failure.
func (g *Gateway) FetchStatus(ctx context.Context) []models.StatusItem {
	if !g.Configured() {
		return []models.StatusItem{}
	}
	items, err := g.store.GetStatus(ctx)
	if err != nil {
		g.log.Error("fetchStatus failed", zap.Error(err))
		return []models.StatusItem{}
	}
	return items
}

// SaveStatus replaces the global status list.
func (g *Gateway) SaveStatus(ctx context.Context, items []models.StatusItem) bool {
	if !g.Configured() {
		return false
	}
	if err := g.store.UpsertStatus(ctx, items); err != nil {
		g.log.Error("saveStatus failed", zap.Error(err), zap.Int("items", len(items)))
		return false
	}
	return true
}

// FetchProjects returns the projects table, newest first.
func (g *Gateway) FetchProjects(ctx context.Context) ProjectsResult {
	if !g.Configured() {
		return ProjectsResult{Rows: []models.Project{}, Err: ErrNotConfigured}
	}
	rows, err := g.store.ListProjects(ctx)
	if err != nil {
		g.log.Error("fetchProjects failed", zap.Error(err))
		return ProjectsResult{Rows: []models.Project{}, Err: err}
	}
	return ProjectsResult{Rows: rows}
}

// CreateProject inserts p and returns the stored row, or nil on failure.
func (g *Gateway) CreateProject(ctx context.Context, p models.Project) *models.Project {
	if !g.Configured() {
		return nil
	}
	created, err := g.store.CreateProject(ctx, p)
	if err != nil {
		g.log.Error("createProject failed", zap.Error(err), zap.String("title", p.Title))
		return nil
	}
	return created
}

// UpdateProject writes the non-nil fields of patch to project id.
func (g *Gateway) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) bool {
	if !g.Configured() {
		return false
	}
	if _, err := g.store.UpdateProject(ctx, id, patch); err != nil {
		g.log.Error("updateProject failed", zap.Error(err), zap.String("id", id))
		return false
	}
	return true
}

func (g *Gateway) DeleteProject(ctx context.Context, id string) bool {
	if !g.Configured() {
		return false
	}
	if err := g.store.DeleteProject(ctx, id); err != nil {
		g.log.Error("deleteProject failed", zap.Error(err), zap.String("id", id))
		return false
	}
	return true
}

// UploadProjectImage stores an image under a generated name and returns
// its public URL, or "" on failure.
func (g *Gateway) UploadProjectImage(ctx context.Context, filename string, r io.Reader) string {
	if !g.Configured() || g.objects == nil {
		return ""
	}
	url, err := g.objects.Put(ctx, filename, r)
	if err != nil {
		g.log.Error("uploadProjectImage failed", zap.Error(err), zap.String("filename", filename))
		return ""
	}
	return url
}

// TruncateMessage trims text and caps it at MaxMessageLength runes.
func TruncateMessage(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= models.MaxMessageLength {
		return text
	}
	return string([]rune(text)[:models.MaxMessageLength])
}
