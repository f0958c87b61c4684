package content

import (
	"context"
	"errors"
	"sync"

	"portfolio/events"
	"portfolio/gateway"
	"portfolio/logger"
	"portfolio/models"

	"go.uber.org/zap"
)

// Source names where the rendered project list came from.
type Source string

const (
	SourceFallback Source = "fallback"
	SourceRemote   Source = "remote"
)

// SchemaHint is shown while the projects table does not exist.
const SchemaHint = "The projects table is missing. Run `migrate` against the database, then reload."

// ProjectsFetcher is the part of the gateway the view needs.
type ProjectsFetcher interface {
	FetchProjects(ctx context.Context) gateway.ProjectsResult
}

// ProjectsView selects between remote rows and the fallback snapshot, never
// mixing the two. Once a remote row has been seen the view stays remote for
// its lifetime.
type ProjectsView struct {
	gw       ProjectsFetcher
	fallback []models.Project
	log      *zap.Logger

	mu       sync.RWMutex
	projects []models.Project
	source   Source
	hint     string

	unsubscribe func()
}

// NewProjectsView starts on the fallback list and re-fetches on every
// ProjectsUpdated event. bus may be nil.
func NewProjectsView(gw ProjectsFetcher, fallback []models.Project, bus events.Subscriber, l *zap.Logger) *ProjectsView {
	v := &ProjectsView{
		gw:       gw,
		fallback: cloneProjects(fallback),
		log:      logger.Module(l, "content"),
		projects: cloneProjects(fallback),
		source:   SourceFallback,
	}
	if bus != nil {
		v.unsubscribe = bus.Subscribe(events.ProjectsUpdated, func(ctx context.Context, _ events.Name) {
			v.Refresh(ctx)
		})
	}
	return v
}

// Refresh fetches once and applies the selection rule: any remote rows
// replace the fallback wholesale, an empty table shows the fallback.
func (v *ProjectsView) Refresh(ctx context.Context) {
	res := v.gw.FetchProjects(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case errors.Is(res.Err, gateway.ErrNotConfigured):
		v.projects, v.source, v.hint = cloneProjects(v.fallback), SourceFallback, ""
	case res.Err != nil:
		if res.SchemaMissing() {
			v.hint = SchemaHint
		}
		v.log.Warn("Keeping current projects after fetch error", zap.String("source", string(v.source)), zap.Error(res.Err))
	case len(res.Rows) > 0:
		v.projects, v.source, v.hint = cloneProjects(res.Rows), SourceRemote, ""
	default:
		v.projects, v.source, v.hint = cloneProjects(v.fallback), SourceFallback, ""
	}
}

// Projects returns a snapshot of the current list.
func (v *ProjectsView) Projects() []models.Project {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneProjects(v.projects)
}

func (v *ProjectsView) Source() Source {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.source
}

// Hint is the remediation text for a missing schema, "" otherwise.
func (v *ProjectsView) Hint() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.hint
}

// FromFallback reports whether id is only known from the fallback snapshot
// in the current list.
func (v *ProjectsView) FromFallback(id string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.source != SourceFallback {
		return false
	}
	for _, p := range v.projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Close stops listening for refresh events.
func (v *ProjectsView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}
