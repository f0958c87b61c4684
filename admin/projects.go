package admin

import (
	"context"
	"io"
	"sync"
	"time"

	"portfolio/events"
	"portfolio/gateway"
	"portfolio/logger"
	"portfolio/models"

	"go.uber.org/zap"
)

// ProjectGateway is the part of the gateway the project editor needs.
type ProjectGateway interface {
	FetchProjects(ctx context.Context) gateway.ProjectsResult
	CreateProject(ctx context.Context, p models.Project) *models.Project
	UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) bool
	DeleteProject(ctx context.Context, id string) bool
	UploadProjectImage(ctx context.Context, filename string, r io.Reader) string
}

// ProjectCreator is all ImportFallback needs.
type ProjectCreator interface {
	CreateProject(ctx context.Context, p models.Project) *models.Project
}

type pendingImage struct {
	name string
	r    io.Reader
}

// ProjectEditor drives create, update, import and delete of projects.
type ProjectEditor struct {
	gw       ProjectGateway
	fallback []models.Project
	pub      events.Publisher
	log      *zap.Logger

	mu           sync.Mutex
	projects     []models.Project
	editing      *models.Project
	fromFallback bool
	form         Form
	image        *pendingImage
	notice       notice
}

// NewProjectEditor builds an editor. fallback is the snapshot imported when
// a fallback-only row is edited. pub may be nil.
func NewProjectEditor(gw ProjectGateway, fallback []models.Project, pub events.Publisher, l *zap.Logger) *ProjectEditor {
	return &ProjectEditor{
		gw:       gw,
		fallback: fallback,
		pub:      pub,
		log:      logger.Module(l, "admin"),
		projects: []models.Project{},
		form:     EmptyForm(),
		notice:   notice{now: time.Now},
	}
}

// Load replaces the listed projects with the remote rows.
func (e *ProjectEditor) Load(ctx context.Context) {
	res := e.gw.FetchProjects(ctx)
	e.mu.Lock()
	e.projects = res.Rows
	e.mu.Unlock()
}

func (e *ProjectEditor) Projects() []models.Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Project{}, e.projects...)
}

func (e *ProjectEditor) Form() Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

func (e *ProjectEditor) SetForm(f Form) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.form = f
}

// Editing returns the row being edited, if any.
func (e *ProjectEditor) Editing() (models.Project, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing == nil {
		return models.Project{}, false
	}
	return *e.editing, true
}

// StartEdit loads p into the form. fromFallback marks a row that exists
// only in the bundled snapshot, so saving imports the snapshot.
func (e *ProjectEditor) StartEdit(p models.Project, fromFallback bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editing = &p
	e.fromFallback = fromFallback
	e.form = FormFromProject(p)
	e.image = nil
}

func (e *ProjectEditor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

func (e *ProjectEditor) reset() {
	e.editing = nil
	e.fromFallback = false
	e.form = EmptyForm()
	e.image = nil
}

// SetImage chooses a new image to upload on the next Submit.
func (e *ProjectEditor) SetImage(name string, r io.Reader) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.image = &pendingImage{name: name, r: r}
}

// Submit saves the form: update in place for remote rows, import for
// fallback rows, create otherwise. Without a new image the edited row
// keeps its current one.
func (e *ProjectEditor) Submit(ctx context.Context) bool {
	e.mu.Lock()
	form, image, fromFallback := e.form, e.image, e.fromFallback
	var editing *models.Project
	if e.editing != nil {
		p := *e.editing
		editing = &p
	}
	e.mu.Unlock()

	if !form.Valid() {
		return false
	}

	var imageURL *string
	if editing != nil {
		imageURL = editing.Image
	}
	if image != nil {
		url := e.gw.UploadProjectImage(ctx, image.name, image.r)
		if url == "" {
			e.notice.failed()
			return false
		}
		imageURL = &url
	}

	var ok bool
	switch {
	case editing != nil && fromFallback:
		n := ImportFallback(ctx, e.gw, e.fallback, editing.ID, &form, imageURL)
		ok = n == len(e.fallback)
		if !ok {
			e.log.Warn("Fallback import incomplete", zap.Int("imported", n), zap.Int("total", len(e.fallback)))
		}
	case editing != nil:
		ok = e.gw.UpdateProject(ctx, editing.ID, form.Patch(imageURL))
	default:
		ok = e.gw.CreateProject(ctx, form.Project("", imageURL)) != nil
	}

	if !ok {
		e.notice.failed()
		return false
	}

	e.mu.Lock()
	e.reset()
	e.mu.Unlock()

	e.notice.saved()
	e.Load(ctx)
	if e.pub != nil {
		e.pub.Emit(ctx, events.ProjectsUpdated)
	}
	return true
}

// Delete removes id once confirm agrees. Deleting the row being edited
// clears the form.
func (e *ProjectEditor) Delete(ctx context.Context, id string, confirm func() bool) bool {
	if confirm != nil && !confirm() {
		return false
	}
	if !e.gw.DeleteProject(ctx, id) {
		e.notice.failed()
		return false
	}

	e.mu.Lock()
	if e.editing != nil && e.editing.ID == id {
		e.reset()
	}
	e.mu.Unlock()

	e.Load(ctx)
	if e.pub != nil {
		e.pub.Emit(ctx, events.ProjectsUpdated)
	}
	return true
}

func (e *ProjectEditor) Notice() string {
	return e.notice.get()
}

// ImportFallback writes every fallback row to the remote store under its
// own id, applying form to the row with editedID. It returns how many rows
// were written. Running it again overwrites the same rows.
func ImportFallback(ctx context.Context, gw ProjectCreator, fallback []models.Project, editedID string, form *Form, imageURL *string) int {
	n := 0
	for _, p := range fallback {
		row := p
		if form != nil && p.ID == editedID {
			image := imageURL
			if image == nil {
				image = p.Image
			}
			row = form.Project(p.ID, image)
		}
		if gw.CreateProject(ctx, row) != nil {
			n++
		}
	}
	return n
}
