package admin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"portfolio/content"
	"portfolio/events"
	"portfolio/gateway"
	"portfolio/gateway/gatewaytest"
	"portfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type editorFixture struct {
	editor  *ProjectEditor
	store   *gatewaytest.Store
	objects *gatewaytest.Objects
	emitted *int
}

func newEditor(t *testing.T) editorFixture {
	t.Helper()
	store := gatewaytest.NewStore()
	objects := gatewaytest.NewObjects()
	bus := events.NewBus()
	emitted := 0
	bus.Subscribe(events.ProjectsUpdated, func(ctx context.Context, name events.Name) { emitted++ })

	e := NewProjectEditor(gateway.New(store, objects, nil), content.Fallback(), bus, nil)
	return editorFixture{editor: e, store: store, objects: objects, emitted: &emitted}
}

func strPtr(s string) *string { return &s }

func TestProjectEditor_Create(t *testing.T) {
	fx := newEditor(t)
	ctx := context.Background()

	fx.editor.SetForm(Form{Title: "New", Description: "Thing", RawTags: "Go, gin", Status: models.StatusPlanned})
	require.True(t, fx.editor.Submit(ctx))

	list := fx.editor.Projects()
	require.Len(t, list, 1)
	assert.Equal(t, "New", list[0].Title)
	assert.Equal(t, []string{"Go", "gin"}, list[0].Tags)
	assert.Equal(t, models.StatusPlanned, list[0].Status)
	assert.Equal(t, EmptyForm(), fx.editor.Form())
	assert.Equal(t, 1, *fx.emitted)
	assert.Equal(t, SavedNotice, fx.editor.Notice())
}

func TestProjectEditor_InvalidFormDoesNothing(t *testing.T) {
	fx := newEditor(t)

	fx.editor.SetForm(Form{Title: "only title"})
	assert.False(t, fx.editor.Submit(context.Background()))
	assert.Empty(t, fx.editor.Projects())
	assert.Equal(t, 0, *fx.emitted)
}

func TestProjectEditor_UpdateKeepsImageWithoutNewFile(t *testing.T) {
	fx := newEditor(t)
	ctx := context.Background()
	created, err := fx.store.CreateProject(ctx, models.Project{
		Title: "Old", Description: "Desc", Image: strPtr("http://img/old.png"), Featured: true,
	})
	require.NoError(t, err)

	fx.editor.Load(ctx)
	fx.editor.StartEdit(*created, false)
	form := fx.editor.Form()
	form.Title = "Renamed"
	fx.editor.SetForm(form)
	require.True(t, fx.editor.Submit(ctx))

	stored, ok := fx.store.Project(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, "Desc", stored.Description)
	assert.Equal(t, "http://img/old.png", *stored.Image)
	assert.True(t, stored.Featured)
	_, editing := fx.editor.Editing()
	assert.False(t, editing)
}

func TestProjectEditor_UpdateWithNewImage(t *testing.T) {
	fx := newEditor(t)
	ctx := context.Background()
	created, err := fx.store.CreateProject(ctx, models.Project{Title: "P", Description: "D"})
	require.NoError(t, err)

	fx.editor.StartEdit(*created, false)
	fx.editor.SetImage("shot.PNG", strings.NewReader("png-bytes"))
	require.True(t, fx.editor.Submit(ctx))

	stored, _ := fx.store.Project(created.ID)
	require.NotNil(t, stored.Image)
	assert.Equal(t, []byte("png-bytes"), fx.objects.Stored[*stored.Image])
}

func TestProjectEditor_UploadFailureAbortsSave(t *testing.T) {
	fx := newEditor(t)
	fx.objects.Err = errors.New("bucket offline")

	fx.editor.SetForm(Form{Title: "T", Description: "D"})
	fx.editor.SetImage("a.png", strings.NewReader("x"))

	assert.False(t, fx.editor.Submit(context.Background()))
	assert.Equal(t, FailedSaveNotice, fx.editor.Notice())
	assert.Equal(t, "T", fx.editor.Form().Title, "form kept for retry")
}

func TestProjectEditor_EditFallbackRowImportsSnapshot(t *testing.T) {
	fx := newEditor(t)
	ctx := context.Background()
	fallback := content.Fallback()
	edited := fallback[1]

	fx.editor.StartEdit(edited, true)
	form := fx.editor.Form()
	form.Description = "Edited before import"
	fx.editor.SetForm(form)
	require.True(t, fx.editor.Submit(ctx))

	assert.Len(t, fx.editor.Projects(), len(fallback))
	for _, p := range fallback {
		stored, ok := fx.store.Project(p.ID)
		require.True(t, ok, p.ID)
		if p.ID == edited.ID {
			assert.Equal(t, "Edited before import", stored.Description)
		} else {
			assert.Equal(t, p.Description, stored.Description)
		}
	}
	assert.Equal(t, 1, *fx.emitted)
}

func TestProjectEditor_Delete(t *testing.T) {
	fx := newEditor(t)
	ctx := context.Background()
	created, err := fx.store.CreateProject(ctx, models.Project{Title: "P", Description: "D"})
	require.NoError(t, err)
	fx.editor.Load(ctx)

	assert.False(t, fx.editor.Delete(ctx, created.ID, func() bool { return false }))
	_, ok := fx.store.Project(created.ID)
	assert.True(t, ok, "declined confirmation keeps the row")

	assert.True(t, fx.editor.Delete(ctx, created.ID, func() bool { return true }))
	_, ok = fx.store.Project(created.ID)
	assert.False(t, ok)
	assert.Empty(t, fx.editor.Projects())
	assert.Equal(t, 1, *fx.emitted)
}

func TestProjectEditor_DeleteEditedRowClearsForm(t *testing.T) {
	fx := newEditor(t)
	ctx := context.Background()
	created, err := fx.store.CreateProject(ctx, models.Project{Title: "P", Description: "D"})
	require.NoError(t, err)
	other, err := fx.store.CreateProject(ctx, models.Project{Title: "Other", Description: "D"})
	require.NoError(t, err)

	fx.editor.StartEdit(*created, false)
	require.True(t, fx.editor.Delete(ctx, other.ID, nil))
	assert.Equal(t, "P", fx.editor.Form().Title, "deleting another row keeps the form")

	require.True(t, fx.editor.Delete(ctx, created.ID, nil))
	assert.Equal(t, EmptyForm(), fx.editor.Form())
	_, editing := fx.editor.Editing()
	assert.False(t, editing)
}

func TestProjectEditor_DeleteFailure(t *testing.T) {
	fx := newEditor(t)
	assert.False(t, fx.editor.Delete(context.Background(), "missing", nil))
	assert.Equal(t, FailedSaveNotice, fx.editor.Notice())
	assert.Equal(t, 0, *fx.emitted)
}

func TestImportFallback_Idempotent(t *testing.T) {
	store := gatewaytest.NewStore()
	gw := gateway.New(store, nil, nil)
	ctx := context.Background()
	fallback := content.Fallback()

	assert.Equal(t, len(fallback), ImportFallback(ctx, gw, fallback, "", nil, nil))
	assert.Equal(t, len(fallback), ImportFallback(ctx, gw, fallback, "", nil, nil))

	rows, err := store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, len(fallback))
}

func TestImportFallback_CountsFailures(t *testing.T) {
	store := gatewaytest.NewStore()
	store.Fail("CreateProject", errors.New("down"))

	n := ImportFallback(context.Background(), gateway.New(store, nil, nil), content.Fallback(), "", nil, nil)
	assert.Equal(t, 0, n)
}
