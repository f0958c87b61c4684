package content

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"portfolio/database"
	"portfolio/events"
	"portfolio/gateway"
	"portfolio/gateway/gatewaytest"
	"portfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(list []models.Project) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestFallback_IsACopy(t *testing.T) {
	a := Fallback()
	require.NotEmpty(t, a)
	a[0].Title = "changed"
	a[0].Tags[0] = "changed"

	b := Fallback()
	assert.NotEqual(t, "changed", b[0].Title)
	assert.NotEqual(t, "changed", b[0].Tags[0])
}

func TestFallback_IDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Fallback() {
		require.NotEmpty(t, p.ID)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.True(t, p.Status.Valid(), p.ID)
	}
}

func TestProjectsView_Unconfigured(t *testing.T) {
	v := NewProjectsView(gateway.New(nil, nil, nil), Fallback(), nil, nil)
	v.Refresh(context.Background())

	assert.Equal(t, SourceFallback, v.Source())
	assert.Equal(t, Fallback(), v.Projects())
	assert.Empty(t, v.Hint())
}

func TestProjectsView_EmptyTableShowsFallbackExactly(t *testing.T) {
	store := gatewaytest.NewStore()
	v := NewProjectsView(gateway.New(store, nil, nil), Fallback(), nil, nil)
	v.Refresh(context.Background())

	assert.Equal(t, SourceFallback, v.Source())
	assert.Equal(t, Fallback(), v.Projects())
}

func TestProjectsView_RemoteRowsReplaceFallback(t *testing.T) {
	store := gatewaytest.NewStore()
	ctx := context.Background()
	created, err := store.CreateProject(ctx, models.Project{Title: "Remote", Description: "only row"})
	require.NoError(t, err)

	v := NewProjectsView(gateway.New(store, nil, nil), Fallback(), nil, nil)
	v.Refresh(ctx)

	assert.Equal(t, SourceRemote, v.Source())
	assert.Equal(t, []models.Project{*created}, v.Projects())
	for _, id := range ids(Fallback()) {
		assert.NotContains(t, ids(v.Projects()), id)
	}
}

func TestProjectsView_EmptiedTableFallsBack(t *testing.T) {
	store := gatewaytest.NewStore()
	ctx := context.Background()
	created, err := store.CreateProject(ctx, models.Project{Title: "Remote", Description: "d"})
	require.NoError(t, err)

	v := NewProjectsView(gateway.New(store, nil, nil), Fallback(), nil, nil)
	v.Refresh(ctx)
	require.Equal(t, SourceRemote, v.Source())
	require.NoError(t, store.DeleteProject(ctx, created.ID))
	v.Refresh(ctx)

	assert.Equal(t, SourceFallback, v.Source())
	assert.Equal(t, Fallback(), v.Projects())

	restarted := NewProjectsView(gateway.New(store, nil, nil), Fallback(), nil, nil)
	restarted.Refresh(ctx)
	assert.Equal(t, v.Projects(), restarted.Projects())
}

func TestProjectsView_FetchErrorKeepsCurrentList(t *testing.T) {
	store := gatewaytest.NewStore()
	ctx := context.Background()
	_, err := store.CreateProject(ctx, models.Project{Title: "Remote", Description: "d"})
	require.NoError(t, err)

	v := NewProjectsView(gateway.New(store, nil, nil), Fallback(), nil, nil)
	v.Refresh(ctx)
	before := v.Projects()

	store.Fail("ListProjects", errors.New("connection reset"))
	v.Refresh(ctx)

	assert.Equal(t, before, v.Projects())
	assert.Equal(t, SourceRemote, v.Source())
	assert.Empty(t, v.Hint())
}

func TestProjectsView_SchemaMissingHint(t *testing.T) {
	store := gatewaytest.NewStore()
	store.Fail("ListProjects", fmt.Errorf("failed to list projects: %w", database.ErrSchemaMissing))

	v := NewProjectsView(gateway.New(store, nil, nil), Fallback(), nil, nil)
	v.Refresh(context.Background())

	assert.Equal(t, SchemaHint, v.Hint())
	assert.Equal(t, SourceFallback, v.Source())
	assert.Equal(t, Fallback(), v.Projects())

	store.Fail("ListProjects", nil)
	v.Refresh(context.Background())
	assert.Empty(t, v.Hint())
}

func TestProjectsView_RefreshesOnEvent(t *testing.T) {
	store := gatewaytest.NewStore()
	bus := events.NewBus()
	ctx := context.Background()

	v := NewProjectsView(gateway.New(store, nil, nil), Fallback(), bus, nil)
	v.Refresh(ctx)
	require.Equal(t, SourceFallback, v.Source())

	_, err := store.CreateProject(ctx, models.Project{Title: "New", Description: "d"})
	require.NoError(t, err)
	bus.Emit(ctx, events.StatusUpdated)
	assert.Equal(t, SourceFallback, v.Source())

	bus.Emit(ctx, events.ProjectsUpdated)
	assert.Equal(t, SourceRemote, v.Source())

	v.Close()
	assert.Equal(t, 0, bus.Len(events.ProjectsUpdated))
}

func TestProjectsView_FromFallback(t *testing.T) {
	store := gatewaytest.NewStore()
	v := NewProjectsView(gateway.New(store, nil, nil), Fallback(), nil, nil)
	v.Refresh(context.Background())

	fb := Fallback()
	assert.True(t, v.FromFallback(fb[0].ID))
	assert.False(t, v.FromFallback("unknown"))
}
