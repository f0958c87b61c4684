package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio/content"
	"portfolio/events"
	"portfolio/gateway"
	"portfolio/gateway/gatewaytest"
	"portfolio/localstore"
	"portfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(texts ...string) []models.StatusItem {
	out := []models.StatusItem{}
	for _, t := range texts {
		out = append(out, models.StatusItem{Text: t})
	}
	return out
}

func TestCleanStatus(t *testing.T) {
	assert.Equal(t, items("a"), CleanStatus(items("", "a", "  ")))
	assert.Equal(t, items("b"), CleanStatus(items("  b  ")))
	assert.Equal(t, items(), CleanStatus(nil))
}

func TestStatusEditor_SaveFiltersBlankEntries(t *testing.T) {
	store := gatewaytest.NewStore()
	bus := events.NewBus()
	emitted := 0
	bus.Subscribe(events.StatusUpdated, func(ctx context.Context, name events.Name) { emitted++ })
	ctx := context.Background()

	e := NewStatusEditor(gateway.New(store, nil, nil), nil, bus, nil)
	e.Load(ctx)
	e.Add()
	e.Add()
	e.Add()
	e.Update(1, "a")
	e.Update(2, "  ")

	require.True(t, e.Save(ctx))

	persisted, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, items("a"), persisted)
	assert.Equal(t, items("a"), e.Items())
	assert.Equal(t, 1, emitted)
	assert.Equal(t, SavedNotice, e.Notice())
}

func TestStatusEditor_AddRemoveUpdate(t *testing.T) {
	store := gatewaytest.NewStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertStatus(ctx, items("one", "two", "three")))

	e := NewStatusEditor(gateway.New(store, nil, nil), nil, nil, nil)
	e.Load(ctx)
	e.Remove(1)
	e.Remove(10)
	e.Update(0, "first")
	e.Update(-1, "ignored")
	e.Add()

	assert.Equal(t, items("first", "three", ""), e.Items())
}

func TestStatusEditor_SaveFailure(t *testing.T) {
	store := gatewaytest.NewStore()
	store.Fail("UpsertStatus", errors.New("boom"))
	bus := events.NewBus()
	emitted := 0
	bus.Subscribe(events.StatusUpdated, func(ctx context.Context, name events.Name) { emitted++ })
	ctx := context.Background()

	e := NewStatusEditor(gateway.New(store, nil, nil), nil, bus, nil)
	e.Add()
	e.Update(0, "x")

	assert.False(t, e.Save(ctx))
	assert.Equal(t, 0, emitted)
	assert.Equal(t, FailedSaveNotice, e.Notice())
	assert.Equal(t, items("x"), e.Items(), "working list kept on failure")
}

func TestStatusEditor_LocalWhenUnconfigured(t *testing.T) {
	kv := localstore.NewMemory()
	ctx := context.Background()

	e := NewStatusEditor(gateway.New(nil, nil, nil), kv, nil, nil)
	e.Load(ctx)
	assert.Equal(t, content.DefaultStatus, e.Items())

	e.Update(0, "")
	require.True(t, e.Save(ctx))

	local, ok, err := content.LoadLocalStatus(kv)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, content.DefaultStatus[1:], local)
}

func TestStatusEditor_UnconfiguredWithoutLocalStore(t *testing.T) {
	e := NewStatusEditor(gateway.New(nil, nil, nil), nil, nil, nil)
	e.Add()
	e.Update(0, "x")
	assert.False(t, e.Save(context.Background()))
}

func TestNotice_Expires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := notice{now: func() time.Time { return now }}

	assert.Empty(t, n.get())

	n.saved()
	assert.Equal(t, SavedNotice, n.get())
	now = now.Add(1999 * time.Millisecond)
	assert.Equal(t, SavedNotice, n.get())
	now = now.Add(time.Millisecond)
	assert.Empty(t, n.get())

	n.failed()
	now = now.Add(2500 * time.Millisecond)
	assert.Equal(t, FailedSaveNotice, n.get())
	now = now.Add(500 * time.Millisecond)
	assert.Empty(t, n.get())
}
