package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitRunsHandlersInOrder(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.Subscribe(ProjectsUpdated, func(ctx context.Context, name Name) { calls = append(calls, "first") })
	bus.Subscribe(ProjectsUpdated, func(ctx context.Context, name Name) { calls = append(calls, "second") })
	bus.Subscribe(StatusUpdated, func(ctx context.Context, name Name) { calls = append(calls, "status") })

	bus.Emit(context.Background(), ProjectsUpdated)

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	count := 0

	unsubscribe := bus.Subscribe(StatusUpdated, func(ctx context.Context, name Name) { count++ })
	bus.Emit(context.Background(), StatusUpdated)
	unsubscribe()
	unsubscribe()
	bus.Emit(context.Background(), StatusUpdated)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.Len(StatusUpdated))
}

func TestBus_UnsubscribeKeepsOthers(t *testing.T) {
	bus := NewBus()
	var calls []string

	first := bus.Subscribe(ProjectsUpdated, func(ctx context.Context, name Name) { calls = append(calls, "first") })
	bus.Subscribe(ProjectsUpdated, func(ctx context.Context, name Name) { calls = append(calls, "second") })
	first()

	bus.Emit(context.Background(), ProjectsUpdated)

	assert.Equal(t, []string{"second"}, calls)
}

func TestBus_HandlerMayUnsubscribeDuringEmit(t *testing.T) {
	bus := NewBus()
	count := 0

	var unsubscribe func()
	unsubscribe = bus.Subscribe(ProjectsUpdated, func(ctx context.Context, name Name) {
		count++
		unsubscribe()
	})

	bus.Emit(context.Background(), ProjectsUpdated)
	bus.Emit(context.Background(), ProjectsUpdated)

	assert.Equal(t, 1, count)
}

func TestBus_EmitWithoutHandlers(t *testing.T) {
	assert.NotPanics(t, func() {
		NewBus().Emit(context.Background(), StatusUpdated)
	})
}
