// Package events carries the refresh notifications that tell mounted
// views to re-fetch after a successful write.
package events

import (
	"context"
	"sync"
)

// Name identifies a refresh event.
type Name string

const (
	ProjectsUpdated Name = "projects-updated"
	StatusUpdated   Name = "status-updated"
)

// Handler reacts to an event. Handlers run synchronously on the emitting
// goroutine.
type Handler func(ctx context.Context, name Name)

// Publisher is what producers of refresh events depend on.
type Publisher interface {
	Emit(ctx context.Context, name Name)
}

// Subscriber is what consumers of refresh events depend on.
type Subscriber interface {
	Subscribe(name Name, h Handler) (unsubscribe func())
}

// Bus is an in-process publish/subscribe registry.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Name][]subscription
	nextID   int
}

type subscription struct {
	id int
	h  Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Name][]subscription)}
}

// Subscribe registers h for name. The returned func removes it and is safe
// to call more than once.
func (b *Bus) Subscribe(name Name, h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[name] = append(b.handlers[name], subscription{id: id, h: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[name]
		for i, s := range subs {
			if s.id == id {
				b.handlers[name] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(b.handlers[name]) == 0 {
			delete(b.handlers, name)
		}
	}
}

// Emit runs every handler subscribed to name, in subscription order.
// Handlers may subscribe or unsubscribe while being run.
func (b *Bus) Emit(ctx context.Context, name Name) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.handlers[name]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.h(ctx, name)
	}
}

// Len reports how many handlers are subscribed to name.
func (b *Bus) Len(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}
