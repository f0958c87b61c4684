package admin

import (
	"context"
	"strings"
	"sync"
	"time"

	"portfolio/content"
	"portfolio/events"
	"portfolio/localstore"
	"portfolio/logger"
	"portfolio/models"

	"go.uber.org/zap"
)

// StatusGateway is the part of the gateway the status editor needs.
type StatusGateway interface {
	Configured() bool
	FetchStatus(ctx context.Context) []models.StatusItem
	SaveStatus(ctx context.Context, items []models.StatusItem) bool
}

// CleanStatus trims every item and drops the blank ones.
func CleanStatus(items []models.StatusItem) []models.StatusItem {
	out := []models.StatusItem{}
	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		out = append(out, models.StatusItem{Text: text})
	}
	return out
}

// StatusEditor edits the status list in memory and saves it wholesale.
type StatusEditor struct {
	gw  StatusGateway
	kv  localstore.KV
	pub events.Publisher
	log *zap.Logger

	mu     sync.Mutex
	items  []models.StatusItem
	notice notice
}

// NewStatusEditor builds an editor. kv, when set, holds the list while
// the gateway is not configured. pub may be nil.
func NewStatusEditor(gw StatusGateway, kv localstore.KV, pub events.Publisher, l *zap.Logger) *StatusEditor {
	return &StatusEditor{
		gw:     gw,
		kv:     kv,
		pub:    pub,
		log:    logger.Module(l, "admin"),
		items:  []models.StatusItem{},
		notice: notice{now: time.Now},
	}
}

// Load replaces the working list with the stored one.
func (e *StatusEditor) Load(ctx context.Context) {
	var items []models.StatusItem
	switch {
	case e.gw.Configured():
		items = e.gw.FetchStatus(ctx)
	case e.kv != nil:
		local, ok, err := content.LoadLocalStatus(e.kv)
		if err != nil {
			e.log.Warn("Ignoring unreadable local status", zap.Error(err))
		}
		if ok {
			items = local
		} else {
			items = append([]models.StatusItem{}, content.DefaultStatus...)
		}
	}

	e.mu.Lock()
	e.items = append([]models.StatusItem{}, items...)
	e.mu.Unlock()
}

func (e *StatusEditor) Items() []models.StatusItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.StatusItem{}, e.items...)
}

// Add appends a blank item to fill in.
func (e *StatusEditor) Add() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = append(e.items, models.StatusItem{})
}

func (e *StatusEditor) Remove(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.items) {
		return
	}
	e.items = append(e.items[:i:i], e.items[i+1:]...)
}

func (e *StatusEditor) Update(i int, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.items) {
		return
	}
	e.items[i].Text = text
}

// Save persists the cleaned list and, on success, adopts it as the working
// list and emits StatusUpdated.
func (e *StatusEditor) Save(ctx context.Context) bool {
	cleaned := CleanStatus(e.Items())

	ok := false
	switch {
	case e.gw.Configured():
		ok = e.gw.SaveStatus(ctx, cleaned)
	case e.kv != nil:
		if err := content.SaveLocalStatus(e.kv, cleaned); err != nil {
			e.log.Error("Failed to save local status", zap.Error(err))
		} else {
			ok = true
		}
	}

	if !ok {
		e.notice.failed()
		return false
	}

	e.mu.Lock()
	e.items = cleaned
	e.mu.Unlock()

	e.notice.saved()
	if e.pub != nil {
		e.pub.Emit(ctx, events.StatusUpdated)
	}
	return true
}

// Notice is the inline save result, "" once it has expired.
func (e *StatusEditor) Notice() string {
	return e.notice.get()
}
