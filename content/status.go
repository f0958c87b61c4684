package content

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"portfolio/events"
	"portfolio/localstore"
	"portfolio/logger"
	"portfolio/models"

	"go.uber.org/zap"
)

// DefaultStatus is shown when neither a remote nor a local list exists.
var DefaultStatus = []models.StatusItem{
	{Text: "Building out this portfolio site with live chat"},
	{Text: "Polishing Trackademic for public demo"},
}

// StatusFetcher is the part of the gateway the view needs.
type StatusFetcher interface {
	Configured() bool
	FetchStatus(ctx context.Context) []models.StatusItem
}

// LoadLocalStatus reads the list persisted on this machine.
func LoadLocalStatus(kv localstore.KV) ([]models.StatusItem, bool, error) {
	raw, ok, err := kv.Get(localstore.KeyLocalStatus)
	if err != nil || !ok {
		return nil, false, err
	}
	var items []models.StatusItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, fmt.Errorf("failed to parse local status: %w", err)
	}
	return items, true, nil
}

func SaveLocalStatus(kv localstore.KV, items []models.StatusItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode local status: %w", err)
	}
	return kv.Set(localstore.KeyLocalStatus, string(raw))
}

// StatusView renders the "currently working on" list.
type StatusView struct {
	gw  StatusFetcher
	kv  localstore.KV
	log *zap.Logger

	mu    sync.RWMutex
	items []models.StatusItem

	unsubscribe func()
}

// NewStatusView re-fetches on every StatusUpdated event. kv and bus may be
// nil.
func NewStatusView(gw StatusFetcher, kv localstore.KV, bus events.Subscriber, l *zap.Logger) *StatusView {
	v := &StatusView{
		gw:    gw,
		kv:    kv,
		log:   logger.Module(l, "content"),
		items: []models.StatusItem{},
	}
	if bus != nil {
		v.unsubscribe = bus.Subscribe(events.StatusUpdated, func(ctx context.Context, _ events.Name) {
			v.Refresh(ctx)
		})
	}
	return v
}

func (v *StatusView) Refresh(ctx context.Context) {
	items := v.load(ctx)

	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
}

func (v *StatusView) load(ctx context.Context) []models.StatusItem {
	if v.gw != nil && v.gw.Configured() {
		return v.gw.FetchStatus(ctx)
	}
	if v.kv != nil {
		items, ok, err := LoadLocalStatus(v.kv)
		if err != nil {
			v.log.Warn("Ignoring unreadable local status", zap.Error(err))
		}
		if ok {
			return items
		}
	}
	return append([]models.StatusItem{}, DefaultStatus...)
}

func (v *StatusView) Items() []models.StatusItem {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.StatusItem{}, v.items...)
}

func (v *StatusView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}
