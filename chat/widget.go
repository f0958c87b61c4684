// Package chat holds the live chat transcript and the rate-limited send
// path shared by the terminal client and the HTTP handlers.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"portfolio/identity"
	"portfolio/logger"
	"portfolio/models"

	"go.uber.org/zap"
)

// DefaultSendInterval is the minimum gap between two successful sends.
const DefaultSendInterval = 2000 * time.Millisecond

var (
	ErrEmptyDraft = errors.New("message is empty")
	ErrTooSoon    = errors.New("sending too fast, wait a moment")
	ErrNoUsername = errors.New("choose a username first")
	ErrSendFailed = errors.New("message could not be sent")
)

// Gateway is the part of the remote gateway the widget needs.
type Gateway interface {
	FetchMessages(ctx context.Context) []models.ChatMessage
	SendMessage(ctx context.Context, username, text string) bool
	SubscribeMessages(onInsert func(models.ChatMessage)) func()
}

// Widget keeps the newest TranscriptSize messages, oldest first.
type Widget struct {
	gw          Gateway
	ids         *identity.Store
	minInterval time.Duration
	now         func() time.Time
	log         *zap.Logger

	mu          sync.Mutex
	messages    []models.ChatMessage
	draft       string
	lastSent    time.Time
	generation  int
	unsubscribe func()
	observers   []func([]models.ChatMessage)
}

// NewWidget builds a widget. A zero minInterval uses DefaultSendInterval.
func NewWidget(gw Gateway, ids *identity.Store, minInterval time.Duration, l *zap.Logger) *Widget {
	if minInterval <= 0 {
		minInterval = DefaultSendInterval
	}
	return &Widget{
		gw:          gw,
		ids:         ids,
		minInterval: minInterval,
		now:         time.Now,
		log:         logger.Module(l, "chat"),
		messages:    []models.ChatMessage{},
	}
}

// Open loads the transcript and then subscribes to new messages. A Close
// that lands while the fetch is in flight discards its result. Opening an
// open widget refreshes it and keeps a single subscription.
func (w *Widget) Open(ctx context.Context) error {
	if w.Username() == "" {
		return ErrNoUsername
	}

	w.mu.Lock()
	w.generation++
	gen := w.generation
	w.mu.Unlock()

	initial := w.gw.FetchMessages(ctx)

	w.mu.Lock()
	if gen != w.generation {
		w.mu.Unlock()
		w.log.Debug("Discarding transcript fetched after close")
		return nil
	}
	changed := w.merge(initial)
	w.mu.Unlock()
	if changed {
		w.notify()
	}

	unsubscribe := w.gw.SubscribeMessages(w.deliver)

	w.mu.Lock()
	if gen != w.generation {
		w.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
		return nil
	}
	previous := w.unsubscribe
	w.unsubscribe = unsubscribe
	w.mu.Unlock()

	// Reopening replaces the live subscription.
	if previous != nil {
		previous()
	}
	return nil
}

// Close stops the live subscription. The transcript is kept.
func (w *Widget) Close() {
	w.mu.Lock()
	w.generation++
	unsubscribe := w.unsubscribe
	w.unsubscribe = nil
	w.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (w *Widget) deliver(m models.ChatMessage) {
	w.mu.Lock()
	changed := w.merge([]models.ChatMessage{m})
	w.mu.Unlock()
	if changed {
		w.notify()
	}
}

// merge appends unseen messages and trims to TranscriptSize. Callers hold
// w.mu.
func (w *Widget) merge(msgs []models.ChatMessage) bool {
	changed := false
	for _, m := range msgs {
		if w.has(m) {
			continue
		}
		w.messages = append(w.messages, m)
		changed = true
	}
	if over := len(w.messages) - models.TranscriptSize; over > 0 {
		w.messages = append([]models.ChatMessage{}, w.messages[over:]...)
	}
	return changed
}

func (w *Widget) has(m models.ChatMessage) bool {
	for _, existing := range w.messages {
		if existing.ID == m.ID {
			return true
		}
	}
	return false
}

// Messages returns a snapshot of the transcript.
func (w *Widget) Messages() []models.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.ChatMessage{}, w.messages...)
}

// OnChange registers fn to receive the transcript after every change.
func (w *Widget) OnChange(fn func([]models.ChatMessage)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.observers = append(w.observers, fn)
}

func (w *Widget) notify() {
	w.mu.Lock()
	observers := append([]func([]models.ChatMessage){}, w.observers...)
	snapshot := append([]models.ChatMessage{}, w.messages...)
	w.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

// SetDraft replaces the draft, capped at MaxMessageLength characters.
func (w *Widget) SetDraft(text string) {
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		text = string([]rune(text)[:models.MaxMessageLength])
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = text
}

func (w *Widget) Draft() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Send posts the draft. The draft is cleared before the network call and
// is not restored if the call fails.
func (w *Widget) Send(ctx context.Context) error {
	username := w.Username()

	w.mu.Lock()
	text := strings.TrimSpace(w.draft)
	if text == "" {
		w.mu.Unlock()
		return ErrEmptyDraft
	}
	if username == "" {
		w.mu.Unlock()
		return ErrNoUsername
	}
	now := w.now()
	if !w.lastSent.IsZero() && now.Sub(w.lastSent) < w.minInterval {
		w.mu.Unlock()
		return ErrTooSoon
	}
	previous := w.lastSent
	w.lastSent = now
	w.draft = ""
	w.mu.Unlock()

	if !w.gw.SendMessage(ctx, username, text) {
		w.mu.Lock()
		if w.lastSent.Equal(now) {
			w.lastSent = previous
		}
		w.mu.Unlock()
		return ErrSendFailed
	}
	return nil
}

// Username is the persisted chat name, "" when none was chosen.
func (w *Widget) Username() string {
	name, err := w.ids.Username()
	if err != nil {
		w.log.Warn("Failed to read username", zap.Error(err))
		return ""
	}
	return name
}

// ChooseUsername sanitizes and persists input, generating a name when it
// is blank.
func (w *Widget) ChooseUsername(input string) (string, error) {
	return w.ids.Choose(input)
}
