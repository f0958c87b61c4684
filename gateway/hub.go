package gateway

import (
	"context"
	"sync"
	"time"

	"portfolio/models"

	"go.uber.org/zap"
)

// subscriberBuffer is how many messages a slow subscriber may fall behind
// before deliveries to it are dropped.
const subscriberBuffer = 64

type subscriber struct {
	send chan models.ChatMessage
	done chan struct{}
}

// messageHub shares one ListenMessages loop between every live
// subscription. The loop starts with the first subscriber and stops with
// the last, so the whole process holds at most one listener connection.
type messageHub struct {
	g *Gateway

	mu      sync.Mutex
	clients map[*subscriber]struct{}
	cancel  context.CancelFunc
	done    chan struct{}
}

func newMessageHub(g *Gateway) *messageHub {
	return &messageHub{g: g, clients: make(map[*subscriber]struct{})}
}

func (h *messageHub) register(onInsert func(models.ChatMessage)) *subscriber {
	s := &subscriber{
		send: make(chan models.ChatMessage, subscriberBuffer),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		for m := range s.send {
			onInsert(m)
		}
	}()

	h.mu.Lock()
	h.clients[s] = struct{}{}
	if h.cancel == nil {
		h.start()
	}
	total := len(h.clients)
	h.mu.Unlock()

	h.g.log.Debug("Chat subscriber registered", zap.Int("total", total))
	return s
}

// unregister removes s and waits until it has received its last message.
// Dropping the last subscriber stops the listener and waits for it to exit.
func (h *messageHub) unregister(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.clients[s]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, s)
	close(s.send)

	var stop context.CancelFunc
	var stopped chan struct{}
	if len(h.clients) == 0 && h.cancel != nil {
		stop, stopped = h.cancel, h.done
		h.cancel, h.done = nil, nil
	}
	total := len(h.clients)
	h.mu.Unlock()

	<-s.done
	if stop != nil {
		stop()
		<-stopped
	}
	h.g.log.Debug("Chat subscriber unregistered", zap.Int("total", total))
}

// broadcast never blocks the listener on a slow subscriber.
func (h *messageHub) broadcast(m models.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.clients {
		select {
		case s.send <- m:
		default:
			h.g.log.Warn("Dropping chat message for slow subscriber", zap.String("id", m.ID.String()))
		}
	}
}

// start launches the listener loop. Callers hold h.mu.
func (h *messageHub) start() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	h.cancel, h.done = cancel, done

	go func() {
		defer close(done)
		for {
			err := h.g.store.ListenMessages(ctx, h.broadcast)
			if ctx.Err() != nil {
				return
			}
			h.g.log.Warn("Message subscription dropped, reopening", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(h.g.resubscribe):
			}
		}
	}()
}

// size reports the number of live subscribers.
func (h *messageHub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
