// Package realtime fans application events out to live subscribers,
// one in-process channel per broadcast topic.
package realtime

import (
	"log/slog"
	"sync"
	"time"
)

// Envelope is what travels over a broadcast channel and down the wire.
type Envelope struct {
	ID      string                 `json:"id"`
	Event   string                 `json:"event"`
	Channel string                 `json:"channel"`
	Data    map[string]interface{} `json:"data"`
	SentAt  time.Time              `json:"sent_at"`
}

type subscriber struct {
	id int64
	ch chan Envelope
}

type Hub struct {
	mu      sync.RWMutex
	nextID  int64
	subs    map[string][]subscriber
	bufSize int
	logger  *slog.Logger
}

func NewHub(bufSize int, logger *slog.Logger) *Hub {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Hub{
		subs:    make(map[string][]subscriber),
		bufSize: bufSize,
		logger:  logger,
	}
}

// Subscribe opens a buffered feed on the channel. The returned cancel
// func detaches the feed and closes it; calling it twice is safe.
func (h *Hub) Subscribe(channel string) (<-chan Envelope, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := subscriber{
		id: h.nextID,
		ch: make(chan Envelope, h.bufSize),
	}
	h.subs[channel] = append(h.subs[channel], sub)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.unsubscribe(channel, sub.id)
		})
	}
	return sub.ch, cancel
}

// Publish delivers the envelope to every subscriber of the channel.
// Delivery never blocks: a subscriber whose buffer is full misses the
// event rather than wedging the publisher.
func (h *Hub) Publish(channel string, env Envelope) {
	env.Channel = channel

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs[channel] {
		select {
		case sub.ch <- env:
		default:
			h.logger.Warn("dropping broadcast for slow subscriber", "channel", channel, "subscriber", sub.id)
		}
	}
}

// SubscriberCount reports how many feeds are open on the channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[channel])
}

func (h *Hub) unsubscribe(channel string, id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[channel]
	for i, sub := range subs {
		if sub.id == id {
			h.subs[channel] = append(subs[:i], subs[i+1:]...)
			close(sub.ch)
			break
		}
	}
	if len(h.subs[channel]) == 0 {
		delete(h.subs, channel)
	}
}
