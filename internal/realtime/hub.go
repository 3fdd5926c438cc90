// Package realtime implements the live-subscription contract used by the
// repositories: a subscriber receives the current snapshot immediately on
// attach and a fresh snapshot after every subsequent change to the watched
// collection, until it cancels.
package realtime

import (
	"context"
	"log/slog"
	"sync"
)

// Hub fans out change signals per topic. Repositories publish a topic after
// every successful write; each subscriber owns a buffered wakeup channel so
// bursts of writes coalesce instead of queueing unboundedly.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[int]chan struct{}
	nextID int
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[int]chan struct{})}
}

// Publish signals every subscriber of topic that the collection changed.
// Never blocks: a subscriber that already has a pending wakeup is skipped.
func (h *Hub) Publish(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.topics[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) attach(topic string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	subs := h.topics[topic]
	if subs == nil {
		subs = make(map[int]chan struct{})
		h.topics[topic] = subs
	}
	ch := make(chan struct{}, 1)
	subs[id] = ch

	detach := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.topics[topic], id)
		if len(h.topics[topic]) == 0 {
			delete(h.topics, topic)
		}
	}
	return ch, detach
}

// Stream registers a live feed on topic. The callback is invoked with the
// result of fetch once synchronously before Stream returns, then again after
// every Publish on the topic. A fetch failure is logged and delivered to the
// callback as an empty snapshot; it is never surfaced as an error to the
// subscriber. The returned function cancels the feed and is safe to call
// more than once.
func Stream[T any](h *Hub, topic string, fetch func(context.Context) ([]T, error), callback func([]T)) func() {
	wake, detach := h.attach(topic)
	done := make(chan struct{})

	deliver := func() {
		snapshot, err := fetch(context.Background())
		if err != nil {
			slog.Error("live snapshot fetch failed", "topic", topic, "error", err)
			callback([]T{})
			return
		}
		callback(snapshot)
	}

	deliver()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-wake:
				select {
				case <-done:
					return
				default:
				}
				deliver()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			detach()
		})
	}
}

// Topic names shared by the store implementations.
const TopicProjects = "projects"

// MeetingsTopic returns the per-project meetings topic.
func MeetingsTopic(projectID string) string {
	return "projects/" + projectID + "/meetings"
}
