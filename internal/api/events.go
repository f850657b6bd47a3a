package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/ecoquest-app/ecoquest/internal/domain"
)

// EventHub fans engagement events out to SSE subscribers (the mobile
// client's live celebration layer: level-up banners, badge pops).
// Slow subscribers drop events rather than block the publisher.
type EventHub struct {
	mu   sync.Mutex
	subs map[chan domain.Event]struct{}
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[chan domain.Event]struct{})}
}

// Broadcast sends events to every subscriber without blocking.
func (h *EventHub) Broadcast(events []domain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ev := range events {
		for ch := range h.subs {
			select {
			case ch <- ev:
			default: // subscriber too slow — drop
			}
		}
	}
}

func (h *EventHub) subscribe() chan domain.Event {
	ch := make(chan domain.Event, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) unsubscribe(ch chan domain.Event) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// HandleSSE streams engagement events as server-sent events until the
// client disconnects.
func (h *EventHub) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			blob, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, blob)
			flusher.Flush()
		}
	}
}
