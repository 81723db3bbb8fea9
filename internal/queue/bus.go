package queue

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Bus fans board events out to live subscribers, one set per board.
// Slow subscribers miss events rather than block publishers.
type Bus struct {
	mu   sync.RWMutex
	subs map[int64]map[chan []byte]struct{}
}

func NewBus() *Bus { return &Bus{subs: make(map[int64]map[chan []byte]struct{})} }

func (b *Bus) Subscribe(boardID int64) (ch chan []byte, cancel func()) {
	ch = make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[boardID] == nil {
		b.subs[boardID] = make(map[chan []byte]struct{})
	}
	b.subs[boardID][ch] = struct{}{}
	b.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if subs, ok := b.subs[boardID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(b.subs, boardID)
				}
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns how many streams are open on boardID.
func (b *Bus) Subscribers(boardID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[boardID])
}

func (b *Bus) Publish(ev Event) {
	data, _ := json.Marshal(ev)
	b.mu.RLock()
	for ch := range b.subs[ev.BoardID] {
		select {
		case ch <- data:
		default: // drop if slow
		}
	}
	b.mu.RUnlock()
}

// PublishActivity forwards an activity to the card's board stream.
func (b *Bus) PublishActivity(_ context.Context, ev ActivityEvent) error {
	b.Publish(Event{Type: "activity", Entity: "card", BoardID: ev.BoardID, Payload: ev})
	return nil
}

// PublishChange tells board subscribers that entity changed.
func (b *Bus) PublishChange(boardID int64, entity, kind string, id int64) {
	b.Publish(Event{Type: kind, Entity: entity, BoardID: boardID, Payload: map[string]int64{"id": id}})
}

// ServeSSE streams the board's events to one client until it goes away.
func (b *Bus) ServeSSE(w http.ResponseWriter, r *http.Request, boardID int64) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := b.Subscribe(boardID)
	defer cancel()

	// Initial comment to open the stream
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			// heartbeat comment to keep connection alive through proxies
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(msg)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}
