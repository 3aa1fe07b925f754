package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"mediastore/domain/model"

	"github.com/gin-gonic/gin"
)

// EntryStatusEvent is the SSE payload sent to an entry owner.
type EntryStatusEvent struct {
	Type     string            `json:"type"`
	EntryID  string            `json:"entryId"`
	TenantID string            `json:"tenantId"`
	Status   model.EntryStatus `json:"status"`
}

type subscriberKey struct {
	tenantID string
	userID   string
}

// Hub fans entry status changes out to the owner's open streams.
type Hub struct {
	mu   sync.RWMutex
	subs map[subscriberKey]map[chan EntryStatusEvent]struct{}
}

func NewEntryHub() *Hub {
	return &Hub{subs: make(map[subscriberKey]map[chan EntryStatusEvent]struct{})}
}

// Serve streams events for the principal resolved by the caller.
func (h *Hub) Serve(c *gin.Context, tenantID, userID string) {
	if userID == "" {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	key := subscriberKey{tenantID: tenantID, userID: userID}
	ch := h.subscribe(key)
	defer h.unsubscribe(key, ch)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: entry_status\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}

func (h *Hub) subscribe(key subscriberKey) chan EntryStatusEvent {
	ch := make(chan EntryStatusEvent, 8)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[chan EntryStatusEvent]struct{})
	}
	h.subs[key][ch] = struct{}{}
	return ch
}

func (h *Hub) unsubscribe(key subscriberKey, ch chan EntryStatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.subs[key]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.subs, key)
		}
	}
}

// BroadcastEntryStatus never blocks; slow subscribers miss events.
func (h *Hub) BroadcastEntryStatus(entry *model.Entry) {
	if entry == nil {
		return
	}
	evt := EntryStatusEvent{
		Type:     "entry_status",
		EntryID:  entry.ID,
		TenantID: entry.TenantID,
		Status:   entry.Status,
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[subscriberKey{tenantID: entry.TenantID, userID: entry.UserID}] {
		select {
		case ch <- evt:
		default:
		}
	}
}
