package realtime

import (
	"log"
	"sync"
	"time"
)

type BoardEventType string

const (
	TaskCreated BoardEventType = "task_created"
	TaskUpdated BoardEventType = "task_updated"
	TaskDeleted BoardEventType = "task_deleted"
)

// BoardEvent tells a client that its board needs a refresh.
type BoardEvent struct {
	Type   BoardEventType `json:"type"`
	TaskID int64          `json:"task_id"`
	Status string         `json:"status,omitempty"`
	At     time.Time      `json:"at"`
}

// BoardHub fans task changes out to the open connections of each user.
type BoardHub struct {
	mu    sync.RWMutex
	users map[int64]map[*Conn]struct{}
}

func NewBoardHub() *BoardHub {
	return &BoardHub{users: make(map[int64]map[*Conn]struct{})}
}

func (h *BoardHub) Register(userID int64, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[*Conn]struct{})
	}
	h.users[userID][conn] = struct{}{}
}

func (h *BoardHub) Unregister(userID int64, conn *Conn) {
	h.mu.Lock()
	if conns, ok := h.users[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.users, userID)
		}
	}
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *BoardHub) Connections(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Publish sends ev to every listed user once, skipping zero ids.
func (h *BoardHub) Publish(ev BoardEvent, userIDs ...int64) {
	seen := make(map[int64]bool, len(userIDs))
	h.mu.RLock()
	var targets []*Conn
	for _, id := range userIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		for conn := range h.users[id] {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("[ws][publish][warn] task=%d: %v", ev.TaskID, err)
		}
	}
}
