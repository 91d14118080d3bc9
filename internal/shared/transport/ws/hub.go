package ws

import (
	"sync"
)

// Hub 房间 → 连接集合。连接关闭后自动退出所有房间。
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[WSConn]struct{}
	joined map[WSConn]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]map[WSConn]struct{}),
		joined: make(map[WSConn]map[string]struct{}),
	}
}

func (h *Hub) Join(room string, c WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.rooms[room]
	if members == nil {
		members = make(map[WSConn]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}

	rooms, seen := h.joined[c]
	if !seen {
		rooms = make(map[string]struct{})
		h.joined[c] = rooms
		go func() {
			<-c.Done()
			h.LeaveAll(c)
		}()
	}
	rooms[room] = struct{}{}
}

func (h *Hub) Leave(room string, c WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(room, c)
	if rooms := h.joined[c]; rooms != nil {
		delete(rooms, room)
	}
}

func (h *Hub) LeaveAll(c WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.joined[c] {
		h.leaveLocked(room, c)
	}
	delete(h.joined, c)
}

func (h *Hub) leaveLocked(room string, c WSConn) {
	members := h.rooms[room]
	if members == nil {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Broadcast 向房间内所有连接推送，返回推送的连接数。
func (h *Hub) Broadcast(room, name string, data any) int {
	h.mu.RLock()
	targets := make([]WSConn, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.Push(name, data)
	}
	return len(targets)
}

func (h *Hub) Size(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
